package models

// Count is one category of a frequency table.
type Count struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Crosstab is a two-way frequency table. When Normalized is set each row of
// Cells holds percentages summing to 100 instead of counts.
type Crosstab struct {
	Rows       []string    `json:"rows"`
	Columns    []string    `json:"columns"`
	Cells      [][]float64 `json:"cells"`
	Normalized bool        `json:"normalized"`
}

// Cell returns the value at (row, col), or 0 when either label is absent.
func (c Crosstab) Cell(row, col string) float64 {
	for i, r := range c.Rows {
		if r != row {
			continue
		}
		for j, k := range c.Columns {
			if k == col {
				return c.Cells[i][j]
			}
		}
	}
	return 0
}

// Summary is a describe()-style summary of a numeric sample.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// GroupStat summarizes a numeric column within one category.
type GroupStat struct {
	Group string `json:"group"`
	Summary
}

// YearValue is the mean of a numeric column for one calendar year.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// DistrictSummary is one district entry of the overview and geography maps.
type DistrictSummary struct {
	District          string      `json:"district"`
	MapName           string      `json:"map_name,omitempty"`
	Responses         int         `json:"responses"`
	SatisfactionScore *float64    `json:"satisfaction_score,omitempty"`
	AvgRent           *float64    `json:"avg_rent,omitempty"`
	AvgPurchase       *float64    `json:"avg_purchase,omitempty"`
	HighBurdenPct     float64     `json:"high_burden_pct"`
	Centroid          *[2]float64 `json:"centroid,omitempty"`
}

// OverviewReport holds the headline metrics.
type OverviewReport struct {
	TotalResponses      int               `json:"total_responses"`
	OwnedPct            float64           `json:"owned_pct"`
	RentingPct          float64           `json:"renting_pct"`
	LivingWithOthersPct float64           `json:"living_with_others_pct"`
	AvgSatisfaction     *float64          `json:"avg_satisfaction,omitempty"`
	TopDistricts        []Count           `json:"top_districts"`
	Districts           []DistrictSummary `json:"districts"`
}

// StrategyScore is the mean satisfaction of respondents who used a strategy.
type StrategyScore struct {
	Strategy        string  `json:"strategy"`
	Kind            string  `json:"kind"`
	AvgSatisfaction float64 `json:"avg_satisfaction"`
	Count           int     `json:"count"`
}

// DistributionReport covers who lives how.
type DistributionReport struct {
	Housing              []Count         `json:"housing"`
	AgeByHousing         Crosstab        `json:"age_by_housing"`
	Education            []Count         `json:"education"`
	RentBurden           []Count         `json:"rent_burden"`
	RentStrategies       []Count         `json:"rent_strategies"`
	BuyStrategies        []Count         `json:"buy_strategies"`
	StrategySatisfaction []StrategyScore `json:"strategy_satisfaction"`
	RentByYear           []YearValue     `json:"rent_by_year"`
	PriceByYear          []YearValue     `json:"price_by_year"`
}

// GeographyReport covers per-district distributions.
type GeographyReport struct {
	District           string            `json:"district,omitempty"`
	DistrictHousing    Crosstab          `json:"district_housing"`
	TopDistricts       []Count           `json:"top_districts"`
	RentByDistrict     []GroupStat       `json:"rent_by_district"`
	PurchaseByDistrict []GroupStat       `json:"purchase_by_district"`
	Map                []DistrictSummary `json:"map"`
}

// SatisfactionReport covers satisfaction against income, burden and place.
type SatisfactionReport struct {
	Distribution         []Count     `json:"distribution"`
	DissatisfiedPct      float64     `json:"dissatisfied_pct"`
	IncomeBySatisfaction Crosstab    `json:"income_by_satisfaction"`
	ScoreByIncome        []GroupStat `json:"score_by_income"`
	BurdenBySatisfaction Crosstab    `json:"burden_by_satisfaction"`
	ScoreByBurden        []GroupStat `json:"score_by_burden"`
	Reasons              []Count     `json:"reasons"`
	ScoreByDistrict      []GroupStat `json:"score_by_district"`
}

// Simulation applies the affordability share to an annual income.
type Simulation struct {
	AnnualIncome          float64 `json:"annual_income"`
	MonthlyIncome         float64 `json:"monthly_income"`
	AffordableMonthlyCost float64 `json:"affordable_monthly_cost"`
	Share                 float64 `json:"share"`
}

// DistrictAffordability compares an affordable rent to a district's mean rent.
type DistrictAffordability struct {
	District   string  `json:"district"`
	AvgRent    float64 `json:"avg_rent"`
	Index      float64 `json:"index"`
	Affordable bool    `json:"affordable"`
}

// AffordabilityReport covers income against housing costs.
type AffordabilityReport struct {
	RentBurden         []Count                 `json:"rent_burden"`
	IncomeByHousing    []GroupStat             `json:"income_by_housing"`
	CostRatioByHousing Crosstab                `json:"cost_ratio_by_housing"`
	RentByYear         []YearValue             `json:"rent_by_year"`
	RentRatioByYear    []YearValue             `json:"rent_ratio_by_year"`
	Simulator          Simulation              `json:"simulator"`
	Districts          []DistrictAffordability `json:"districts"`
}

// EducationReport covers education and employment cross-tabulations.
type EducationReport struct {
	EducationByHousing       Crosstab    `json:"education_by_housing"`
	EmploymentByHousing      Crosstab    `json:"employment_by_housing"`
	IncomeByEducation        []GroupStat `json:"income_by_education"`
	BurdenByEmployment       Crosstab    `json:"burden_by_employment"`
	EducationBySatisfaction  Crosstab    `json:"education_by_satisfaction"`
	EmploymentBySatisfaction Crosstab    `json:"employment_by_satisfaction"`
	ReasonsByEducation       Crosstab    `json:"reasons_by_education"`
}

// HousingSizesReport covers dwelling size against household composition.
type HousingSizesReport struct {
	AvgHouseholdSize         *float64    `json:"avg_household_size,omitempty"`
	AvgAreaPerPerson         *float64    `json:"avg_area_per_person,omitempty"`
	HouseholdSizes           []Count     `json:"household_sizes"`
	Dependents               []Count     `json:"dependents"`
	HouseTypes               []Count     `json:"house_types"`
	Bedrooms                 []Count     `json:"bedrooms"`
	AreaBins                 []Count     `json:"area_bins"`
	AreaBySatisfaction       []GroupStat `json:"area_by_satisfaction"`
	AreaByHousehold          []GroupStat `json:"area_by_household"`
	AreaPerPersonByHousehold []GroupStat `json:"area_per_person_by_household"`
	TypeByBedrooms           Crosstab    `json:"type_by_bedrooms"`
	BedroomAdequacyPct       float64     `json:"bedroom_adequacy_pct"`
	OvercrowdedPct           float64     `json:"overcrowded_pct"`
	SatisfiedPct             float64     `json:"satisfied_pct"`
}

// GroupValue is one bar of an explorer aggregation.
type GroupValue struct {
	Group string  `json:"group"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Aggregation is an explorer group-by result.
type Aggregation struct {
	GroupBy string       `json:"group_by"`
	Value   string       `json:"value,omitempty"`
	Func    string       `json:"func"`
	Groups  []GroupValue `json:"groups"`
}

// CorrelationPair is the Pearson coefficient of two numeric columns.
// R is nil when the coefficient is undefined (fewer than two pairs, zero variance).
type CorrelationPair struct {
	A string   `json:"a"`
	B string   `json:"b"`
	R *float64 `json:"r"`
}

// CorrelationMatrix is a symmetric matrix over Columns.
type CorrelationMatrix struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// ExploreReport is the free-form explorer result.
type ExploreReport struct {
	Total           int                `json:"total"`
	Matched         int                `json:"matched"`
	Aggregation     *Aggregation       `json:"aggregation,omitempty"`
	Summaries       map[string]Summary `json:"summaries"`
	Correlation     CorrelationMatrix  `json:"correlation"`
	TopCorrelations []CorrelationPair  `json:"top_correlations"`
}

// InsightReport bundles every view over one table.
type InsightReport struct {
	Overview      OverviewReport      `json:"overview"`
	Distribution  DistributionReport  `json:"distribution"`
	Geography     GeographyReport     `json:"geography"`
	Satisfaction  SatisfactionReport  `json:"satisfaction"`
	Affordability AffordabilityReport `json:"affordability"`
	Education     EducationReport     `json:"education"`
	HousingSizes  HousingSizesReport  `json:"housing_sizes"`
}
