package models

// MultiValue is a parsed bracket-encoded answer and its first token.
// Primary is empty when the answer is missing or an empty list.
type MultiValue struct {
	Values  []string `json:"values"`
	Primary string   `json:"primary,omitempty"`
}

// Respondent is the analytical record derived 1:1 from a RawSurvey.
// Every field is a function of Raw alone; missing inputs leave the derived
// field at its zero value (or nil for numbers) rather than a default.
type Respondent struct {
	Raw *RawSurvey `json:"raw"`

	HousingStatus          MultiValue `json:"situacao_habitacional"`
	HouseKind              MultiValue `json:"tipo_casa"`
	Typology               MultiValue `json:"tipologia"`
	ProfessionalStatus     MultiValue `json:"situacao_profissional"`
	SatisfactionAnswer     MultiValue `json:"satisfacao"`
	RentStrategies         MultiValue `json:"estrategia_arrendamento"`
	DissatisfactionReasons MultiValue `json:"insatisfacao_motivos"`
	BuyStrategies          MultiValue `json:"estrategia_compra"`

	District          string            `json:"distrito,omitempty"`
	HousingSituation  HousingSituation  `json:"housing_situation,omitempty"`
	SatisfactionLevel SatisfactionLevel `json:"satisfaction_level,omitempty"`
	IncomeBracket     IncomeBracket     `json:"rendimento_clean,omitempty"`
	IncomeNumeric     *float64          `json:"rendimento_numerical,omitempty"`
	AreaNumeric       *float64          `json:"area_numerical,omitempty"`
	RentPercentage    *float64          `json:"rent_percentage,omitempty"`
	RentBurden        RentBurden        `json:"rent_burden"`
	HouseType         HouseType         `json:"house_type,omitempty"`
	Bedrooms          Bedrooms          `json:"bedroom_count,omitempty"`
	Reasons           ReasonSet         `json:"reasons"`
	Education         Education         `json:"education_level,omitempty"`
	Employment        Employment        `json:"employment_status,omitempty"`

	MonthlyRent     *float64 `json:"monthly_rent,omitempty"`
	PurchasePrice   *float64 `json:"purchase_price,omitempty"`
	RentalStartYear *int     `json:"rental_start_year,omitempty"`
	PurchaseYear    *int     `json:"purchase_year,omitempty"`

	BirthPeriod *int     `json:"birth_period,omitempty"`
	ApproxAge   *int     `json:"approx_age,omitempty"`
	AgeGroup    AgeGroup `json:"age_group,omitempty"`

	HouseholdSize    float64  `json:"household_size"`
	HouseholdGroup   string   `json:"household_size_grouped,omitempty"`
	HasDependents    bool     `json:"has_dependents"`
	AreaPerPerson    *float64 `json:"area_per_person,omitempty"`
	BedroomsAdequate *bool    `json:"bedrooms_adequate,omitempty"`

	RentIncomeRatio    *float64     `json:"rent_income_ratio,omitempty"`
	MonthlyHousingCost *float64     `json:"monthly_housing_cost,omitempty"`
	HousingCostRatio   *float64     `json:"housing_cost_ratio,omitempty"`
	CostIncomeCategory CostCategory `json:"cost_income_category,omitempty"`
}

// List returns the parsed answer for a multi-value column.
func (r *Respondent) List(f ListField) MultiValue {
	switch f {
	case FieldHousingStatus:
		return r.HousingStatus
	case FieldHouseKind:
		return r.HouseKind
	case FieldTypology:
		return r.Typology
	case FieldProfessionalStatus:
		return r.ProfessionalStatus
	case FieldSatisfaction:
		return r.SatisfactionAnswer
	case FieldRentStrategies:
		return r.RentStrategies
	case FieldDissatisfaction:
		return r.DissatisfactionReasons
	case FieldBuyStrategies:
		return r.BuyStrategies
	}
	return MultiValue{}
}

// SatisfactionScore is the 1..5 score of SatisfactionLevel.
func (r *Respondent) SatisfactionScore() (float64, bool) {
	s, ok := r.SatisfactionLevel.Score()
	return float64(s), ok
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
