package services

import (
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"housing-dashboard/config"
	"housing-dashboard/models"
	"housing-dashboard/utils"
)

// DefaultSimulatorIncome is the annual income the simulator starts from.
const DefaultSimulatorIncome = 30000

// overcrowdedArea is the m² per person under which a dwelling counts as overcrowded.
const overcrowdedArea = 15

// InsightService computes the dashboard views over an already filtered table.
// Every view is a pure function of its rows.
type InsightService struct {
	logger      *utils.Logger
	assumptions *config.Assumptions
	districts   *DistrictMap
}

func NewInsightService(logger *utils.Logger, assumptions *config.Assumptions, districts *DistrictMap) *InsightService {
	if assumptions == nil {
		assumptions = config.DefaultAssumptions()
	}
	return &InsightService{logger: logger, assumptions: assumptions, districts: districts}
}

func byHousing(rows []*models.Respondent, h models.HousingSituation) []*models.Respondent {
	return ApplyFilters(rows, FilterSpec{HousingSituations: []models.HousingSituation{h}})
}

// share counts rows where ok is true and returns the percentage of them where hit is true.
func share(rows []*models.Respondent, hit func(r *models.Respondent) (bool, bool)) float64 {
	var n, yes int
	for _, r := range rows {
		h, ok := hit(r)
		if !ok {
			continue
		}
		n++
		if h {
			yes++
		}
	}
	return pct(yes, n)
}

// Overview computes the headline metrics and the per-district summary.
func (s *InsightService) Overview(rows []*models.Respondent) models.OverviewReport {
	housing := CountBy(rows, DimHousing)
	count := func(h models.HousingSituation) int {
		for _, c := range housing {
			if c.Label == string(h) {
				return c.Count
			}
		}
		return 0
	}

	return models.OverviewReport{
		TotalResponses:      len(rows),
		OwnedPct:            pct(count(models.Owned), len(rows)),
		RentingPct:          pct(count(models.Renting), len(rows)),
		LivingWithOthersPct: pct(count(models.LivingWithOthers), len(rows)),
		AvgSatisfaction:     Mean(rows, MeasureSatisfaction),
		TopDistricts:        TopN(CountBy(rows, DimDistrict), 5),
		Districts:           s.districtSummaries(rows),
	}
}

func (s *InsightService) districtSummaries(rows []*models.Respondent) []models.DistrictSummary {
	counts := CountBy(rows, DimDistrict)
	out := make([]models.DistrictSummary, 0, len(counts))
	for _, c := range counts {
		in := ApplyFilters(rows, FilterSpec{Districts: []string{c.Label}})
		renters := byHousing(in, models.Renting)

		d := models.DistrictSummary{
			District:          c.Label,
			Responses:         c.Count,
			SatisfactionScore: Mean(in, MeasureSatisfaction),
			AvgRent:           Mean(in, MeasureRent),
			AvgPurchase:       Mean(in, MeasurePurchase),
			HighBurdenPct: share(renters, func(r *models.Respondent) (bool, bool) {
				return r.RentBurden.IsHigh(), true
			}),
		}
		if shape, ok := s.districts.Lookup(c.Label); ok {
			d.MapName = shape.Name
			centroid := shape.Centroid
			d.Centroid = &centroid
		}
		out = append(out, d)
	}
	return out
}

// Distribution covers housing, age, education, strategies and yearly prices.
func (s *InsightService) Distribution(rows []*models.Respondent) models.DistributionReport {
	rentStrategies := ExplodeCount(rows, models.FieldRentStrategies)
	buyStrategies := ExplodeCount(rows, models.FieldBuyStrategies)

	scores := strategyScores(rows, models.FieldRentStrategies, "rent", rentStrategies)
	scores = append(scores, strategyScores(rows, models.FieldBuyStrategies, "buy", buyStrategies)...)

	return models.DistributionReport{
		Housing:              CountBy(rows, DimHousing),
		AgeByHousing:         Crosstab(rows, DimAgeGroup, DimHousing, true),
		Education:            CountBy(rows, DimEducation),
		RentBurden:           CountBy(byHousing(rows, models.Renting), DimRentBurden),
		RentStrategies:       rentStrategies,
		BuyStrategies:        buyStrategies,
		StrategySatisfaction: scores,
		RentByYear:           YearMeans(rows, func(r *models.Respondent) *int { return r.RentalStartYear }, MeasureRent),
		PriceByYear:          YearMeans(rows, func(r *models.Respondent) *int { return r.PurchaseYear }, MeasurePurchase),
	}
}

func strategyScores(rows []*models.Respondent, field models.ListField, kind string, strategies []models.Count) []models.StrategyScore {
	out := make([]models.StrategyScore, 0, len(strategies))
	for _, st := range strategies {
		var sum float64
		var n int
		for _, r := range rows {
			if !slices.Contains(r.List(field).Values, st.Label) {
				continue
			}
			if v, ok := r.SatisfactionScore(); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			continue
		}
		out = append(out, models.StrategyScore{Strategy: st.Label, Kind: kind, AvgSatisfaction: sum / float64(n), Count: n})
	}
	return out
}

// Geography covers district distributions. A non-empty district narrows the
// rent and purchase statistics to that district.
func (s *InsightService) Geography(rows []*models.Respondent, district string) models.GeographyReport {
	scoped := rows
	if district != "" {
		scoped = ApplyFilters(rows, FilterSpec{Districts: []string{district}})
	}

	var mapped []models.DistrictSummary
	for _, d := range s.districtSummaries(rows) {
		if d.Centroid != nil {
			mapped = append(mapped, d)
		}
	}
	if mapped == nil {
		mapped = []models.DistrictSummary{}
	}

	return models.GeographyReport{
		District:           district,
		DistrictHousing:    Crosstab(rows, DimDistrict, DimHousing, false),
		TopDistricts:       TopN(CountBy(rows, DimDistrict), 5),
		RentByDistrict:     GroupStats(scoped, DimDistrict, MeasureRent),
		PurchaseByDistrict: GroupStats(scoped, DimDistrict, MeasurePurchase),
		Map:                mapped,
	}
}

// Satisfaction relates satisfaction to income, rent burden, reasons and place.
func (s *InsightService) Satisfaction(rows []*models.Respondent) models.SatisfactionReport {
	renters := byHousing(rows, models.Renting)

	return models.SatisfactionReport{
		Distribution: CountBy(rows, DimSatisfaction),
		DissatisfiedPct: share(rows, func(r *models.Respondent) (bool, bool) {
			return r.SatisfactionLevel.IsDissatisfied(), r.SatisfactionLevel != ""
		}),
		IncomeBySatisfaction: Crosstab(rows, DimIncome, DimSatisfaction, true),
		ScoreByIncome:        GroupStats(rows, DimIncome, MeasureSatisfaction),
		BurdenBySatisfaction: Crosstab(renters, DimRentBurden, DimSatisfaction, true),
		ScoreByBurden:        GroupStats(renters, DimRentBurden, MeasureSatisfaction),
		Reasons:              reasonCounts(rows),
		ScoreByDistrict:      SortByMean(GroupStats(rows, DimDistrict, MeasureSatisfaction)),
	}
}

// reasonCounts counts each flagged reason. Percentages are relative to the
// respondents who gave at least one catalogue reason.
func reasonCounts(rows []*models.Respondent) []models.Count {
	counts := map[string]int{}
	answered := 0
	for _, r := range rows {
		if r.Reasons == 0 {
			continue
		}
		answered++
		for _, reason := range r.Reasons.List() {
			counts[string(reason)]++
		}
	}
	return toCounts(counts, answered, nil)
}

// Affordability compares incomes with housing costs and simulates what an
// annual income can afford under the configured share.
func (s *InsightService) Affordability(rows []*models.Respondent, annualIncome float64) models.AffordabilityReport {
	renters := byHousing(rows, models.Renting)
	shareOfIncome := s.assumptions.Affordability.Share
	affordable := AffordableMonthlyCost(annualIncome, shareOfIncome)

	startYear := func(r *models.Respondent) *int { return r.RentalStartYear }

	return models.AffordabilityReport{
		RentBurden:         CountBy(renters, DimRentBurden),
		IncomeByHousing:    GroupStats(rows, DimHousing, MeasureIncome),
		CostRatioByHousing: Crosstab(rows, DimHousing, DimCostCategory, true),
		RentByYear:         YearMeans(renters, startYear, MeasureRent),
		RentRatioByYear:    YearMeans(renters, startYear, MeasureRentRatio),
		Simulator: models.Simulation{
			AnnualIncome:          annualIncome,
			MonthlyIncome:         annualIncome / 12,
			AffordableMonthlyCost: affordable,
			Share:                 shareOfIncome,
		},
		Districts: districtAffordability(renters, affordable),
	}
}

func districtAffordability(renters []*models.Respondent, affordable float64) []models.DistrictAffordability {
	stats := GroupStats(renters, DimDistrict, MeasureRent)
	out := make([]models.DistrictAffordability, 0, len(stats))
	for _, st := range stats {
		if st.Mean <= 0 {
			continue
		}
		index := affordable / st.Mean
		out = append(out, models.DistrictAffordability{
			District:   st.Group,
			AvgRent:    st.Mean,
			Index:      index,
			Affordable: index >= 1,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index > out[j].Index })
	return out
}

// EducationEmployment cross-tabulates education and employment against
// housing, income, burden and satisfaction.
func (s *InsightService) EducationEmployment(rows []*models.Respondent) models.EducationReport {
	renters := byHousing(rows, models.Renting)

	return models.EducationReport{
		EducationByHousing:       Crosstab(rows, DimEducation, DimHousing, true),
		EmploymentByHousing:      Crosstab(rows, DimEmployment, DimHousing, true),
		IncomeByEducation:        GroupStats(rows, DimEducation, MeasureIncome),
		BurdenByEmployment:       Crosstab(renters, DimEmployment, DimRentBurden, true),
		EducationBySatisfaction:  Crosstab(rows, DimEducation, DimSatisfaction, true),
		EmploymentBySatisfaction: Crosstab(rows, DimEmployment, DimSatisfaction, true),
		ReasonsByEducation:       reasonsByEducation(rows),
	}
}

// reasonsByEducation gives, per education level, the share of dissatisfied
// respondents flagging each reason.
func reasonsByEducation(rows []*models.Respondent) models.Crosstab {
	totals := map[string]int{}
	for _, r := range rows {
		if r.Education != "" && r.SatisfactionLevel.IsDissatisfied() {
			totals[string(r.Education)]++
		}
	}

	ct := models.Crosstab{
		Rows:       sortLabels(totals, dimensionOrder["education_level"]),
		Columns:    labelsOf(models.Reasons),
		Normalized: true,
	}
	ct.Cells = make([][]float64, len(ct.Rows))
	for i, edu := range ct.Rows {
		ct.Cells[i] = make([]float64, len(models.Reasons))
		for j, reason := range models.Reasons {
			n := 0
			for _, r := range rows {
				if string(r.Education) == edu && r.SatisfactionLevel.IsDissatisfied() && r.Reasons.Has(reason) {
					n++
				}
			}
			ct.Cells[i][j] = pct(n, totals[edu])
		}
	}
	return ct
}

var (
	dimAreaBin = Dimension{
		Name: "area_bin",
		Value: func(r *models.Respondent) (string, bool) {
			if r.AreaNumeric == nil {
				return "", false
			}
			return AreaBin(*r.AreaNumeric), true
		},
		Order: AreaBins,
	}
	dimDependents = Dimension{
		Name: "dependents",
		Value: func(r *models.Respondent) (string, bool) {
			if r.HouseholdSize <= 0 {
				return "", false
			}
			if r.HasDependents {
				return "With dependents", true
			}
			return "Without dependents", true
		},
		Order: []string{"With dependents", "Without dependents"},
	}
	measureHouseholdSize = func(r *models.Respondent) (float64, bool) {
		return r.HouseholdSize, r.HouseholdSize > 0
	}
)

// HousingSizes relates dwelling size and typology to household composition.
func (s *InsightService) HousingSizes(rows []*models.Respondent) models.HousingSizesReport {
	return models.HousingSizesReport{
		AvgHouseholdSize:         Mean(rows, measureHouseholdSize),
		AvgAreaPerPerson:         Mean(rows, MeasureAreaPerPerson),
		HouseholdSizes:           CountBy(rows, DimHousehold),
		Dependents:               CountBy(rows, dimDependents),
		HouseTypes:               CountBy(rows, DimHouseType),
		Bedrooms:                 CountBy(rows, DimBedrooms),
		AreaBins:                 CountBy(rows, dimAreaBin),
		AreaBySatisfaction:       GroupStats(rows, DimSatisfaction, MeasureArea),
		AreaByHousehold:          GroupStats(rows, DimHousehold, MeasureArea),
		AreaPerPersonByHousehold: GroupStats(rows, DimHousehold, MeasureAreaPerPerson),
		TypeByBedrooms:           Crosstab(rows, DimHouseType, DimBedrooms, false),
		BedroomAdequacyPct: share(rows, func(r *models.Respondent) (bool, bool) {
			if r.BedroomsAdequate == nil {
				return false, false
			}
			return *r.BedroomsAdequate, true
		}),
		OvercrowdedPct: share(rows, func(r *models.Respondent) (bool, bool) {
			if r.AreaPerPerson == nil {
				return false, false
			}
			return *r.AreaPerPerson < overcrowdedArea, true
		}),
		SatisfiedPct: share(rows, func(r *models.Respondent) (bool, bool) {
			return r.SatisfactionLevel.IsSatisfied(), r.AreaNumeric != nil && r.SatisfactionLevel != ""
		}),
	}
}

// ExploreQuery drives the free-form explorer. GroupBy empty skips the
// aggregation; Agg defaults to count.
type ExploreQuery struct {
	Filter  FilterSpec
	GroupBy string
	Value   string
	Agg     string
}

// Explore filters rows and aggregates, describes and correlates the catalogue
// columns. Unknown column or aggregation names are errors.
func (s *InsightService) Explore(rows []*models.Respondent, q ExploreQuery) (models.ExploreReport, error) {
	if err := q.Filter.Validate(); err != nil {
		return models.ExploreReport{}, err
	}
	matched := ApplyFilters(rows, q.Filter)

	report := models.ExploreReport{
		Total:     len(rows),
		Matched:   len(matched),
		Summaries: make(map[string]models.Summary, len(models.NumericColumns)),
	}

	if q.GroupBy != "" {
		agg, err := s.aggregate(matched, q)
		if err != nil {
			return models.ExploreReport{}, err
		}
		report.Aggregation = agg
	}

	for _, col := range models.NumericColumns {
		report.Summaries[col.Name] = Describe(Values(matched, col.Value))
	}

	cm, err := CorrelationMatrix(matched, models.NumericNames())
	if err != nil {
		return models.ExploreReport{}, err
	}
	report.Correlation = cm
	report.TopCorrelations = TopCorrelations(cm, 5)
	return report, nil
}

func (s *InsightService) aggregate(rows []*models.Respondent, q ExploreQuery) (*models.Aggregation, error) {
	dim, err := DimensionFor(q.GroupBy)
	if err != nil {
		return nil, err
	}
	fn := q.Agg
	if fn == "" {
		fn = AggCount
	}

	var value Measure
	if fn != AggCount {
		if value, err = MeasureFor(q.Value); err != nil {
			return nil, err
		}
	}

	groups, err := Aggregate(rows, dim, value, fn)
	if err != nil {
		return nil, err
	}
	agg := &models.Aggregation{GroupBy: q.GroupBy, Func: fn, Groups: groups}
	if fn != AggCount {
		agg.Value = q.Value
	}
	return agg, nil
}

// Generate computes every view with the default simulator income.
func (s *InsightService) Generate(rows []*models.Respondent) *models.InsightReport {
	report := &models.InsightReport{
		Overview:      s.Overview(rows),
		Distribution:  s.Distribution(rows),
		Geography:     s.Geography(rows, ""),
		Satisfaction:  s.Satisfaction(rows),
		Affordability: s.Affordability(rows, DefaultSimulatorIncome),
		Education:     s.EducationEmployment(rows),
		HousingSizes:  s.HousingSizes(rows),
	}
	s.logger.Info("[insights] Generated report for %d respondents", len(rows))
	return report
}

const (
	reportWidth = 58
	labelWidth  = 30
)

// Print writes a terminal summary of the report.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", reportWidth)
	thin := strings.Repeat("─", reportWidth)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🏠 HOUSING SURVEY INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	o := r.Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total responses        : \033[1m%d\033[0m\n", o.TotalResponses)
	fmt.Fprintf(w, "  Owned                  : \033[1m%.1f%%\033[0m\n", o.OwnedPct)
	fmt.Fprintf(w, "  Renting                : \033[1m%.1f%%\033[0m\n", o.RentingPct)
	fmt.Fprintf(w, "  Living with others     : \033[1m%.1f%%\033[0m\n", o.LivingWithOthersPct)
	fmt.Fprintf(w, "  Average satisfaction   : \033[1;32m%s\033[0m\n", optional(o.AvgSatisfaction, "%.2f / 5"))
	fmt.Fprintln(w)

	printCounts(w, "Top Districts", thin, o.TopDistricts)
	printCounts(w, "Rent Burden (renters)", thin, r.Affordability.RentBurden)
	printCounts(w, "Satisfaction", thin, r.Satisfaction.Distribution)

	// Affordability
	sim := r.Affordability.Simulator
	fmt.Fprintf(w, "\033[1;33m  Affordability (%.0f%% rule)\033[0m\n", sim.Share*100)
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Annual income           : \033[1m€%.2f\033[0m\n", sim.AnnualIncome)
	fmt.Fprintf(w, "  Affordable monthly cost : \033[1;32m€%.2f\033[0m\n", sim.AffordableMonthlyCost)
	if len(r.Affordability.Districts) == 0 {
		fmt.Fprintf(w, "  No rent data available\n")
	}
	for _, d := range r.Affordability.Districts {
		colour := "\033[1;31m"
		if d.Affordable {
			colour = "\033[1;32m"
		}
		fmt.Fprintf(w, "  %s €%8.2f  %s%.2f\033[0m\n", pad(d.District), d.AvgRent, colour, d.Index)
	}
	fmt.Fprintln(w)

	// Housing sizes
	hs := r.HousingSizes
	fmt.Fprintf(w, "\033[1;33m  Housing Sizes\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Average household size : \033[1m%s\033[0m\n", optional(hs.AvgHouseholdSize, "%.1f"))
	fmt.Fprintf(w, "  Average m² per person  : \033[1m%s\033[0m\n", optional(hs.AvgAreaPerPerson, "%.1f"))
	fmt.Fprintf(w, "  Adequate bedrooms      : \033[1m%.1f%%\033[0m\n", hs.BedroomAdequacyPct)
	fmt.Fprintf(w, "  Overcrowded            : \033[1m%.1f%%\033[0m\n", hs.OvercrowdedPct)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func printCounts(w io.Writer, title, thin string, counts []models.Count) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(counts) == 0 {
		fmt.Fprintf(w, "  No data\n")
	}
	for _, c := range counts {
		bar := strings.Repeat("█", int(math.Round(c.Percent/5)))
		fmt.Fprintf(w, "  %s %s (%d, %.1f%%)\n", pad(c.Label), bar, c.Count, c.Percent)
	}
	fmt.Fprintln(w)
}

// pad fits s into the label column by display width.
func pad(s string) string {
	return runewidth.FillRight(runewidth.Truncate(s, labelWidth, "..."), labelWidth)
}

func optional(v *float64, format string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *v)
}
