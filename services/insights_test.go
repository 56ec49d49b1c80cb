package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-dashboard/models"
	"housing-dashboard/storage"
)

const sampleSurvey = "../testdata/survey_sample.csv"

func sampleRows(t *testing.T) []*models.Respondent {
	t.Helper()
	raw, err := storage.ReadSurveyCSV(sampleSurvey)
	require.NoError(t, err)
	return newTestNormalizer().Normalize(raw)
}

func newTestInsights() *InsightService {
	return NewInsightService(newTestLogger(), nil, LoadDistrictMap(newTestLogger(), districtsFixture))
}

func labels(counts []models.Count) []string {
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Label
	}
	return out
}

func TestInsightOverview(t *testing.T) {
	o := newTestInsights().Overview(sampleRows(t))

	assert.Equal(t, 10, o.TotalResponses)
	assert.InDelta(t, 30.0, o.OwnedPct, 1e-9)
	assert.InDelta(t, 60.0, o.RentingPct, 1e-9)
	assert.InDelta(t, 10.0, o.LivingWithOthersPct, 1e-9)
	require.NotNil(t, o.AvgSatisfaction)
	assert.InDelta(t, 3.0, *o.AvgSatisfaction, 1e-9)
	assert.Equal(t, []string{"Lisboa", "Porto", "Braga", "Coimbra", "Faro"}, labels(o.TopDistricts))

	require.NotEmpty(t, o.Districts)
	lisboa := o.Districts[0]
	assert.Equal(t, "Lisboa", lisboa.District)
	assert.Equal(t, 4, lisboa.Responses)
	assert.InDelta(t, 10.0/3, *lisboa.SatisfactionScore, 1e-9)
	assert.InDelta(t, 850.0, *lisboa.AvgRent, 1e-9)
	assert.InDelta(t, 250000.0, *lisboa.AvgPurchase, 1e-9)
	assert.InDelta(t, 100.0/3, lisboa.HighBurdenPct, 1e-9)
	require.NotNil(t, lisboa.Centroid)
	assert.InDelta(t, -9.0, lisboa.Centroid[0], 1e-9)

	porto := o.Districts[1]
	assert.Equal(t, "Porto", porto.District)
	assert.InDelta(t, 50.0, porto.HighBurdenPct, 1e-9)
	assert.InDelta(t, 725.0, *porto.AvgRent, 1e-9)
}

func TestInsightDistribution(t *testing.T) {
	d := newTestInsights().Distribution(sampleRows(t))

	assert.Equal(t, models.Count{Label: "Renting", Count: 6, Percent: 60}, d.Housing[0])
	assert.Equal(t, []string{
		string(models.RentAffordable), string(models.RentModerate), string(models.RentHigh),
		string(models.RentVeryHigh), string(models.RentUnknown),
	}, labels(d.RentBurden))
	assert.Equal(t, 2, d.RentBurden[1].Count)

	assert.Equal(t, []models.Count{
		{Label: "partilhar-casa", Count: 2, Percent: 50},
		{Label: "viver-longe", Count: 2, Percent: 50},
	}, d.RentStrategies)
	assert.Equal(t, "credito-habitacao", d.BuyStrategies[0].Label)
	assert.Equal(t, 2, d.BuyStrategies[0].Count)

	require.Len(t, d.StrategySatisfaction, 4)
	assert.Equal(t, models.StrategyScore{Strategy: "partilhar-casa", Kind: "rent", AvgSatisfaction: 2, Count: 2}, d.StrategySatisfaction[0])
	assert.Equal(t, models.StrategyScore{Strategy: "viver-longe", Kind: "rent", AvgSatisfaction: 1.5, Count: 2}, d.StrategySatisfaction[1])
	assert.Equal(t, "buy", d.StrategySatisfaction[2].Kind)

	assert.Equal(t, []models.YearValue{
		{Year: 2020, Value: 900, Count: 1},
		{Year: 2021, Value: 900, Count: 2},
		{Year: 2022, Value: 350, Count: 1},
		{Year: 2023, Value: 450, Count: 1},
	}, d.RentByYear)
	require.Len(t, d.PriceByYear, 3)
	assert.Equal(t, 1995, d.PriceByYear[0].Year)

	assert.InDelta(t, 100.0, d.AgeByHousing.Cell(string(models.Age1980s), "Renting"), 1e-9)
	assert.InDelta(t, 200.0/3, d.AgeByHousing.Cell(string(models.Age1990s), "Renting"), 1e-9)
}

func TestInsightGeography(t *testing.T) {
	svc := newTestInsights()
	rows := sampleRows(t)

	all := svc.Geography(rows, "")
	assert.Equal(t, 3.0, all.DistrictHousing.Cell("Lisboa", "Renting"))
	assert.Equal(t, 1.0, all.DistrictHousing.Cell("Lisboa", "Owned"))
	assert.Len(t, all.TopDistricts, 5)
	assert.Len(t, all.RentByDistrict, 3)

	mapped := make([]string, len(all.Map))
	for i, m := range all.Map {
		mapped[i] = m.District
	}
	assert.Equal(t, []string{"Lisboa", "Porto"}, mapped)

	porto := svc.Geography(rows, "Porto")
	require.Len(t, porto.RentByDistrict, 1)
	assert.Equal(t, "Porto", porto.RentByDistrict[0].Group)
	assert.Empty(t, porto.PurchaseByDistrict)
}

func TestInsightGeographyWithoutBoundaries(t *testing.T) {
	svc := NewInsightService(newTestLogger(), nil, nil)

	g := svc.Geography(sampleRows(t), "")

	assert.NotNil(t, g.Map)
	assert.Empty(t, g.Map)
}

func TestInsightSatisfaction(t *testing.T) {
	s := newTestInsights().Satisfaction(sampleRows(t))

	assert.InDelta(t, 400.0/9, s.DissatisfiedPct, 1e-9)
	assert.Equal(t, models.Count{Label: "pago-demasiado", Count: 3, Percent: 60}, s.Reasons[0])
	assert.Len(t, s.Reasons, 6)

	assert.Equal(t, string(models.IncomeNone), s.ScoreByIncome[0].Group)
	assert.Equal(t, string(models.IncomeAbove80k), s.ScoreByIncome[len(s.ScoreByIncome)-1].Group)

	districts := make([]string, len(s.ScoreByDistrict))
	for i, g := range s.ScoreByDistrict {
		districts[i] = g.Group
	}
	assert.Equal(t, []string{"Braga", "Coimbra", "Lisboa", "Porto", "Faro"}, districts)
}

func TestInsightAffordability(t *testing.T) {
	a := newTestInsights().Affordability(sampleRows(t), 30000)

	assert.Equal(t, models.Simulation{AnnualIncome: 30000, MonthlyIncome: 2500, AffordableMonthlyCost: 750, Share: 0.3}, a.Simulator)

	require.Len(t, a.Districts, 3)
	assert.Equal(t, "Faro", a.Districts[0].District)
	assert.True(t, a.Districts[0].Affordable)
	assert.Equal(t, "Porto", a.Districts[1].District)
	assert.True(t, a.Districts[1].Affordable)
	assert.Equal(t, "Lisboa", a.Districts[2].District)
	assert.False(t, a.Districts[2].Affordable)
	assert.InDelta(t, 750.0/850, a.Districts[2].Index, 1e-9)

	assert.Len(t, a.RentByYear, 4)
	assert.Len(t, a.RentRatioByYear, 4)
	assert.InDelta(t, 900.0*12/27500*100, a.RentRatioByYear[0].Value, 1e-9)
}

func TestInsightEducationEmployment(t *testing.T) {
	e := newTestInsights().EducationEmployment(sampleRows(t))

	assert.InDelta(t, 100.0, e.EducationByHousing.Cell(string(models.Masters), "Renting"), 1e-9)
	assert.InDelta(t, 50.0, e.EducationByHousing.Cell(string(models.Bachelors), "Owned"), 1e-9)
	assert.Equal(t, string(models.Basic), e.IncomeByEducation[0].Group)
	assert.InDelta(t, 100.0, e.ReasonsByEducation.Cell(string(models.Masters), "pago-demasiado"), 1e-9)
	assert.InDelta(t, 50.0, e.ReasonsByEducation.Cell(string(models.Masters), "falta-espaco"), 1e-9)
	assert.Equal(t, 10, len(e.ReasonsByEducation.Columns))
}

func TestInsightHousingSizes(t *testing.T) {
	h := newTestInsights().HousingSizes(sampleRows(t))

	require.NotNil(t, h.AvgHouseholdSize)
	assert.InDelta(t, 25.0/9, *h.AvgHouseholdSize, 1e-9)
	assert.Equal(t, []string{"1", "2", "3", "4"}, labels(h.HouseholdSizes))
	require.Len(t, h.Dependents, 2)
	assert.Equal(t, "With dependents", h.Dependents[0].Label)
	assert.Equal(t, 4, h.Dependents[0].Count)
	assert.InDelta(t, 400.0/9, h.Dependents[0].Percent, 1e-9)
	assert.Equal(t, []string{"0-50", "51-100", "101-150", "151-200", "201-250", "400+"}, labels(h.AreaBins))
	assert.Equal(t, 3, h.AreaBins[1].Count)
	assert.InDelta(t, 800.0/9, h.BedroomAdequacyPct, 1e-9)
	assert.Equal(t, 0.0, h.OvercrowdedPct)
	assert.InDelta(t, 400.0/9, h.SatisfiedPct, 1e-9)
}

func TestInsightExplore(t *testing.T) {
	svc := newTestInsights()
	rows := sampleRows(t)

	r, err := svc.Explore(rows, ExploreQuery{
		Filter:  FilterSpec{HousingSituations: []models.HousingSituation{models.Renting}},
		GroupBy: "distrito",
		Value:   "valor-mensal-renda",
		Agg:     AggMean,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, r.Total)
	assert.Equal(t, 6, r.Matched)
	require.NotNil(t, r.Aggregation)
	assert.Equal(t, []models.GroupValue{
		{Group: "Lisboa", Value: 850, Count: 2},
		{Group: "Porto", Value: 725, Count: 2},
		{Group: "Faro", Value: 350, Count: 1},
	}, r.Aggregation.Groups)
	assert.Equal(t, 5, r.Summaries["valor-mensal-renda"].Count)
	assert.Len(t, r.Correlation.Columns, len(models.NumericColumns))
	assert.LessOrEqual(t, len(r.TopCorrelations), 5)
}

func TestInsightExploreCountWithoutValue(t *testing.T) {
	r, err := newTestInsights().Explore(sampleRows(t), ExploreQuery{GroupBy: "housing_situation"})
	require.NoError(t, err)

	assert.Equal(t, AggCount, r.Aggregation.Func)
	assert.Equal(t, models.GroupValue{Group: "Renting", Value: 6, Count: 6}, r.Aggregation.Groups[0])
}

func TestInsightExploreErrors(t *testing.T) {
	svc := newTestInsights()
	rows := sampleRows(t)

	_, err := svc.Explore(rows, ExploreQuery{GroupBy: "shoe_size"})
	assert.ErrorIs(t, err, models.ErrUnknownColumn)

	_, err = svc.Explore(rows, ExploreQuery{GroupBy: "distrito", Agg: AggMean, Value: "shoe_size"})
	assert.ErrorIs(t, err, models.ErrUnknownColumn)

	_, err = svc.Explore(rows, ExploreQuery{GroupBy: "distrito", Agg: "mode", Value: "area_numerical"})
	assert.ErrorIs(t, err, ErrInvalidAggregation)

	_, err = svc.Explore(rows, ExploreQuery{Filter: FilterSpec{HouseTypes: []models.HouseType{"Igloo"}}})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestInsightEmptyInput(t *testing.T) {
	svc := newTestInsights()

	r := svc.Generate(nil)

	assert.Equal(t, 0, r.Overview.TotalResponses)
	assert.Nil(t, r.Overview.AvgSatisfaction)
	assert.Empty(t, r.Overview.Districts)
	assert.Empty(t, r.Affordability.Districts)
	assert.Equal(t, 0.0, r.HousingSizes.BedroomAdequacyPct)
}

func TestInsightPrint(t *testing.T) {
	svc := newTestInsights()
	var buf bytes.Buffer

	svc.Print(&buf, svc.Generate(sampleRows(t)))

	out := buf.String()
	assert.Contains(t, out, "HOUSING SURVEY INSIGHTS")
	assert.Contains(t, out, "Total responses")
	assert.Contains(t, out, "Lisboa")
	assert.Contains(t, out, "€750.00")
}
