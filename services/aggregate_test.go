package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-dashboard/models"
)

func aggregateRows() []*models.Respondent {
	return []*models.Respondent{
		{District: "Porto", HousingSituation: models.Renting, SatisfactionLevel: models.Dissatisfied,
			IncomeNumeric: models.Float(16000), MonthlyRent: models.Float(700), RentalStartYear: models.Int(2020),
			RentStrategies: models.MultiValue{Values: []string{"partilhar", "mudar-zona"}, Primary: "partilhar"}},
		{District: "Lisboa", HousingSituation: models.Renting, SatisfactionLevel: models.VeryDissatisfied,
			IncomeNumeric: models.Float(9500), MonthlyRent: models.Float(900), RentalStartYear: models.Int(2020),
			RentStrategies: models.MultiValue{Values: []string{"partilhar"}, Primary: "partilhar"}},
		{District: "Lisboa", HousingSituation: models.Owned, SatisfactionLevel: models.Satisfied,
			IncomeNumeric: models.Float(42500), RentalStartYear: models.Int(2018)},
		{District: "Lisboa", HousingSituation: models.Renting, SatisfactionLevel: models.Neutral,
			IncomeNumeric: models.Float(27500), MonthlyRent: models.Float(800), RentalStartYear: models.Int(2018)},
		{HousingSituation: models.LivingWithOthers},
	}
}

func TestCountBy(t *testing.T) {
	counts := CountBy(aggregateRows(), DimHousing)

	require.Len(t, counts, 3)
	assert.Equal(t, models.Count{Label: "Renting", Count: 3, Percent: 60}, counts[0])
	assert.Equal(t, models.Count{Label: "Owned", Count: 1, Percent: 20}, counts[1])
	assert.Equal(t, "Living with others", counts[2].Label)
}

func TestCountBySkipsMissingAndOrdersFreeLabelsByCount(t *testing.T) {
	counts := CountBy(aggregateRows(), DimDistrict)

	require.Len(t, counts, 2)
	assert.Equal(t, "Lisboa", counts[0].Label)
	assert.Equal(t, 3, counts[0].Count)
	assert.InDelta(t, 75.0, counts[0].Percent, 1e-9)
	assert.Equal(t, "Porto", counts[1].Label)
}

func TestCountByOrderFollowsEnum(t *testing.T) {
	counts := CountBy(aggregateRows(), DimSatisfaction)

	labels := make([]string, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
	}
	assert.Equal(t, []string{"Satisfied", "Neutral", "Dissatisfied", "Very Dissatisfied"}, labels)
}

func TestTopN(t *testing.T) {
	counts := []models.Count{{Label: "a", Count: 1}, {Label: "b", Count: 5}, {Label: "c", Count: 3}}

	top := TopN(counts, 2)

	assert.Equal(t, []models.Count{{Label: "b", Count: 5}, {Label: "c", Count: 3}}, top)
	assert.Equal(t, "a", counts[0].Label)
}

func TestExplodeCount(t *testing.T) {
	counts := ExplodeCount(aggregateRows(), models.FieldRentStrategies)

	require.Len(t, counts, 2)
	assert.Equal(t, models.Count{Label: "partilhar", Count: 2, Percent: 100}, counts[0])
	assert.Equal(t, models.Count{Label: "mudar-zona", Count: 1, Percent: 50}, counts[1])
}

func TestCrosstab(t *testing.T) {
	rows := aggregateRows()

	counts := Crosstab(rows, DimDistrict, DimHousing, false)
	assert.Equal(t, []string{"Lisboa", "Porto"}, counts.Rows)
	assert.Equal(t, []string{"Renting", "Owned"}, counts.Columns)
	assert.Equal(t, 2.0, counts.Cell("Lisboa", "Renting"))
	assert.Equal(t, 1.0, counts.Cell("Lisboa", "Owned"))
	assert.Equal(t, 0.0, counts.Cell("Porto", "Owned"))
	assert.Equal(t, 0.0, counts.Cell("Faro", "Owned"))

	norm := Crosstab(rows, DimDistrict, DimHousing, true)
	assert.True(t, norm.Normalized)
	assert.InDelta(t, 66.666, norm.Cell("Lisboa", "Renting"), 1e-3)
	assert.InDelta(t, 100.0, norm.Cell("Porto", "Renting"), 1e-9)
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, 1.2909944, s.Std, 1e-6)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.P25, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	assert.InDelta(t, 3.25, s.P75, 1e-9)
	assert.Equal(t, 4.0, s.Max)

	single := Describe([]float64{7})
	assert.Equal(t, models.Summary{Count: 1, Mean: 7, Min: 7, P25: 7, Median: 7, P75: 7, Max: 7}, single)

	assert.Equal(t, models.Summary{}, Describe(nil))
}

func TestGroupStats(t *testing.T) {
	stats := GroupStats(aggregateRows(), DimDistrict, MeasureRent)

	require.Len(t, stats, 2)
	assert.Equal(t, "Lisboa", stats[0].Group)
	assert.Equal(t, 2, stats[0].Count)
	assert.InDelta(t, 850.0, stats[0].Mean, 1e-9)
	assert.Equal(t, "Porto", stats[1].Group)
	assert.InDelta(t, 700.0, stats[1].Median, 1e-9)

	sorted := SortByMean(stats)
	assert.Equal(t, "Lisboa", sorted[0].Group)
}

func TestMean(t *testing.T) {
	rows := aggregateRows()

	m := Mean(rows, MeasureRent)
	require.NotNil(t, m)
	assert.InDelta(t, 800.0, *m, 1e-9)

	assert.Nil(t, Mean(rows, MeasureArea))
}

func TestYearMeans(t *testing.T) {
	years := YearMeans(aggregateRows(), func(r *models.Respondent) *int { return r.RentalStartYear }, MeasureRent)

	require.Len(t, years, 2)
	assert.Equal(t, models.YearValue{Year: 2018, Value: 800, Count: 1}, years[0])
	assert.Equal(t, models.YearValue{Year: 2020, Value: 800, Count: 2}, years[1])
}

func TestCorrelation(t *testing.T) {
	rows := []*models.Respondent{
		{IncomeNumeric: models.Float(1), AreaNumeric: models.Float(2)},
		{IncomeNumeric: models.Float(2), AreaNumeric: models.Float(4)},
		{IncomeNumeric: models.Float(3), AreaNumeric: models.Float(6)},
		{IncomeNumeric: models.Float(4)},
	}

	r := Correlation(rows, MeasureIncome, MeasureArea)
	require.NotNil(t, r)
	assert.InDelta(t, 1.0, *r, 1e-9)

	assert.Nil(t, Correlation(rows[:1], MeasureIncome, MeasureArea))
	assert.Nil(t, Correlation(rows, MeasureIncome, MeasureHouseholdSize), "zero variance")
}

func TestCorrelationMatrixAndTop(t *testing.T) {
	rows := []*models.Respondent{
		{IncomeNumeric: models.Float(1), AreaNumeric: models.Float(2), MonthlyRent: models.Float(9)},
		{IncomeNumeric: models.Float(2), AreaNumeric: models.Float(4), MonthlyRent: models.Float(1)},
		{IncomeNumeric: models.Float(3), AreaNumeric: models.Float(6), MonthlyRent: models.Float(5)},
	}
	names := []string{"rendimento_numerical", "area_numerical", "valor-mensal-renda"}

	cm, err := CorrelationMatrix(rows, names)
	require.NoError(t, err)
	require.Len(t, cm.Values, 3)
	assert.InDelta(t, 1.0, *cm.Values[0][0], 1e-9)
	assert.Equal(t, cm.Values[0][2], cm.Values[2][0])

	top := TopCorrelations(cm, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "rendimento_numerical", top[0].A)
	assert.Equal(t, "area_numerical", top[0].B)

	_, err = CorrelationMatrix(rows, []string{"nope"})
	assert.ErrorIs(t, err, models.ErrUnknownColumn)
}

func TestAggregate(t *testing.T) {
	rows := aggregateRows()

	tests := []struct {
		fn     string
		lisboa float64
	}{
		{AggCount, 3},
		{AggMean, 850},
		{AggSum, 1700},
		{AggMedian, 850},
	}
	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			groups, err := Aggregate(rows, DimDistrict, MeasureRent, tt.fn)
			require.NoError(t, err)
			require.NotEmpty(t, groups)
			assert.Equal(t, "Lisboa", groups[0].Group)
			assert.InDelta(t, tt.lisboa, groups[0].Value, 1e-9)
		})
	}

	_, err := Aggregate(rows, DimDistrict, MeasureRent, "mode")
	assert.ErrorIs(t, err, ErrInvalidAggregation)
}

func TestDimensionFor(t *testing.T) {
	d, err := DimensionFor("rent_burden")
	require.NoError(t, err)
	assert.Equal(t, labelsOf(models.RentBurdens), d.Order)

	_, err = DimensionFor("favourite_colour")
	assert.ErrorIs(t, err, models.ErrUnknownColumn)

	_, err = MeasureFor("favourite_number")
	assert.ErrorIs(t, err, models.ErrUnknownColumn)
}
