package services

import (
	"errors"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"housing-dashboard/models"
)

// Dimension is a categorical axis. Labels listed in Order come first in that
// order; the rest follow by descending count, then alphabetically.
type Dimension struct {
	Name  string
	Value func(r *models.Respondent) (string, bool)
	Order []string
}

// Measure reads a number from a respondent; ok is false when missing.
type Measure func(r *models.Respondent) (float64, bool)

func labelsOf[T ~string](xs []T) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = string(x)
	}
	return out
}

var dimensionOrder = map[string][]string{
	"housing_situation":      labelsOf(models.HousingSituations),
	"satisfaction_level":     labelsOf(models.SatisfactionLevels),
	"rendimento_clean":       labelsOf(models.IncomeBrackets),
	"rent_burden":            labelsOf(models.RentBurdens),
	"house_type":             labelsOf(models.HouseTypes),
	"bedroom_count":          labelsOf(models.BedroomCounts),
	"education_level":        labelsOf(models.Educations),
	"employment_status":      labelsOf(models.Employments),
	"age_group":              labelsOf(models.AgeGroups),
	"household_size_grouped": HouseholdGroups,
	"cost_income_category":   labelsOf(models.CostCategories),
}

// DimensionFor returns the catalogue column name as a Dimension.
func DimensionFor(name string) (Dimension, error) {
	col, err := models.Categorical(name)
	if err != nil {
		return Dimension{}, err
	}
	return Dimension{Name: col.Name, Value: col.Value, Order: dimensionOrder[col.Name]}, nil
}

// MeasureFor returns the catalogue numeric column as a Measure.
func MeasureFor(name string) (Measure, error) {
	col, err := models.Numeric(name)
	if err != nil {
		return nil, err
	}
	return col.Value, nil
}

func mustDimension(name string) Dimension {
	d, err := DimensionFor(name)
	if err != nil {
		panic(err)
	}
	return d
}

func mustMeasure(name string) Measure {
	m, err := MeasureFor(name)
	if err != nil {
		panic(err)
	}
	return m
}

var (
	DimHousing      = mustDimension("housing_situation")
	DimSatisfaction = mustDimension("satisfaction_level")
	DimIncome       = mustDimension("rendimento_clean")
	DimRentBurden   = mustDimension("rent_burden")
	DimHouseType    = mustDimension("house_type")
	DimBedrooms     = mustDimension("bedroom_count")
	DimEducation    = mustDimension("education_level")
	DimEmployment   = mustDimension("employment_status")
	DimDistrict     = mustDimension("distrito")
	DimAgeGroup     = mustDimension("age_group")
	DimHousehold    = mustDimension("household_size_grouped")
	DimCostCategory = mustDimension("cost_income_category")

	MeasureIncome        = mustMeasure("rendimento_numerical")
	MeasureArea          = mustMeasure("area_numerical")
	MeasureRent          = mustMeasure("valor-mensal-renda")
	MeasurePurchase      = mustMeasure("valor-compra")
	MeasureSatisfaction  = mustMeasure("satisfaction_score")
	MeasureHouseholdSize = mustMeasure("household_size")
	MeasureAreaPerPerson = mustMeasure("area_per_person")
	MeasureRentRatio     = mustMeasure("rent_income_ratio")
)

// sortLabels orders the keys of counts per Dimension.Order.
func sortLabels(counts map[string]int, order []string) []string {
	out := make([]string, 0, len(counts))
	for _, l := range order {
		if counts[l] > 0 {
			out = append(out, l)
		}
	}
	rest := make([]string, 0, len(counts))
	for l := range counts {
		if !slices.Contains(order, l) {
			rest = append(rest, l)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if counts[rest[i]] != counts[rest[j]] {
			return counts[rest[i]] > counts[rest[j]]
		}
		return rest[i] < rest[j]
	})
	return append(out, rest...)
}

// pct returns part/total*100, or 0 when total is 0.
func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// CountBy counts respondents per label. Missing labels are skipped and
// percentages are relative to the counted rows.
func CountBy(rows []*models.Respondent, dim Dimension) []models.Count {
	counts := map[string]int{}
	total := 0
	for _, r := range rows {
		if l, ok := dim.Value(r); ok {
			counts[l]++
			total++
		}
	}
	return toCounts(counts, total, dim.Order)
}

func toCounts(counts map[string]int, total int, order []string) []models.Count {
	labels := sortLabels(counts, order)
	out := make([]models.Count, len(labels))
	for i, l := range labels {
		out[i] = models.Count{Label: l, Count: counts[l], Percent: pct(counts[l], total)}
	}
	return out
}

// TopN returns the first n counts, highest first.
func TopN(counts []models.Count, n int) []models.Count {
	out := slices.Clone(counts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ExplodeCount counts each token of a multi-value field. Percentages are
// relative to the respondents who gave at least one token.
func ExplodeCount(rows []*models.Respondent, field models.ListField) []models.Count {
	counts := map[string]int{}
	answered := 0
	for _, r := range rows {
		values := r.List(field).Values
		if len(values) == 0 {
			continue
		}
		answered++
		for _, v := range values {
			counts[v]++
		}
	}
	return toCounts(counts, answered, nil)
}

// Crosstab counts respondents per (row, column) label pair; rows missing
// either label are skipped. With normalize each row holds percentages.
func Crosstab(rows []*models.Respondent, rowDim, colDim Dimension, normalize bool) models.Crosstab {
	type pair struct{ r, c string }
	cells := map[pair]int{}
	rowCounts := map[string]int{}
	colCounts := map[string]int{}
	for _, r := range rows {
		rl, ok := rowDim.Value(r)
		if !ok {
			continue
		}
		cl, ok := colDim.Value(r)
		if !ok {
			continue
		}
		cells[pair{rl, cl}]++
		rowCounts[rl]++
		colCounts[cl]++
	}

	ct := models.Crosstab{
		Rows:       sortLabels(rowCounts, rowDim.Order),
		Columns:    sortLabels(colCounts, colDim.Order),
		Normalized: normalize,
	}
	ct.Cells = make([][]float64, len(ct.Rows))
	for i, rl := range ct.Rows {
		ct.Cells[i] = make([]float64, len(ct.Columns))
		for j, cl := range ct.Columns {
			n := cells[pair{rl, cl}]
			if normalize {
				ct.Cells[i][j] = pct(n, rowCounts[rl])
			} else {
				ct.Cells[i][j] = float64(n)
			}
		}
	}
	return ct
}

// Values collects the non-missing values of m.
func Values(rows []*models.Respondent, m Measure) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := m(r); ok && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean returns the mean of the non-missing values of m, or nil when none.
func Mean(rows []*models.Respondent, m Measure) *float64 {
	xs := Values(rows, m)
	if len(xs) == 0 {
		return nil
	}
	return models.Float(stat.Mean(xs, nil))
}

// Describe summarizes a sample: sample std-dev and linearly interpolated
// quartiles. An empty sample gives a zero Summary.
func Describe(values []float64) models.Summary {
	if len(values) == 0 {
		return models.Summary{}
	}
	xs := slices.Clone(values)
	sort.Float64s(xs)

	s := models.Summary{
		Count:  len(xs),
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
		P25:    quantile(xs, 0.25),
		Median: quantile(xs, 0.5),
		P75:    quantile(xs, 0.75),
	}
	if len(xs) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(xs, nil)
	} else {
		s.Mean = xs[0]
	}
	return s
}

// quantile interpolates between closest ranks of a sorted sample.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// GroupStats describes m within each label of dim. Groups with no values are
// omitted.
func GroupStats(rows []*models.Respondent, dim Dimension, m Measure) []models.GroupStat {
	groups := map[string][]float64{}
	counts := map[string]int{}
	for _, r := range rows {
		l, ok := dim.Value(r)
		if !ok {
			continue
		}
		v, ok := m(r)
		if !ok || math.IsNaN(v) {
			continue
		}
		groups[l] = append(groups[l], v)
		counts[l]++
	}

	labels := sortLabels(counts, dim.Order)
	out := make([]models.GroupStat, len(labels))
	for i, l := range labels {
		out[i] = models.GroupStat{Group: l, Summary: Describe(groups[l])}
	}
	return out
}

// SortByMean orders group stats by descending mean.
func SortByMean(stats []models.GroupStat) []models.GroupStat {
	out := slices.Clone(stats)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean > out[j].Mean })
	return out
}

// YearMeans averages m per calendar year, ascending.
func YearMeans(rows []*models.Respondent, year func(r *models.Respondent) *int, m Measure) []models.YearValue {
	sums := map[int]float64{}
	counts := map[int]int{}
	for _, r := range rows {
		y := year(r)
		if y == nil {
			continue
		}
		v, ok := m(r)
		if !ok || math.IsNaN(v) {
			continue
		}
		sums[*y] += v
		counts[*y]++
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]models.YearValue, len(years))
	for i, y := range years {
		out[i] = models.YearValue{Year: y, Value: sums[y] / float64(counts[y]), Count: counts[y]}
	}
	return out
}

// Correlation is the Pearson coefficient over rows where both a and b are
// present. It is nil with fewer than two pairs or zero variance.
func Correlation(rows []*models.Respondent, a, b Measure) *float64 {
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, r := range rows {
		x, ok := a(r)
		if !ok || math.IsNaN(x) {
			continue
		}
		y, ok := b(r)
		if !ok || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return nil
	}
	c := stat.Correlation(xs, ys, nil)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return nil
	}
	return &c
}

// CorrelationMatrix correlates every pair of the named numeric columns.
func CorrelationMatrix(rows []*models.Respondent, names []string) (models.CorrelationMatrix, error) {
	measures := make([]Measure, len(names))
	for i, n := range names {
		m, err := MeasureFor(n)
		if err != nil {
			return models.CorrelationMatrix{}, err
		}
		measures[i] = m
	}

	cm := models.CorrelationMatrix{Columns: slices.Clone(names), Values: make([][]*float64, len(names))}
	for i := range names {
		cm.Values[i] = make([]*float64, len(names))
	}
	for i := range names {
		for j := i; j < len(names); j++ {
			c := Correlation(rows, measures[i], measures[j])
			cm.Values[i][j] = c
			cm.Values[j][i] = c
		}
	}
	return cm, nil
}

// TopCorrelations returns the n off-diagonal pairs with the largest |r|.
func TopCorrelations(cm models.CorrelationMatrix, n int) []models.CorrelationPair {
	pairs := make([]models.CorrelationPair, 0)
	for i := range cm.Columns {
		for j := i + 1; j < len(cm.Columns); j++ {
			if r := cm.Values[i][j]; r != nil {
				pairs = append(pairs, models.CorrelationPair{A: cm.Columns[i], B: cm.Columns[j], R: r})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return math.Abs(*pairs[i].R) > math.Abs(*pairs[j].R) })
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

// Aggregate reduces value within each label of groupBy. fn is one of count,
// mean, sum or median; count ignores value.
func Aggregate(rows []*models.Respondent, groupBy Dimension, value Measure, fn string) ([]models.GroupValue, error) {
	reduce, err := reducer(fn)
	if err != nil {
		return nil, err
	}

	groups := map[string][]float64{}
	counts := map[string]int{}
	for _, r := range rows {
		l, ok := groupBy.Value(r)
		if !ok {
			continue
		}
		if fn == AggCount {
			counts[l]++
			continue
		}
		v, ok := value(r)
		if !ok || math.IsNaN(v) {
			continue
		}
		groups[l] = append(groups[l], v)
		counts[l]++
	}

	labels := sortLabels(counts, groupBy.Order)
	out := make([]models.GroupValue, len(labels))
	for i, l := range labels {
		out[i] = models.GroupValue{Group: l, Count: counts[l], Value: reduce(counts[l], groups[l])}
	}
	return out, nil
}

// ErrInvalidAggregation is returned for an unsupported reduction name.
var ErrInvalidAggregation = errors.New("invalid aggregation")

const (
	AggCount  = "count"
	AggMean   = "mean"
	AggSum    = "sum"
	AggMedian = "median"
)

// Aggregations lists the supported explorer reductions.
var Aggregations = []string{AggCount, AggMean, AggSum, AggMedian}

func reducer(fn string) (func(n int, xs []float64) float64, error) {
	switch fn {
	case AggCount:
		return func(n int, _ []float64) float64 { return float64(n) }, nil
	case AggMean:
		return func(_ int, xs []float64) float64 { return stat.Mean(xs, nil) }, nil
	case AggSum:
		return func(_ int, xs []float64) float64 { return floats.Sum(xs) }, nil
	case AggMedian:
		return func(_ int, xs []float64) float64 { return Describe(xs).Median }, nil
	}
	return nil, ErrInvalidAggregation
}
