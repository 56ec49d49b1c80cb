package models

import (
	"errors"
	"fmt"
)

// ErrUnknownColumn is returned when a column name is not in the catalogue.
var ErrUnknownColumn = errors.New("unknown column")

// CategoricalColumn reads a label from a respondent; ok is false when missing.
type CategoricalColumn struct {
	Name  string
	Value func(r *Respondent) (string, bool)
}

// NumericColumn reads a number from a respondent; ok is false when missing.
type NumericColumn struct {
	Name  string
	Value func(r *Respondent) (float64, bool)
}

func label[T ~string](v T) (string, bool) {
	return string(v), v != ""
}

func num(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func year(p *int) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return float64(*p), true
}

// CategoricalColumns is the closed set of groupable columns.
var CategoricalColumns = []CategoricalColumn{
	{"housing_situation", func(r *Respondent) (string, bool) { return label(r.HousingSituation) }},
	{"satisfaction_level", func(r *Respondent) (string, bool) { return label(r.SatisfactionLevel) }},
	{"rendimento_clean", func(r *Respondent) (string, bool) { return label(r.IncomeBracket) }},
	{"rent_burden", func(r *Respondent) (string, bool) { return label(r.RentBurden) }},
	{"house_type", func(r *Respondent) (string, bool) { return label(r.HouseType) }},
	{"bedroom_count", func(r *Respondent) (string, bool) { return label(r.Bedrooms) }},
	{"education_level", func(r *Respondent) (string, bool) { return label(r.Education) }},
	{"employment_status", func(r *Respondent) (string, bool) { return label(r.Employment) }},
	{"distrito", func(r *Respondent) (string, bool) { return label(r.District) }},
	{"age_group", func(r *Respondent) (string, bool) { return label(r.AgeGroup) }},
	{"household_size_grouped", func(r *Respondent) (string, bool) { return label(r.HouseholdGroup) }},
	{"cost_income_category", func(r *Respondent) (string, bool) { return label(r.CostIncomeCategory) }},
}

// NumericColumns is the closed set of aggregatable columns.
var NumericColumns = []NumericColumn{
	{"rendimento_numerical", func(r *Respondent) (float64, bool) { return num(r.IncomeNumeric) }},
	{"area_numerical", func(r *Respondent) (float64, bool) { return num(r.AreaNumeric) }},
	{"percentagem-renda-paga", func(r *Respondent) (float64, bool) { return num(r.RentPercentage) }},
	{"valor-mensal-renda", func(r *Respondent) (float64, bool) { return num(r.MonthlyRent) }},
	{"valor-compra", func(r *Respondent) (float64, bool) { return num(r.PurchasePrice) }},
	{"satisfaction_score", func(r *Respondent) (float64, bool) { return r.SatisfactionScore() }},
	{"household_size", func(r *Respondent) (float64, bool) { return r.HouseholdSize, true }},
	{"area_per_person", func(r *Respondent) (float64, bool) { return num(r.AreaPerPerson) }},
	{"approx_age", func(r *Respondent) (float64, bool) { return year(r.ApproxAge) }},
	{"ano-inicio-arrendamento", func(r *Respondent) (float64, bool) { return year(r.RentalStartYear) }},
	{"ano-compra", func(r *Respondent) (float64, bool) { return year(r.PurchaseYear) }},
	{"rent_income_ratio", func(r *Respondent) (float64, bool) { return num(r.RentIncomeRatio) }},
	{"monthly_housing_cost", func(r *Respondent) (float64, bool) { return num(r.MonthlyHousingCost) }},
	{"housing_cost_ratio", func(r *Respondent) (float64, bool) { return num(r.HousingCostRatio) }},
}

// Categorical looks up a categorical column by name.
func Categorical(name string) (CategoricalColumn, error) {
	for _, c := range CategoricalColumns {
		if c.Name == name {
			return c, nil
		}
	}
	return CategoricalColumn{}, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// Numeric looks up a numeric column by name.
func Numeric(name string) (NumericColumn, error) {
	for _, c := range NumericColumns {
		if c.Name == name {
			return c, nil
		}
	}
	return NumericColumn{}, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// NumericNames lists numeric column names in catalogue order.
func NumericNames() []string {
	names := make([]string, len(NumericColumns))
	for i, c := range NumericColumns {
		names[i] = c.Name
	}
	return names
}

// CategoricalNames lists categorical column names in catalogue order.
func CategoricalNames() []string {
	names := make([]string, len(CategoricalColumns))
	for i, c := range CategoricalColumns {
		names[i] = c.Name
	}
	return names
}
