package services

import (
	"math"

	"housing-dashboard/models"
)

// MortgageFactor is the monthly payment per unit of principal for an
// annuity at annualRate over years: r(1+r)^n / ((1+r)^n - 1).
// A zero rate degenerates to straight-line repayment.
func MortgageFactor(annualRate float64, years int) float64 {
	n := float64(years * 12)
	if n <= 0 {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return 1 / n
	}
	g := math.Pow(1+r, n)
	return r * g / (g - 1)
}

// CostCategoryOf buckets a housing-cost share of monthly income into
// right-closed bands (0,30], (30,50], (50,80] and above. Non-positive and
// NaN shares are missing.
func CostCategoryOf(pct float64) models.CostCategory {
	switch {
	case math.IsNaN(pct) || pct <= 0:
		return ""
	case pct <= 30:
		return models.CostUpTo30
	case pct <= 50:
		return models.Cost31To50
	case pct <= 80:
		return models.Cost51To80
	}
	return models.CostAbove80
}

// AffordableMonthlyCost is share of one twelfth of annualIncome.
func AffordableMonthlyCost(annualIncome, share float64) float64 {
	return annualIncome / 12 * share
}
