package services

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"housing-dashboard/models"
)

// ParsePercent reads "45", " 45 % " or "45,5". Out-of-range values such as
// "1e400" read as ±Inf, like "inf". ok is false for blanks, garbage and NaN.
func ParsePercent(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// RentBurdenFor buckets a rent share with upper-inclusive bounds at 30, 50 and 80.
func RentBurdenFor(raw string) models.RentBurden {
	p, ok := ParsePercent(raw)
	if !ok {
		return models.RentUnknown
	}
	return BurdenOf(p)
}

// BurdenOf buckets an already-parsed percentage.
func BurdenOf(p float64) models.RentBurden {
	switch {
	case math.IsNaN(p):
		return models.RentUnknown
	case p <= 30:
		return models.RentAffordable
	case p <= 50:
		return models.RentModerate
	case p <= 80:
		return models.RentHigh
	}
	return models.RentVeryHigh
}
