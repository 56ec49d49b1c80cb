package services

import (
	"strconv"
	"strings"

	"housing-dashboard/models"
)

var incomeCleaner = strings.NewReplacer(" ", "", "\t", "", "€", "", ".", "", ",", "")

// NormalizeIncome cleans a raw income answer into a bracket code and its
// representative annual value. Unrecognised answers are missing on both sides.
func NormalizeIncome(raw string) (models.IncomeBracket, *float64) {
	code := models.IncomeBracket(incomeCleaner.Replace(strings.ToLower(strings.TrimSpace(raw))))
	if code.Rank() == len(models.IncomeBrackets) {
		return models.IncomeUnknown, nil
	}
	v, ok := bracketValue(string(code))
	if !ok {
		return models.IncomeUnknown, nil
	}
	return code, &v
}

// IncomeValue returns the representative value of a cleaned bracket code.
func IncomeValue(b models.IncomeBracket) (float64, bool) {
	if b == models.IncomeUnknown || b.Rank() == len(models.IncomeBrackets) {
		return 0, false
	}
	return bracketValue(string(b))
}

// bracketValue evaluates "<B", "L-H", ">L" and "sem-rendimento".
// Continuation bounds (7001, 12001, 80001) count from the round edge below them.
func bracketValue(code string) (float64, bool) {
	switch {
	case code == string(models.IncomeNone):
		return 0, true
	case strings.HasPrefix(code, "<"):
		b, ok := bound(code[1:])
		if !ok {
			return 0, false
		}
		return roundEdge(b) / 2, true
	case strings.HasPrefix(code, ">"):
		l, ok := bound(code[1:])
		if !ok {
			return 0, false
		}
		return roundEdge(l) * 1.25, true
	}

	lo, hi, found := strings.Cut(code, "-")
	if !found {
		return 0, false
	}
	l, ok := bound(lo)
	if !ok {
		return 0, false
	}
	h, ok := bound(hi)
	if !ok {
		return 0, false
	}
	return (roundEdge(l) + h) / 2, true
}

func bound(s string) (float64, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return float64(n), true
}

// roundEdge maps a bound written as the first value of a bracket (…1) to the
// edge it continues from.
func roundEdge(v float64) float64 {
	n := int64(v)
	if n > 1 && n%10 == 1 {
		return v - 1
	}
	return v
}
