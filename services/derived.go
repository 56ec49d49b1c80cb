package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"housing-dashboard/models"
)

// birthPeriodRegexp captures the lower year of an interval such as "[1990, 1995)".
var birthPeriodRegexp = regexp.MustCompile(`\[(\d+)`)

var numberCleaner = strings.NewReplacer("€", "", " ", "", "\u00a0", "")

// parseNumber reads a plain number, accepting a decimal comma and a € sign.
func parseNumber(raw string) *float64 {
	s := numberCleaner.Replace(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseYear reads a calendar year written as "2019" or "2019.0".
func parseYear(raw string) *int {
	v := parseNumber(raw)
	if v == nil || *v < 1000 || *v > 9999 || *v != math.Trunc(*v) {
		return nil
	}
	y := int(*v)
	return &y
}

// BirthPeriod extracts the first year of a birth interval.
func BirthPeriod(raw string) *int {
	m := birthPeriodRegexp.FindStringSubmatch(raw)
	if len(m) < 2 {
		return nil
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &y
}

// AgeGroupOf buckets a birth year into right-closed decades ending at 2025.
// Years at or before 1960 or after 2025 are missing.
func AgeGroupOf(birth int) models.AgeGroup {
	switch {
	case birth <= 1960 || birth > 2025:
		return ""
	case birth <= 1970:
		return models.Age1960s
	case birth <= 1980:
		return models.Age1970s
	case birth <= 1990:
		return models.Age1980s
	case birth <= 2000:
		return models.Age1990s
	}
	return models.Age2000s
}

// HouseholdGroupOf labels a household size "1".."5" or "6+"; empty households are missing.
func HouseholdGroupOf(size float64) string {
	switch {
	case size <= 0 || math.IsNaN(size):
		return ""
	case size >= 6:
		return "6+"
	}
	return strconv.Itoa(int(size))
}

// HouseholdGroups lists the labels of HouseholdGroupOf in order.
var HouseholdGroups = []string{"1", "2", "3", "4", "5", "6+"}

// BedroomsAdequate reports whether a dwelling has at least one bedroom per
// person beyond the first; single-person households always qualify.
func BedroomsAdequate(household float64, bedrooms int) bool {
	if household <= 1 {
		return true
	}
	return float64(bedrooms) >= household-1
}
