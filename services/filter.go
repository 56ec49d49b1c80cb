package services

import (
	"errors"
	"fmt"
	"slices"

	"housing-dashboard/models"
)

// ErrInvalidFilter is returned when a filter names a label outside its vocabulary.
var ErrInvalidFilter = errors.New("invalid filter")

// FilterSpec selects respondents. An empty field means "All"; several values
// in one field match any of them, and fields combine with AND.
type FilterSpec struct {
	HousingSituations []models.HousingSituation
	Districts         []string
	IncomeBrackets    []models.IncomeBracket
	Satisfaction      []models.SatisfactionLevel
	HouseTypes        []models.HouseType
	Education         []models.Education
	Employment        []models.Employment
	RentBurdens       []models.RentBurden
}

// IsEmpty reports whether f selects every row.
func (f FilterSpec) IsEmpty() bool {
	return len(f.HousingSituations) == 0 && len(f.Districts) == 0 && len(f.IncomeBrackets) == 0 &&
		len(f.Satisfaction) == 0 && len(f.HouseTypes) == 0 && len(f.Education) == 0 &&
		len(f.Employment) == 0 && len(f.RentBurdens) == 0
}

// Validate rejects labels outside each closed vocabulary. Districts are free text.
func (f FilterSpec) Validate() error {
	if err := checkLabels("housing", f.HousingSituations, models.HousingSituations); err != nil {
		return err
	}
	if err := checkLabels("income", f.IncomeBrackets, models.IncomeBrackets); err != nil {
		return err
	}
	if err := checkLabels("satisfaction", f.Satisfaction, models.SatisfactionLevels); err != nil {
		return err
	}
	if err := checkLabels("house_type", f.HouseTypes, models.HouseTypes); err != nil {
		return err
	}
	if err := checkLabels("education", f.Education, models.Educations); err != nil {
		return err
	}
	if err := checkLabels("employment", f.Employment, models.Employments); err != nil {
		return err
	}
	return checkLabels("rent_burden", f.RentBurdens, models.RentBurdens)
}

func checkLabels[T comparable](field string, got, allowed []T) error {
	for _, v := range got {
		if !slices.Contains(allowed, v) {
			return fmt.Errorf("%w: %s %v", ErrInvalidFilter, field, v)
		}
	}
	return nil
}

// matches is true when the selection is empty or contains v.
func matches[T comparable](selected []T, v T) bool {
	return len(selected) == 0 || slices.Contains(selected, v)
}

// Match reports whether r satisfies every non-empty field.
func (f FilterSpec) Match(r *models.Respondent) bool {
	return matches(f.HousingSituations, r.HousingSituation) &&
		matches(f.Districts, r.District) &&
		matches(f.IncomeBrackets, r.IncomeBracket) &&
		matches(f.Satisfaction, r.SatisfactionLevel) &&
		matches(f.HouseTypes, r.HouseType) &&
		matches(f.Education, r.Education) &&
		matches(f.Employment, r.Employment) &&
		matches(f.RentBurdens, r.RentBurden)
}

// ApplyFilters returns the matching respondents in their original order.
// The input slice is never modified.
func ApplyFilters(rows []*models.Respondent, f FilterSpec) []*models.Respondent {
	out := make([]*models.Respondent, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
