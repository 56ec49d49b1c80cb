package services

import "housing-dashboard/models"

// ReasonFlags flags each catalogue reason present in tokens. Tokens outside
// the catalogue are ignored.
func ReasonFlags(tokens []string) models.ReasonSet {
	var set models.ReasonSet
	for _, t := range tokens {
		set = set.With(models.Reason(t))
	}
	return set
}
