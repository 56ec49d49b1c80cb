package api

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"housing-dashboard/models"
	"housing-dashboard/services"
)

var errBadParam = errors.New("bad parameter")

// allValue is the selector value that disables a filter field.
const allValue = "All"

// values returns the repeated query values of key, dropping blanks and "All".
func values(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, allValue) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func typed[T ~string](xs []string) []T {
	if len(xs) == 0 {
		return nil
	}
	out := make([]T, len(xs))
	for i, x := range xs {
		out[i] = T(x)
	}
	return out
}

// parseFilter reads the shared filter parameters and validates their labels.
func parseFilter(q url.Values) (services.FilterSpec, error) {
	f := services.FilterSpec{
		HousingSituations: typed[models.HousingSituation](values(q, "housing")),
		Districts:         values(q, "district"),
		IncomeBrackets:    typed[models.IncomeBracket](values(q, "income_bracket")),
		Satisfaction:      typed[models.SatisfactionLevel](values(q, "satisfaction")),
		HouseTypes:        typed[models.HouseType](values(q, "house_type")),
		Education:         typed[models.Education](values(q, "education")),
		Employment:        typed[models.Employment](values(q, "employment")),
		RentBurdens:       typed[models.RentBurden](values(q, "rent_burden")),
	}
	if err := f.Validate(); err != nil {
		return services.FilterSpec{}, err
	}
	return f, nil
}

// parseIncome reads the simulator income, defaulting when absent.
func parseIncome(q url.Values) (float64, error) {
	raw := strings.TrimSpace(q.Get("income"))
	if raw == "" {
		return services.DefaultSimulatorIncome, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: income %q", errBadParam, raw)
	}
	return v, nil
}
