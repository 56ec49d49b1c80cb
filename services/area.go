package services

import (
	"math"
	"strconv"
	"strings"
)

// areaTopBracket is the open-ended top answer and its fixed value.
const (
	areaTopBracket = ">400"
	areaTopValue   = 450.0
)

// NormalizeArea turns an area-range answer into square metres.
// "low-high" gives the midpoint (low+high)/2; ">400" gives 450. Anything else
// is missing.
func NormalizeArea(raw string) *float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if s == "" {
		return nil
	}
	if s == areaTopBracket {
		v := areaTopValue
		return &v
	}

	lo, hi, found := strings.Cut(s, "-")
	if !found {
		return nil
	}
	l, ok := bound(lo)
	if !ok {
		return nil
	}
	h, ok := bound(hi)
	if !ok {
		return nil
	}
	v := (l + h) / 2
	return &v
}

// AreaBin places an area value in a 50 m² band ("0-50", "51-100", …, "400+").
func AreaBin(area float64) string {
	if area > 400 {
		return "400+"
	}
	if area <= 50 {
		return "0-50"
	}
	upper := 50 * int(math.Ceil(area/50))
	return strconv.Itoa(upper-49) + "-" + strconv.Itoa(upper)
}

// AreaBins lists the bands of AreaBin in order.
var AreaBins = []string{
	"0-50", "51-100", "101-150", "151-200", "201-250", "251-300", "301-350", "351-400", "400+",
}
