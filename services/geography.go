package services

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"housing-dashboard/utils"
)

// districtAliases maps survey spellings onto the names used by the boundaries file.
var districtAliases = map[string]string{
	"ilha da madeira": "madeira",
}

var districtNameProperties = []string{"Distrito", "distrito", "name"}

// FoldName lower-cases a district name and strips its accents.
func FoldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

// DistrictShape is one district boundary reduced to what the views need.
type DistrictShape struct {
	Name     string
	Centroid [2]float64
}

// DistrictMap resolves survey district names to boundary features.
// The zero value and nil are valid, empty maps.
type DistrictMap struct {
	shapes map[string]DistrictShape
}

// LoadDistrictMap reads a GeoJSON FeatureCollection. Any failure leaves the
// map empty and is logged, so the views simply omit map entries.
func LoadDistrictMap(logger *utils.Logger, path string) *DistrictMap {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("[geography] District boundaries unavailable: %v", err)
		return &DistrictMap{}
	}
	defer f.Close()

	m, err := ParseDistrictMap(f)
	if err != nil {
		logger.Warn("[geography] Could not read %s: %v", path, err)
		return &DistrictMap{}
	}
	logger.Info("[geography] Loaded %d district boundaries from %s", m.Len(), path)
	return m
}

// ParseDistrictMap decodes a FeatureCollection and computes each centroid.
// Features without a name or with an unsupported geometry are skipped.
func ParseDistrictMap(r io.Reader) (*DistrictMap, error) {
	var fc geojson.FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("geojson: decode: %w", err)
	}

	m := &DistrictMap{shapes: make(map[string]DistrictShape, len(fc.Features))}
	for _, feat := range fc.Features {
		name := featureName(feat.Properties)
		if name == "" || feat.Geometry == nil {
			continue
		}
		c, err := xy.Centroid(feat.Geometry)
		if err != nil || len(c) < 2 {
			continue
		}
		m.shapes[FoldName(name)] = DistrictShape{Name: name, Centroid: [2]float64{c[0], c[1]}}
	}
	return m, nil
}

func featureName(props map[string]interface{}) string {
	for _, key := range districtNameProperties {
		if s, ok := props[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Len is the number of named boundaries.
func (m *DistrictMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.shapes)
}

// Lookup finds the boundary for a survey district name.
func (m *DistrictMap) Lookup(district string) (DistrictShape, bool) {
	if m == nil || len(m.shapes) == 0 {
		return DistrictShape{}, false
	}
	key := FoldName(district)
	if alias, ok := districtAliases[key]; ok {
		key = alias
	}
	s, ok := m.shapes[key]
	return s, ok
}
