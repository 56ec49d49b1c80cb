package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Assumption validation errors.
var (
	ErrInvalidMortgageRate    = errors.New("mortgage.annual_rate must be in (0, 1)")
	ErrInvalidMortgageYears   = errors.New("mortgage.years must be between 1 and 50")
	ErrInvalidAffordableShare = errors.New("affordability.share must be in (0, 1]")
	ErrInvalidReferenceYear   = errors.New("age.reference_year must be between 1900 and 2100")
)

// Assumptions are the modelling constants behind the derived cost and age columns.
type Assumptions struct {
	Mortgage      MortgageAssumptions      `yaml:"mortgage"`
	Affordability AffordabilityAssumptions `yaml:"affordability"`
	Age           AgeAssumptions           `yaml:"age"`
}

// MortgageAssumptions converts a purchase price into a monthly payment.
type MortgageAssumptions struct {
	AnnualRate float64 `yaml:"annual_rate"`
	Years      int     `yaml:"years"`
}

// AffordabilityAssumptions sets the income share considered affordable.
type AffordabilityAssumptions struct {
	Share float64 `yaml:"share"`
}

// AgeAssumptions sets the year ages are computed against.
type AgeAssumptions struct {
	ReferenceYear int `yaml:"reference_year"`
}

// DefaultAssumptions returns 3% over 25 years, a 30% share and 2025.
func DefaultAssumptions() *Assumptions {
	return &Assumptions{
		Mortgage:      MortgageAssumptions{AnnualRate: 0.03, Years: 25},
		Affordability: AffordabilityAssumptions{Share: 0.30},
		Age:           AgeAssumptions{ReferenceYear: 2025},
	}
}

// LoadAssumptions reads a YAML assumptions file. Keys absent from the file keep
// their defaults; a missing file yields the defaults.
func LoadAssumptions(path string) (*Assumptions, error) {
	a := DefaultAssumptions()
	if path == "" {
		return a, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return a, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read assumptions file: %w", err)
	}

	if err := yaml.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("assumptions validation failed: %w", err)
	}

	return a, nil
}

// Validate validates the assumptions.
func (a *Assumptions) Validate() error {
	if a.Mortgage.AnnualRate <= 0 || a.Mortgage.AnnualRate >= 1 {
		return ErrInvalidMortgageRate
	}
	if a.Mortgage.Years < 1 || a.Mortgage.Years > 50 {
		return ErrInvalidMortgageYears
	}
	if a.Affordability.Share <= 0 || a.Affordability.Share > 1 {
		return ErrInvalidAffordableShare
	}
	if a.Age.ReferenceYear < 1900 || a.Age.ReferenceYear > 2100 {
		return ErrInvalidReferenceYear
	}
	return nil
}

// Fingerprint identifies the assumption values. Equal assumptions give equal
// fingerprints, so tables derived under them can share a cache key.
func (a *Assumptions) Fingerprint() string {
	data, err := yaml.Marshal(a)
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", *a))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
