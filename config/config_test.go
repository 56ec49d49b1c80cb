package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATA_PATH", "")
	t.Setenv("CACHE_BACKEND", "")

	cfg := Load()

	assert.Equal(t, "./data.csv", cfg.DataPath)
	assert.Equal(t, BackendMemory, cfg.CacheBackend)
	assert.Equal(t, KeyStat, cfg.CacheKey)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATA_PATH", "/srv/survey.csv")
	t.Setenv("CACHE_BACKEND", BackendRedis)
	t.Setenv("CACHE_TTL_SEC", "60")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("MAX_RETRIES", "not-a-number")

	cfg := Load()

	assert.Equal(t, "/srv/survey.csv", cfg.DataPath)
	assert.Equal(t, BackendRedis, cfg.CacheBackend)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5432", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "housing", PostgresSSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=housing sslmode=disable", cfg.DSN())
}

func TestLoadAssumptionsMissingFile(t *testing.T) {
	a, err := LoadAssumptions(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAssumptions(), a)
}

func TestLoadAssumptionsPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mortgage:\n  annual_rate: 0.04\n"), 0o644))

	a, err := LoadAssumptions(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.04, a.Mortgage.AnnualRate, 1e-12)
	assert.Equal(t, 25, a.Mortgage.Years)
	assert.InDelta(t, 0.30, a.Affordability.Share, 1e-12)
	assert.Equal(t, 2025, a.Age.ReferenceYear)
}

func TestLoadAssumptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"rate", "mortgage:\n  annual_rate: 1.5\n", ErrInvalidMortgageRate},
		{"years", "mortgage:\n  years: 0\n", ErrInvalidMortgageYears},
		{"share", "affordability:\n  share: 0\n", ErrInvalidAffordableShare},
		{"year", "age:\n  reference_year: 1800\n", ErrInvalidReferenceYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "analysis.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := LoadAssumptions(path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadAssumptionsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mortgage: [\n"), 0o644))

	_, err := LoadAssumptions(path)
	assert.Error(t, err)
}

func TestAssumptionsFingerprint(t *testing.T) {
	base := DefaultAssumptions().Fingerprint()
	assert.Equal(t, base, DefaultAssumptions().Fingerprint())
	assert.NotEmpty(t, base)

	tests := []struct {
		name   string
		mutate func(a *Assumptions)
	}{
		{"rate", func(a *Assumptions) { a.Mortgage.AnnualRate = 0.04 }},
		{"years", func(a *Assumptions) { a.Mortgage.Years = 30 }},
		{"reference year", func(a *Assumptions) { a.Age.ReferenceYear = 2030 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DefaultAssumptions()
			tt.mutate(a)
			assert.NotEqual(t, base, a.Fingerprint())
		})
	}
}
