package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-dashboard/config"
	"housing-dashboard/models"
	"housing-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func newTestNormalizer() *Normalizer {
	return NewNormalizer(newTestLogger(), config.DefaultAssumptions())
}

func TestNormalizerOwnerScenario(t *testing.T) {
	n := newTestNormalizer()
	r := n.NormalizeOne(&models.RawSurvey{
		SituacaoHabitacional: "['comprei']",
		RendimentoAnual:      "20001-35000",
		AreaUtil:             "101-150",
		PercentagemRendaPaga: "",
	})

	assert.Equal(t, models.Owned, r.HousingSituation)
	require.NotNil(t, r.IncomeNumeric)
	assert.Equal(t, 27500.0, *r.IncomeNumeric)
	require.NotNil(t, r.AreaNumeric)
	assert.Equal(t, 125.5, *r.AreaNumeric)
	assert.Equal(t, models.RentUnknown, r.RentBurden)
	assert.Nil(t, r.RentPercentage)
}

func TestNormalizerRenterScenario(t *testing.T) {
	n := newTestNormalizer()
	r := n.NormalizeOne(&models.RawSurvey{
		SituacaoHabitacional: "['arrendo']",
		PercentagemRendaPaga: "45",
	})

	assert.Equal(t, models.Renting, r.HousingSituation)
	assert.Equal(t, models.RentModerate, r.RentBurden)
	assert.Equal(t, "31-50% (Moderate)", string(r.RentBurden))
}

func TestNormalizerInfinitePercentage(t *testing.T) {
	n := newTestNormalizer()
	r := n.NormalizeOne(&models.RawSurvey{
		SituacaoHabitacional: "['arrendo']",
		PercentagemRendaPaga: "1e400",
	})

	assert.Equal(t, models.RentVeryHigh, r.RentBurden)
	assert.Nil(t, r.RentPercentage)
}

func TestNormalizerMissingStaysMissing(t *testing.T) {
	n := newTestNormalizer()
	r := n.NormalizeOne(&models.RawSurvey{})

	assert.Equal(t, models.HousingSituation(""), r.HousingSituation)
	assert.Equal(t, models.SatisfactionLevel(""), r.SatisfactionLevel)
	assert.Equal(t, models.IncomeUnknown, r.IncomeBracket)
	assert.Nil(t, r.IncomeNumeric)
	assert.Nil(t, r.AreaNumeric)
	assert.Equal(t, models.RentUnknown, r.RentBurden)
	assert.Equal(t, models.HouseType(""), r.HouseType)
	assert.Equal(t, models.Bedrooms(""), r.Bedrooms)
	assert.Empty(t, r.Reasons.List())
	assert.Nil(t, r.ApproxAge)
	assert.Equal(t, 0.0, r.HouseholdSize)
	assert.Equal(t, "", r.HouseholdGroup)
	assert.Nil(t, r.MonthlyHousingCost)
	assert.Empty(t, r.HousingStatus.Values)
	assert.Equal(t, "", r.HousingStatus.Primary)
}

func TestNormalizerFullRecord(t *testing.T) {
	n := newTestNormalizer()
	r := n.NormalizeOne(&models.RawSurvey{
		Distrito:                 " Lisboa ",
		SituacaoHabitacional:     "['arrendo']",
		TipoCasa:                 "['apartamento']",
		Tipologia:                "['T2']",
		SituacaoProfissional:     "['empregado-tempo-inteiro', 'estudante']",
		Satisfacao:               "['insatisfeito']",
		EstrategiaArrendamento:   "['partilhar-casa', 'viver-longe']",
		InsatisfacaoMotivos:      "['pago-demasiado', 'falta-espaco', 'outro']",
		RendimentoAnual:          "12001-20000",
		AreaUtil:                 "51-100",
		PercentagemRendaPaga:     "60",
		Educacao:                 "mestrado",
		ValorMensalRenda:         "800",
		AnoInicioArrendamento:    "2021",
		AnoNascimentoInterval:    "[1990, 1995)",
		NumPessoasNaoDependentes: "2",
		NumPessoasDependentes:    "1",
	})

	assert.Equal(t, "Lisboa", r.District)
	assert.Equal(t, models.Renting, r.HousingSituation)
	assert.Equal(t, models.Apartment, r.HouseType)
	assert.Equal(t, models.Bedrooms2, r.Bedrooms)
	assert.Equal(t, models.FullTime, r.Employment)
	assert.Equal(t, []string{"empregado-tempo-inteiro", "estudante"}, r.ProfessionalStatus.Values)
	assert.Equal(t, models.Dissatisfied, r.SatisfactionLevel)
	assert.Equal(t, models.Masters, r.Education)
	assert.Equal(t, models.RentHigh, r.RentBurden)
	assert.Equal(t, []models.Reason{"pago-demasiado", "falta-espaco"}, r.Reasons.List())
	assert.Equal(t, []string{"partilhar-casa", "viver-longe"}, r.RentStrategies.Values)

	require.NotNil(t, r.AreaNumeric)
	assert.Equal(t, 75.5, *r.AreaNumeric)

	require.NotNil(t, r.ApproxAge)
	assert.Equal(t, 35, *r.ApproxAge)
	assert.Equal(t, models.Age1990s, r.AgeGroup)

	assert.Equal(t, 3.0, r.HouseholdSize)
	assert.Equal(t, "3", r.HouseholdGroup)
	assert.True(t, r.HasDependents)
	require.NotNil(t, r.AreaPerPerson)
	assert.InDelta(t, 75.5/3, *r.AreaPerPerson, 1e-9)
	require.NotNil(t, r.BedroomsAdequate)
	assert.True(t, *r.BedroomsAdequate)

	require.NotNil(t, r.RentalStartYear)
	assert.Equal(t, 2021, *r.RentalStartYear)
	require.NotNil(t, r.RentIncomeRatio)
	assert.InDelta(t, 60.0, *r.RentIncomeRatio, 1e-9)
	require.NotNil(t, r.MonthlyHousingCost)
	assert.Equal(t, 800.0, *r.MonthlyHousingCost)
	require.NotNil(t, r.HousingCostRatio)
	assert.InDelta(t, 60.0, *r.HousingCostRatio, 1e-9)
	assert.Equal(t, models.Cost51To80, r.CostIncomeCategory)
}

func TestNormalizerOwnerMortgageCost(t *testing.T) {
	n := newTestNormalizer()
	r := n.NormalizeOne(&models.RawSurvey{
		SituacaoHabitacional: "['comprei']",
		RendimentoAnual:      "50001-80000",
		ValorCompra:          "200000",
	})

	require.NotNil(t, r.MonthlyHousingCost)
	assert.InDelta(t, 200000*MortgageFactor(0.03, 25), *r.MonthlyHousingCost, 1e-6)
	assert.Nil(t, r.RentIncomeRatio)
	require.NotNil(t, r.HousingCostRatio)
	assert.Equal(t, models.CostUpTo30, r.CostIncomeCategory)
}

func TestNormalizerAssumptionsChangeCosts(t *testing.T) {
	a := config.DefaultAssumptions()
	a.Mortgage.AnnualRate = 0.05
	a.Age.ReferenceYear = 2030
	n := NewNormalizer(newTestLogger(), a)

	r := n.NormalizeOne(&models.RawSurvey{
		SituacaoHabitacional:  "['comprei']",
		ValorCompra:           "100000",
		AnoNascimentoInterval: "[1980, 1985)",
	})

	require.NotNil(t, r.MonthlyHousingCost)
	assert.InDelta(t, 100000*MortgageFactor(0.05, 25), *r.MonthlyHousingCost, 1e-6)
	require.NotNil(t, r.ApproxAge)
	assert.Equal(t, 50, *r.ApproxAge)
}

func TestNormalizePreservesOrderAndCount(t *testing.T) {
	n := newTestNormalizer()
	raw := []*models.RawSurvey{
		{Distrito: "Porto", RendimentoAnual: "garbage"},
		nil,
		{Distrito: "Braga", AreaUtil: "???"},
		{Distrito: "Faro"},
	}

	rows := n.Normalize(raw)

	require.Len(t, rows, 4)
	assert.Equal(t, "Porto", rows[0].District)
	assert.Equal(t, "", rows[1].District)
	assert.Equal(t, "Braga", rows[2].District)
	assert.Equal(t, "Faro", rows[3].District)
	assert.Nil(t, rows[0].IncomeNumeric)
	assert.Nil(t, rows[2].AreaNumeric)
}

func TestNormalizeIsRecordLocal(t *testing.T) {
	n := newTestNormalizer()
	a := &models.RawSurvey{SituacaoHabitacional: "['arrendo']", PercentagemRendaPaga: "25", RendimentoAnual: "<7001"}
	b := &models.RawSurvey{SituacaoHabitacional: "['comprei']", AreaUtil: ">400"}

	alone := n.Normalize([]*models.RawSurvey{a})[0]
	together := n.Normalize([]*models.RawSurvey{b, a, b})[1]

	assert.Equal(t, alone, together)
}

func TestNormalizeEmpty(t *testing.T) {
	rows := newTestNormalizer().Normalize(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
