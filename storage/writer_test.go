package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"housing-dashboard/models"
)

func sampleRespondents() []*models.Respondent {
	return []*models.Respondent{
		{
			District:          "Lisboa",
			HousingSituation:  models.Renting,
			SatisfactionLevel: models.Dissatisfied,
			IncomeBracket:     models.Income12kTo20k,
			IncomeNumeric:     models.Float(16000),
			AreaNumeric:       models.Float(75),
			RentBurden:        models.RentHigh,
			Reasons:           models.ReasonSet(0).With("pago-demasiado").With("vivo-zona-insegura"),
			HouseholdSize:     3,
			RentStrategies:    models.MultiValue{Values: []string{"a", "b"}, Primary: "a"},
		},
		{
			District:   "Porto",
			RentBurden: models.RentUnknown,
		},
	}
}

func TestNewExportRow(t *testing.T) {
	row := NewExportRow(sampleRespondents()[0])

	assert.Equal(t, "Lisboa", row.Distrito)
	assert.Equal(t, "Renting", row.HousingSituation)
	assert.Equal(t, "2", row.SatisfactionScore)
	assert.Equal(t, "16000", row.IncomeNumeric)
	assert.Equal(t, "75", row.AreaNumeric)
	assert.Equal(t, "", row.MonthlyRent)
	assert.Equal(t, "3", row.HouseholdSize)
	assert.Equal(t, "a; b", row.RentStrategies)
	assert.Equal(t, 1, row.ReasonPaysTooMuch)
	assert.Equal(t, 1, row.ReasonUnsafeArea)
	assert.Equal(t, 0, row.ReasonLacksSpace)
}

func TestCSVWriterWritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "respondents.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRespondents()))
	require.NoError(t, w.Write(sampleRespondents()))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "distrito,housing_situation,satisfaction_level"))
	assert.Contains(t, lines[0], "reason_partilho-casa-com-desconhecidos")
	assert.True(t, strings.HasPrefix(lines[1], "Lisboa,Renting,Dissatisfied,2,12001-20000,16000,75"))
	assert.True(t, strings.HasPrefix(lines[2], "Porto,,,,,,"))
}

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "respondents.xlsx")

	w, err := NewXLSXWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRespondents()))
	require.NoError(t, w.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsxSheetName}, f.GetSheetList())

	rows, err := f.GetRows(xlsxSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "distrito", rows[0][0])
	assert.Equal(t, "Lisboa", rows[1][0])
	assert.Equal(t, "16000", rows[1][5])

	v, err := f.GetCellValue(xlsxSheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Porto", v)
}
