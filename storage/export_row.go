package storage

import (
	"strconv"
	"strings"

	"housing-dashboard/models"
)

// ExportRow is the flat, export-ready form of a Respondent.
type ExportRow struct {
	Distrito             string `csv:"distrito"`
	HousingSituation     string `csv:"housing_situation"`
	SatisfactionLevel    string `csv:"satisfaction_level"`
	SatisfactionScore    string `csv:"satisfaction_score"`
	IncomeBracket        string `csv:"rendimento_clean"`
	IncomeNumeric        string `csv:"rendimento_numerical"`
	AreaNumeric          string `csv:"area_numerical"`
	RentPercentage       string `csv:"percentagem-renda-paga"`
	RentBurden           string `csv:"rent_burden"`
	HouseType            string `csv:"house_type"`
	Bedrooms             string `csv:"bedroom_count"`
	Education            string `csv:"education_level"`
	Employment           string `csv:"employment_status"`
	MonthlyRent          string `csv:"valor-mensal-renda"`
	PurchasePrice        string `csv:"valor-compra"`
	RentalStartYear      string `csv:"ano-inicio-arrendamento"`
	PurchaseYear         string `csv:"ano-compra"`
	ApproxAge            string `csv:"approx_age"`
	AgeGroup             string `csv:"age_group"`
	HouseholdSize        string `csv:"household_size"`
	HouseholdGroup       string `csv:"household_size_grouped"`
	AreaPerPerson        string `csv:"area_per_person"`
	RentIncomeRatio      string `csv:"rent_income_ratio"`
	MonthlyHousingCost   string `csv:"monthly_housing_cost"`
	HousingCostRatio     string `csv:"housing_cost_ratio"`
	CostIncomeCategory   string `csv:"cost_income_category"`
	RentStrategies       string `csv:"estrategia-arrendamento"`
	BuyStrategies        string `csv:"estrategia-compra"`
	ReasonPaysTooMuch    int    `csv:"reason_pago-demasiado"`
	ReasonLacksSpace     int    `csv:"reason_falta-espaco"`
	ReasonPoorCondition  int    `csv:"reason_habitacao-mau-estado"`
	ReasonLivesFar       int    `csv:"reason_vivo-longe"`
	ReasonIndependence   int    `csv:"reason_quero-independecia"`
	ReasonFinancial      int    `csv:"reason_dificuldades-financeiras"`
	ReasonDependent      int    `csv:"reason_financeiramente-dependente"`
	ReasonFarTransport   int    `csv:"reason_vivo-longe-de-transportes"`
	ReasonUnsafeArea     int    `csv:"reason_vivo-zona-insegura"`
	ReasonSharesStranger int    `csv:"reason_partilho-casa-com-desconhecidos"`
}

// NewExportRow flattens r. Missing values become empty cells.
func NewExportRow(r *models.Respondent) *ExportRow {
	row := &ExportRow{
		Distrito:           r.District,
		HousingSituation:   string(r.HousingSituation),
		SatisfactionLevel:  string(r.SatisfactionLevel),
		IncomeBracket:      string(r.IncomeBracket),
		IncomeNumeric:      formatFloat(r.IncomeNumeric),
		AreaNumeric:        formatFloat(r.AreaNumeric),
		RentPercentage:     formatFloat(r.RentPercentage),
		RentBurden:         string(r.RentBurden),
		HouseType:          string(r.HouseType),
		Bedrooms:           string(r.Bedrooms),
		Education:          string(r.Education),
		Employment:         string(r.Employment),
		MonthlyRent:        formatFloat(r.MonthlyRent),
		PurchasePrice:      formatFloat(r.PurchasePrice),
		RentalStartYear:    formatInt(r.RentalStartYear),
		PurchaseYear:       formatInt(r.PurchaseYear),
		ApproxAge:          formatInt(r.ApproxAge),
		AgeGroup:           string(r.AgeGroup),
		HouseholdSize:      strconv.FormatFloat(r.HouseholdSize, 'f', -1, 64),
		HouseholdGroup:     r.HouseholdGroup,
		AreaPerPerson:      formatFloat(r.AreaPerPerson),
		RentIncomeRatio:    formatFloat(r.RentIncomeRatio),
		MonthlyHousingCost: formatFloat(r.MonthlyHousingCost),
		HousingCostRatio:   formatFloat(r.HousingCostRatio),
		CostIncomeCategory: string(r.CostIncomeCategory),
		RentStrategies:     strings.Join(r.RentStrategies.Values, "; "),
		BuyStrategies:      strings.Join(r.BuyStrategies.Values, "; "),
	}
	if s, ok := r.SatisfactionScore(); ok {
		row.SatisfactionScore = strconv.Itoa(int(s))
	}

	flags := []*int{
		&row.ReasonPaysTooMuch, &row.ReasonLacksSpace, &row.ReasonPoorCondition,
		&row.ReasonLivesFar, &row.ReasonIndependence, &row.ReasonFinancial,
		&row.ReasonDependent, &row.ReasonFarTransport, &row.ReasonUnsafeArea,
		&row.ReasonSharesStranger,
	}
	for i, reason := range models.Reasons {
		if r.Reasons.Has(reason) {
			*flags[i] = 1
		}
	}
	return row
}

// NewExportRows flattens a whole table.
func NewExportRows(rows []*models.Respondent) []*ExportRow {
	out := make([]*ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewExportRow(r))
	}
	return out
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
