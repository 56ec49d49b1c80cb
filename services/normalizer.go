package services

import (
	"math"
	"strings"

	"housing-dashboard/config"
	"housing-dashboard/models"
	"housing-dashboard/utils"
)

// Normalizer derives analytical Respondents from raw survey records.
// It is record-local: each output depends only on its own input.
type Normalizer struct {
	logger         *utils.Logger
	assumptions    *config.Assumptions
	mortgageFactor float64
}

// NewNormalizer creates a Normalizer. A nil assumptions uses the defaults.
func NewNormalizer(logger *utils.Logger, assumptions *config.Assumptions) *Normalizer {
	if assumptions == nil {
		assumptions = config.DefaultAssumptions()
	}
	return &Normalizer{
		logger:         logger,
		assumptions:    assumptions,
		mortgageFactor: MortgageFactor(assumptions.Mortgage.AnnualRate, assumptions.Mortgage.Years),
	}
}

// Fingerprint identifies the assumptions the derived columns depend on.
func (n *Normalizer) Fingerprint() string {
	return n.assumptions.Fingerprint()
}

// Normalize maps every raw record to a Respondent, preserving order.
// No record is dropped; a bad field only blanks its own derived values.
func (n *Normalizer) Normalize(raw []*models.RawSurvey) []*models.Respondent {
	result := make([]*models.Respondent, 0, len(raw))

	var noIncome, noArea, unknownBurden int
	for _, r := range raw {
		if r == nil {
			r = &models.RawSurvey{}
		}
		resp := n.NormalizeOne(r)
		if resp.IncomeNumeric == nil {
			noIncome++
		}
		if resp.AreaNumeric == nil {
			noArea++
		}
		if resp.RentBurden == models.RentUnknown {
			unknownBurden++
		}
		result = append(result, resp)
	}

	n.logger.Info("[normalizer] Normalized %d rows (missing income %d, missing area %d, unknown rent burden %d)",
		len(result), noIncome, noArea, unknownBurden)
	return result
}

// NormalizeOne derives a single Respondent.
func (n *Normalizer) NormalizeOne(r *models.RawSurvey) *models.Respondent {
	resp := &models.Respondent{Raw: r}

	for _, f := range models.ListFields {
		tokens := ParseList(r.Raw(f))
		mv := models.MultiValue{Values: tokens, Primary: Primary(tokens)}
		switch f {
		case models.FieldHousingStatus:
			resp.HousingStatus = mv
		case models.FieldHouseKind:
			resp.HouseKind = mv
		case models.FieldTypology:
			resp.Typology = mv
		case models.FieldProfessionalStatus:
			resp.ProfessionalStatus = mv
		case models.FieldSatisfaction:
			resp.SatisfactionAnswer = mv
		case models.FieldRentStrategies:
			resp.RentStrategies = mv
		case models.FieldDissatisfaction:
			resp.DissatisfactionReasons = mv
		case models.FieldBuyStrategies:
			resp.BuyStrategies = mv
		}
	}

	resp.District = strings.TrimSpace(r.Distrito)
	resp.HousingSituation = MapHousingSituation(resp.HousingStatus.Primary)
	resp.SatisfactionLevel = MapSatisfaction(resp.SatisfactionAnswer.Primary)
	resp.IncomeBracket, resp.IncomeNumeric = NormalizeIncome(r.RendimentoAnual)
	resp.AreaNumeric = NormalizeArea(r.AreaUtil)
	if p, ok := ParsePercent(r.PercentagemRendaPaga); ok && !math.IsInf(p, 0) {
		resp.RentPercentage = &p
	}
	resp.RentBurden = RentBurdenFor(r.PercentagemRendaPaga)
	resp.HouseType = MapHouseType(resp.HouseKind.Primary)
	resp.Bedrooms = MapBedrooms(resp.Typology.Primary)
	resp.Reasons = ReasonFlags(resp.DissatisfactionReasons.Values)
	resp.Employment = MapEmployment(resp.ProfessionalStatus.Primary)
	resp.Education = MapEducation(r.Educacao)

	resp.MonthlyRent = parseNumber(r.ValorMensalRenda)
	resp.PurchasePrice = parseNumber(r.ValorCompra)
	resp.RentalStartYear = parseYear(r.AnoInicioArrendamento)
	resp.PurchaseYear = parseYear(r.AnoCompra)

	n.deriveAge(resp)
	n.deriveHousehold(resp)
	n.deriveCosts(resp)

	return resp
}

func (n *Normalizer) deriveAge(resp *models.Respondent) {
	resp.BirthPeriod = BirthPeriod(resp.Raw.AnoNascimentoInterval)
	if resp.BirthPeriod == nil {
		return
	}
	resp.ApproxAge = models.Int(n.assumptions.Age.ReferenceYear - *resp.BirthPeriod)
	resp.AgeGroup = AgeGroupOf(*resp.BirthPeriod)
}

func (n *Normalizer) deriveHousehold(resp *models.Respondent) {
	var size float64
	if v := parseNumber(resp.Raw.NumPessoasNaoDependentes); v != nil {
		size += *v
	}
	if v := parseNumber(resp.Raw.NumPessoasDependentes); v != nil {
		resp.HasDependents = *v > 0
		size += *v
	}
	resp.HouseholdSize = size
	resp.HouseholdGroup = HouseholdGroupOf(size)

	if resp.AreaNumeric != nil && size > 0 {
		resp.AreaPerPerson = models.Float(*resp.AreaNumeric / size)
	}
	if beds, ok := resp.Bedrooms.Count(); ok && size > 0 {
		resp.BedroomsAdequate = models.Bool(BedroomsAdequate(size, beds))
	}
}

func (n *Normalizer) deriveCosts(resp *models.Respondent) {
	income := resp.IncomeNumeric
	hasIncome := income != nil && *income > 0

	switch resp.HousingSituation {
	case models.Renting:
		if resp.MonthlyRent != nil {
			resp.MonthlyHousingCost = models.Float(*resp.MonthlyRent)
			if hasIncome {
				resp.RentIncomeRatio = models.Float(*resp.MonthlyRent * 12 / *income * 100)
			}
		}
	case models.Owned:
		if resp.PurchasePrice != nil {
			resp.MonthlyHousingCost = models.Float(*resp.PurchasePrice * n.mortgageFactor)
		}
	}

	if resp.MonthlyHousingCost != nil && hasIncome {
		ratio := *resp.MonthlyHousingCost / (*income / 12) * 100
		resp.HousingCostRatio = &ratio
		resp.CostIncomeCategory = CostCategoryOf(ratio)
	}
}
