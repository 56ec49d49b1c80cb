package models

// RawSurvey holds one respondent's answers exactly as they appear in the survey CSV.
// Multi-value answers are kept in their bracket-and-quote encoding ("['a', 'b']");
// numbers are kept as text and parsed tolerantly by the normalizer.
type RawSurvey struct {
	Distrito                 string `csv:"distrito" json:"distrito"`
	SituacaoHabitacional     string `csv:"situacao-habitacional" json:"situacao-habitacional"`
	TipoCasa                 string `csv:"tipo-casa" json:"tipo-casa"`
	Tipologia                string `csv:"tipologia" json:"tipologia"`
	SituacaoProfissional     string `csv:"situacao-profissional" json:"situacao-profissional"`
	Satisfacao               string `csv:"satisfacao" json:"satisfacao"`
	EstrategiaArrendamento   string `csv:"estrategia-arrendamento" json:"estrategia-arrendamento"`
	InsatisfacaoMotivos      string `csv:"insatisfacao-motivos" json:"insatisfacao-motivos"`
	EstrategiaCompra         string `csv:"estrategia-compra" json:"estrategia-compra"`
	RendimentoAnual          string `csv:"rendimento-anual" json:"rendimento-anual"`
	AreaUtil                 string `csv:"area-util" json:"area-util"`
	PercentagemRendaPaga     string `csv:"percentagem-renda-paga" json:"percentagem-renda-paga"`
	Educacao                 string `csv:"educacao" json:"educacao"`
	ValorMensalRenda         string `csv:"valor-mensal-renda" json:"valor-mensal-renda"`
	ValorCompra              string `csv:"valor-compra" json:"valor-compra"`
	AnoInicioArrendamento    string `csv:"ano-inicio-arrendamento" json:"ano-inicio-arrendamento"`
	AnoCompra                string `csv:"ano-compra" json:"ano-compra"`
	AnoNascimentoInterval    string `csv:"ano_nascimento_interval" json:"ano_nascimento_interval"`
	NumPessoasNaoDependentes string `csv:"num-pessoas-nao-dependentes" json:"num-pessoas-nao-dependentes"`
	NumPessoasDependentes    string `csv:"num-pessoas-dependentes" json:"num-pessoas-dependentes"`
}

// ListField names one of the bracket-encoded multi-value survey columns.
type ListField string

const (
	FieldHousingStatus      ListField = "situacao-habitacional"
	FieldHouseKind          ListField = "tipo-casa"
	FieldTypology           ListField = "tipologia"
	FieldProfessionalStatus ListField = "situacao-profissional"
	FieldSatisfaction       ListField = "satisfacao"
	FieldRentStrategies     ListField = "estrategia-arrendamento"
	FieldDissatisfaction    ListField = "insatisfacao-motivos"
	FieldBuyStrategies      ListField = "estrategia-compra"
)

// ListFields is every multi-value column, in survey order.
var ListFields = []ListField{
	FieldHousingStatus,
	FieldHouseKind,
	FieldTypology,
	FieldProfessionalStatus,
	FieldSatisfaction,
	FieldRentStrategies,
	FieldDissatisfaction,
	FieldBuyStrategies,
}

// Raw returns the encoded answer for a multi-value column.
func (r *RawSurvey) Raw(f ListField) string {
	switch f {
	case FieldHousingStatus:
		return r.SituacaoHabitacional
	case FieldHouseKind:
		return r.TipoCasa
	case FieldTypology:
		return r.Tipologia
	case FieldProfessionalStatus:
		return r.SituacaoProfissional
	case FieldSatisfaction:
		return r.Satisfacao
	case FieldRentStrategies:
		return r.EstrategiaArrendamento
	case FieldDissatisfaction:
		return r.InsatisfacaoMotivos
	case FieldBuyStrategies:
		return r.EstrategiaCompra
	}
	return ""
}
