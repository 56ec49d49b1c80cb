package models

import (
	"encoding/json"
	"slices"
)

// HousingSituation is the respondent's tenure. The zero value means missing.
type HousingSituation string

const (
	Renting          HousingSituation = "Renting"
	Owned            HousingSituation = "Owned"
	LivingWithOthers HousingSituation = "Living with others"
)

var HousingSituations = []HousingSituation{Renting, Owned, LivingWithOthers}

// SatisfactionLevel is a 5-point ordinal. The zero value means missing.
type SatisfactionLevel string

const (
	VerySatisfied    SatisfactionLevel = "Very Satisfied"
	Satisfied        SatisfactionLevel = "Satisfied"
	Neutral          SatisfactionLevel = "Neutral"
	Dissatisfied     SatisfactionLevel = "Dissatisfied"
	VeryDissatisfied SatisfactionLevel = "Very Dissatisfied"
)

// SatisfactionLevels is ordered from best to worst.
var SatisfactionLevels = []SatisfactionLevel{VerySatisfied, Satisfied, Neutral, Dissatisfied, VeryDissatisfied}

// Score maps the level onto 5 (very satisfied) .. 1 (very dissatisfied).
func (s SatisfactionLevel) Score() (int, bool) {
	switch s {
	case VerySatisfied:
		return 5, true
	case Satisfied:
		return 4, true
	case Neutral:
		return 3, true
	case Dissatisfied:
		return 2, true
	case VeryDissatisfied:
		return 1, true
	}
	return 0, false
}

// IsDissatisfied reports whether the level is one of the two negative answers.
func (s SatisfactionLevel) IsDissatisfied() bool {
	return s == Dissatisfied || s == VeryDissatisfied
}

// IsSatisfied reports whether the level is one of the two positive answers.
func (s SatisfactionLevel) IsSatisfied() bool {
	return s == Satisfied || s == VerySatisfied
}

// IncomeBracket is the cleaned annual-income survey code.
type IncomeBracket string

const (
	IncomeNone     IncomeBracket = "sem-rendimento"
	IncomeUpTo7k   IncomeBracket = "<7001"
	Income7kTo12k  IncomeBracket = "7001-12000"
	Income12kTo20k IncomeBracket = "12001-20000"
	Income20kTo35k IncomeBracket = "20001-35000"
	Income35kTo50k IncomeBracket = "35001-50000"
	Income50kTo80k IncomeBracket = "50001-80000"
	IncomeAbove80k IncomeBracket = ">80001"
	IncomeUnknown  IncomeBracket = ""
)

// IncomeBrackets is ordered from lowest to highest income.
var IncomeBrackets = []IncomeBracket{
	IncomeNone, IncomeUpTo7k, Income7kTo12k, Income12kTo20k,
	Income20kTo35k, Income35kTo50k, Income50kTo80k, IncomeAbove80k,
}

var incomeLabels = map[IncomeBracket]string{
	IncomeNone:     "No Income",
	IncomeUpTo7k:   "Up to €7,000",
	Income7kTo12k:  "€7,001-€12,000",
	Income12kTo20k: "€12,001-€20,000",
	Income20kTo35k: "€20,001-€35,000",
	Income35kTo50k: "€35,001-€50,000",
	Income50kTo80k: "€50,001-€80,000",
	IncomeAbove80k: "Over €80,000",
}

// Label returns the human-readable bracket, or "Unknown".
func (b IncomeBracket) Label() string {
	if l, ok := incomeLabels[b]; ok {
		return l
	}
	return "Unknown"
}

// Rank orders brackets; unknown sorts last.
func (b IncomeBracket) Rank() int {
	if i := slices.Index(IncomeBrackets, b); i >= 0 {
		return i
	}
	return len(IncomeBrackets)
}

// RentBurden buckets the share of income paid as rent.
type RentBurden string

const (
	RentAffordable RentBurden = "≤30% (Affordable)"
	RentModerate   RentBurden = "31-50% (Moderate)"
	RentHigh       RentBurden = "51-80% (High)"
	RentVeryHigh   RentBurden = ">80% (Very High)"
	RentUnknown    RentBurden = "Unknown"
)

var RentBurdens = []RentBurden{RentAffordable, RentModerate, RentHigh, RentVeryHigh, RentUnknown}

// IsHigh reports whether more than half of income goes to rent.
func (r RentBurden) IsHigh() bool {
	return r == RentHigh || r == RentVeryHigh
}

// HouseType is the dwelling kind. The zero value means missing.
type HouseType string

const (
	Apartment HouseType = "Apartment"
	House     HouseType = "House"
)

var HouseTypes = []HouseType{Apartment, House}

// Bedrooms is the dwelling typology (T0..T4+). The zero value means missing.
type Bedrooms string

const (
	Bedrooms0   Bedrooms = "0"
	Bedrooms1   Bedrooms = "1"
	Bedrooms2   Bedrooms = "2"
	Bedrooms3   Bedrooms = "3"
	Bedrooms4Up Bedrooms = "4+"
)

var BedroomCounts = []Bedrooms{Bedrooms0, Bedrooms1, Bedrooms2, Bedrooms3, Bedrooms4Up}

// Count returns the bedroom count, with 4+ counted as 4.
func (b Bedrooms) Count() (int, bool) {
	if i := slices.Index(BedroomCounts, b); i >= 0 {
		return i, true
	}
	return 0, false
}

// Employment is the primary professional situation. The zero value means missing.
type Employment string

const (
	FullTime     Employment = "Full-time"
	PartTime     Employment = "Part-time"
	SelfEmployed Employment = "Self-employed"
	Unemployed   Employment = "Unemployed"
	Student      Employment = "Student"
	Retired      Employment = "Retired"
)

var Employments = []Employment{FullTime, PartTime, SelfEmployed, Unemployed, Student, Retired}

// Education is the highest completed level. The zero value means missing.
type Education string

const (
	Basic      Education = "Basic"
	HighSchool Education = "High School"
	Vocational Education = "Vocational"
	Bachelors  Education = "Bachelor's"
	Masters    Education = "Master's"
	PhD        Education = "PhD"
)

var Educations = []Education{Basic, HighSchool, Vocational, Bachelors, Masters, PhD}

// AgeGroup is a birth-decade bucket. The zero value means missing.
type AgeGroup string

const (
	Age1960s AgeGroup = "1960s (~55-65)"
	Age1970s AgeGroup = "1970s (~45-55)"
	Age1980s AgeGroup = "1980s (~35-45)"
	Age1990s AgeGroup = "1990s (~25-35)"
	Age2000s AgeGroup = "2000s+ (<25)"
)

var AgeGroups = []AgeGroup{Age1960s, Age1970s, Age1980s, Age1990s, Age2000s}

// CostCategory buckets housing cost as a share of monthly income.
type CostCategory string

const (
	CostUpTo30  CostCategory = "≤30%"
	Cost31To50  CostCategory = "31-50%"
	Cost51To80  CostCategory = "51-80%"
	CostAbove80 CostCategory = ">80%"
)

var CostCategories = []CostCategory{CostUpTo30, Cost31To50, Cost51To80, CostAbove80}

// Reason is a dissatisfaction-reason survey code.
type Reason string

// Reasons is the fixed catalogue; a ReasonSet bit i stands for Reasons[i].
var Reasons = []Reason{
	"pago-demasiado",
	"falta-espaco",
	"habitacao-mau-estado",
	"vivo-longe",
	"quero-independecia",
	"dificuldades-financeiras",
	"financeiramente-dependente",
	"vivo-longe-de-transportes",
	"vivo-zona-insegura",
	"partilho-casa-com-desconhecidos",
}

// Column returns the flag column name, e.g. reason_pago-demasiado.
func (r Reason) Column() string {
	return "reason_" + string(r)
}

// ReasonSet flags which catalogue reasons a respondent gave.
type ReasonSet uint16

// Has reports whether r is flagged. Reasons outside the catalogue are never flagged.
func (s ReasonSet) Has(r Reason) bool {
	i := slices.Index(Reasons, r)
	return i >= 0 && s&(1<<uint(i)) != 0
}

// With returns s with r flagged; unknown reasons leave s unchanged.
func (s ReasonSet) With(r Reason) ReasonSet {
	if i := slices.Index(Reasons, r); i >= 0 {
		return s | 1<<uint(i)
	}
	return s
}

// List returns the flagged reasons in catalogue order.
func (s ReasonSet) List() []Reason {
	out := make([]Reason, 0)
	for i, r := range Reasons {
		if s&(1<<uint(i)) != 0 {
			out = append(out, r)
		}
	}
	return out
}

func (s ReasonSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

func (s *ReasonSet) UnmarshalJSON(data []byte) error {
	var codes []Reason
	if err := json.Unmarshal(data, &codes); err != nil {
		return err
	}
	var out ReasonSet
	for _, c := range codes {
		out = out.With(c)
	}
	*s = out
	return nil
}
