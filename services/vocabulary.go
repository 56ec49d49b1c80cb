package services

import (
	"strings"

	"housing-dashboard/models"
)

var housingVocabulary = map[string]models.HousingSituation{
	"arrendo": models.Renting,
	"comprei": models.Owned,
	"outrem":  models.LivingWithOthers,
}

var satisfactionVocabulary = map[string]models.SatisfactionLevel{
	"muito-satisfeito":   models.VerySatisfied,
	"satisfeito":         models.Satisfied,
	"indiferente":        models.Neutral,
	"insatisfeito":       models.Dissatisfied,
	"muito-insatisfeito": models.VeryDissatisfied,
}

var houseTypeVocabulary = map[string]models.HouseType{
	"apartamento": models.Apartment,
	"moradia":     models.House,
}

var typologyVocabulary = map[string]models.Bedrooms{
	"t0":  models.Bedrooms0,
	"t1":  models.Bedrooms1,
	"t2":  models.Bedrooms2,
	"t3":  models.Bedrooms3,
	"t4+": models.Bedrooms4Up,
}

var employmentVocabulary = map[string]models.Employment{
	"empregado-tempo-inteiro": models.FullTime,
	"empregado-tempo-parcial": models.PartTime,
	"independente":            models.SelfEmployed,
	"desempregado":            models.Unemployed,
	"estudante":               models.Student,
	"reformado":               models.Retired,
}

var educationVocabulary = map[string]models.Education{
	"licenciatura": models.Bachelors,
	"mestrado":     models.Masters,
	"doutoramento": models.PhD,
	"secundario":   models.HighSchool,
	"profissional": models.Vocational,
	"basico":       models.Basic,
}

// lookup maps a survey token through a closed vocabulary; unknown tokens are missing.
func lookup[T ~string](vocab map[string]T, token string) T {
	return vocab[strings.ToLower(strings.TrimSpace(token))]
}

func MapHousingSituation(token string) models.HousingSituation {
	return lookup(housingVocabulary, token)
}

func MapSatisfaction(token string) models.SatisfactionLevel {
	return lookup(satisfactionVocabulary, token)
}

func MapHouseType(token string) models.HouseType {
	return lookup(houseTypeVocabulary, token)
}

// MapBedrooms maps T0..T3 and T4+ (any case) to a bedroom count.
func MapBedrooms(token string) models.Bedrooms {
	return lookup(typologyVocabulary, token)
}

func MapEmployment(token string) models.Employment {
	return lookup(employmentVocabulary, token)
}

func MapEducation(token string) models.Education {
	return lookup(educationVocabulary, token)
}
