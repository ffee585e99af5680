package models

// Known value sets for the free-text categorical columns. The source CSV carries
// these verbatim in Spanish; queries and the seeder match against them.

// Strata are the Colombian socioeconomic housing classifications, lowest first.
var Strata = []string{
	"Estrato 1",
	"Estrato 2",
	"Estrato 3",
	"Estrato 4",
	"Estrato 5",
	"Estrato 6",
}

// EducationLevels are the parental education values, lowest first.
var EducationLevels = []string{
	"Ninguno",
	"Primaria incompleta",
	"Primaria completa",
	"Secundaria (Bachillerato) incompleta",
	"Secundaria (Bachillerato) completa",
	"Técnica o tecnológica incompleta",
	"Técnica o tecnológica completa",
	"Educación profesional incompleta",
	"Educación profesional completa",
	"Postgrado",
}

// EducationLabels maps the Spanish education values to English display names.
var EducationLabels = map[string]string{
	"Ninguno":                              "None",
	"Primaria incompleta":                  "Incomplete Primary",
	"Primaria completa":                    "Complete Primary",
	"Secundaria (Bachillerato) incompleta": "Incomplete Secondary",
	"Secundaria (Bachillerato) completa":   "Complete Secondary",
	"Técnica o tecnológica incompleta":     "Incomplete Technical",
	"Técnica o tecnológica completa":       "Complete Technical",
	"Educación profesional incompleta":     "Incomplete Professional",
	"Educación profesional completa":       "Complete Professional",
	"Postgrado":                            "Postgraduate",
}

// HigherEducationLevels are the values counted as completed higher education in
// the performance-gap analysis.
var HigherEducationLevels = []string{
	"Postgrado",
	"Educación profesional completa",
}

// TuitionBrackets are the annual university tuition values, cheapest first.
var TuitionBrackets = []string{
	"No pagó matrícula",
	"Menos de 500 mil",
	"Entre 500 mil y menos de 1 millón",
	"Entre 1 millón y menos de 2.5 millones",
	"Entre 2.5 millones y menos de 4 millones",
	"Entre 4 millones y menos de 5.5 millones",
	"Entre 5.5 millones y menos de 7 millones",
	"Más de 7 millones",
}

// WorkHourBands are the weekly working-hours values, fewest first.
var WorkHourBands = []string{
	"No trabaja",
	"Menos de 10 horas",
	"Entre 11 y 20 horas",
	"Entre 21 y 30 horas",
	"Más de 30 horas",
}

// InstitutionOrigins classify the higher-education institution.
var InstitutionOrigins = []string{
	"OFICIAL",
	"NO OFICIAL",
	"REGIMEN ESPECIAL",
}
