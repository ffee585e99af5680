package models

import "database/sql"

// TableName is the single destination table for all ingested rows.
const TableName = "saber_pro"

// Record represents one row of the saber_pro table: a single test-taker's
// result for one administration period.
type Record struct {
	Periodo            string          `db:"periodo" json:"periodo"`
	Consecutivo        string          `db:"estu_consecutivo" json:"estu_consecutivo"`
	Year               sql.NullInt64   `db:"year" json:"year,omitempty"`
	PeriodNumber       sql.NullInt64   `db:"period_number" json:"period_number,omitempty"`
	Gender             sql.NullString  `db:"estu_genero" json:"estu_genero,omitempty"`
	TuitionBracket     sql.NullString  `db:"estu_valormatriculauniversidad" json:"estu_valormatriculauniversidad,omitempty"`
	Stratum            sql.NullString  `db:"fami_estratovivienda" json:"fami_estratovivienda,omitempty"`
	FatherEducation    sql.NullString  `db:"fami_educacionpadre" json:"fami_educacionpadre,omitempty"`
	MotherEducation    sql.NullString  `db:"fami_educacionmadre" json:"fami_educacionmadre,omitempty"`
	HasInternet        sql.NullString  `db:"fami_tieneinternet" json:"fami_tieneinternet,omitempty"`
	HasComputer        sql.NullString  `db:"fami_tienecomputador" json:"fami_tienecomputador,omitempty"`
	HasCar             sql.NullString  `db:"fami_tieneautomovil" json:"fami_tieneautomovil,omitempty"`
	HasWasher          sql.NullString  `db:"fami_tienelavadora" json:"fami_tienelavadora,omitempty"`
	WorkHours          sql.NullString  `db:"estu_horassemanatrabaja" json:"estu_horassemanatrabaja,omitempty"`
	InstitutionOrigin  sql.NullString  `db:"inst_origen" json:"inst_origen,omitempty"`
	QuantReasoning     sql.NullFloat64 `db:"mod_razona_cuantitat_punt" json:"mod_razona_cuantitat_punt,omitempty"`
	CriticalReading    sql.NullFloat64 `db:"mod_lectura_critica_punt" json:"mod_lectura_critica_punt,omitempty"`
	English            sql.NullFloat64 `db:"mod_ingles_punt" json:"mod_ingles_punt,omitempty"`
	CitizenshipSkills  sql.NullFloat64 `db:"mod_competen_ciudada_punt" json:"mod_competen_ciudada_punt,omitempty"`
}

// Columns lists the table columns in canonical order. The ingest insert and the
// schema definition both derive from this list, so they cannot drift apart.
var Columns = []string{
	"periodo",
	"estu_consecutivo",
	"year",
	"period_number",
	"estu_genero",
	"estu_valormatriculauniversidad",
	"fami_estratovivienda",
	"fami_educacionpadre",
	"fami_educacionmadre",
	"fami_tieneinternet",
	"fami_tienecomputador",
	"fami_tieneautomovil",
	"fami_tienelavadora",
	"estu_horassemanatrabaja",
	"inst_origen",
	"mod_razona_cuantitat_punt",
	"mod_lectura_critica_punt",
	"mod_ingles_punt",
	"mod_competen_ciudada_punt",
}

// ScoreColumns are the four REAL-typed module scores.
var ScoreColumns = []string{
	"mod_razona_cuantitat_punt",
	"mod_lectura_critica_punt",
	"mod_ingles_punt",
	"mod_competen_ciudada_punt",
}

// ScoreLabels maps score columns to their English display names.
var ScoreLabels = map[string]string{
	"mod_razona_cuantitat_punt": "Quantitative Reasoning",
	"mod_lectura_critica_punt":  "Critical Reading",
	"mod_ingles_punt":           "English",
	"mod_competen_ciudada_punt": "Citizenship Skills",
}

// IsScoreColumn reports whether col is one of the four module score columns.
// Callers must check this before interpolating a column name into SQL.
func IsScoreColumn(col string) bool {
	for _, c := range ScoreColumns {
		if c == col {
			return true
		}
	}
	return false
}
