package prompts

// SchemaContext describes the saber_pro table for the model. Everything lives
// in one denormalized table, so the prompt needs no join guidance.
const SchemaContext = `Database: SQLite, single table "saber_pro". One row per test taker per administration period.

Columns:
- periodo (TEXT): administration period code, e.g. '20183' (year 2018, cycle 3)
- estu_consecutivo (TEXT): unique student result identifier
- year (INTEGER): year derived from periodo
- period_number (INTEGER): cycle within the year, derived from periodo
- estu_genero (TEXT): gender, 'F' or 'M'
- estu_valormatriculauniversidad (TEXT): annual tuition bracket, Spanish labels like 'Menos de 500 mil', 'Más de 7 millones', 'No pagó matrícula'
- fami_estratovivienda (TEXT): socioeconomic stratum, 'Estrato 1' through 'Estrato 6'
- fami_educacionpadre (TEXT): father's education, Spanish labels from 'Ninguno' to 'Postgrado'
- fami_educacionmadre (TEXT): mother's education, same labels
- fami_tieneinternet (TEXT): internet at home, 'Si' or 'No'
- fami_tienecomputador (TEXT): computer at home, 'Si' or 'No'
- fami_tieneautomovil (TEXT): car at home, 'Si' or 'No'
- fami_tienelavadora (TEXT): washing machine at home, 'Si' or 'No'
- estu_horassemanatrabaja (TEXT): weekly work hours band, e.g. 'No trabaja', 'Más de 30 horas'
- inst_origen (TEXT): institution type, 'OFICIAL', 'NO OFICIAL' or 'REGIMEN ESPECIAL'
- mod_razona_cuantitat_punt (REAL): quantitative reasoning score
- mod_lectura_critica_punt (REAL): critical reading score
- mod_ingles_punt (REAL): English score
- mod_competen_ciudada_punt (REAL): citizenship skills score

Scores range roughly 0-300. The composite score is the average of the four module scores.`

// QueryExamples are few-shot pairs appended to the generation prompt.
const QueryExamples = `1. "average english score by year"
   SELECT year, AVG(mod_ingles_punt) AS avg_english
   FROM saber_pro
   WHERE year IS NOT NULL AND mod_ingles_punt IS NOT NULL
   GROUP BY year
   ORDER BY year;

2. "how many women took the exam in 2019"
   SELECT COUNT(*)
   FROM saber_pro
   WHERE estu_genero = 'F' AND year = 2019;

3. "average critical reading by stratum"
   SELECT fami_estratovivienda, AVG(mod_lectura_critica_punt) AS avg_reading
   FROM saber_pro
   WHERE fami_estratovivienda IS NOT NULL AND mod_lectura_critica_punt IS NOT NULL
   GROUP BY fami_estratovivienda
   ORDER BY fami_estratovivienda;`
