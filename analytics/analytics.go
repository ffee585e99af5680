// Package analytics turns the raw saber_pro table into the typed aggregates
// the dashboard and the CLI report on: yearly trends, demographic breakdowns,
// score distributions and correlations, and performance-gap comparisons.
package analytics

import (
	"context"
	"fmt"

	"github.com/mcastillo/saberpro_db/models"
	"github.com/mcastillo/saberpro_db/store"
)

// compositeExpr averages the four module scores. Every aggregate that speaks
// of "composite score" means this expression.
const compositeExpr = "(mod_razona_cuantitat_punt + mod_lectura_critica_punt + mod_ingles_punt + mod_competen_ciudada_punt) / 4.0"

// allScoresPresent restricts a query to rows where every module score exists,
// so a composite is never computed over partial results.
const allScoresPresent = `mod_razona_cuantitat_punt IS NOT NULL
  AND mod_lectura_critica_punt IS NOT NULL
  AND mod_ingles_punt IS NOT NULL
  AND mod_competen_ciudada_punt IS NOT NULL`

// Service answers aggregate questions against a store.
type Service struct {
	store *store.Store
}

// New returns a Service reading from st.
func New(st *store.Store) *Service {
	return &Service{store: st}
}

// validateScore rejects any column name that is not one of the four module
// scores. Every caller-supplied column goes through here before it is
// interpolated into SQL.
func validateScore(col string) error {
	if !models.IsScoreColumn(col) {
		return fmt.Errorf("unknown score column %q", col)
	}
	return nil
}

// YearlyPoint is the average of one score for one year.
type YearlyPoint struct {
	Year    int64   `json:"year"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// YearlyPerformance reports the average of scoreCol per year, oldest first.
func (s *Service) YearlyPerformance(ctx context.Context, scoreCol string) ([]YearlyPoint, error) {
	if err := validateScore(scoreCol); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT year, AVG(%s), COUNT(*)
		FROM %s
		WHERE year IS NOT NULL AND %s IS NOT NULL
		GROUP BY year
		ORDER BY year`, scoreCol, models.TableName, scoreCol)

	res, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	points := make([]YearlyPoint, 0, len(res.Rows))
	for _, row := range res.Rows {
		points = append(points, YearlyPoint{
			Year:    asInt(row[0]),
			Average: asFloat(row[1]),
			Count:   asInt(row[2]),
		})
	}
	return points, nil
}

// GenderBreakdown is the per-gender count and score averages.
type GenderBreakdown struct {
	Gender     string             `json:"gender"`
	Count      int64              `json:"count"`
	Averages   map[string]float64 `json:"averages"`
	Composite  float64            `json:"composite"`
	ShareOfAll float64            `json:"share_of_all"`
}

// GenderDistribution reports counts and average scores per gender value.
func (s *Service) GenderDistribution(ctx context.Context) ([]GenderBreakdown, error) {
	query := fmt.Sprintf(`
		SELECT estu_genero, COUNT(*),
		       AVG(mod_razona_cuantitat_punt),
		       AVG(mod_lectura_critica_punt),
		       AVG(mod_ingles_punt),
		       AVG(mod_competen_ciudada_punt),
		       AVG(%s)
		FROM %s
		WHERE estu_genero IS NOT NULL
		GROUP BY estu_genero
		ORDER BY COUNT(*) DESC`, compositeExpr, models.TableName)

	res, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, row := range res.Rows {
		total += asInt(row[1])
	}
	out := make([]GenderBreakdown, 0, len(res.Rows))
	for _, row := range res.Rows {
		b := GenderBreakdown{
			Gender: asString(row[0]),
			Count:  asInt(row[1]),
			Averages: map[string]float64{
				"mod_razona_cuantitat_punt": asFloat(row[2]),
				"mod_lectura_critica_punt":  asFloat(row[3]),
				"mod_ingles_punt":           asFloat(row[4]),
				"mod_competen_ciudada_punt": asFloat(row[5]),
			},
			Composite: asFloat(row[6]),
		}
		if total > 0 {
			b.ShareOfAll = float64(b.Count) / float64(total) * 100
		}
		out = append(out, b)
	}
	return out, nil
}

// GroupAverage is a labelled group with its composite average and size.
type GroupAverage struct {
	Group     string  `json:"group"`
	Count     int64   `json:"count"`
	Composite float64 `json:"composite"`
}

// SocioeconomicAverages reports the composite average per housing stratum,
// lowest stratum first.
func (s *Service) SocioeconomicAverages(ctx context.Context) ([]GroupAverage, error) {
	query := fmt.Sprintf(`
		SELECT fami_estratovivienda, COUNT(*), AVG(%s)
		FROM %s
		WHERE fami_estratovivienda IS NOT NULL AND %s
		GROUP BY fami_estratovivienda
		ORDER BY fami_estratovivienda`, compositeExpr, models.TableName, allScoresPresent)

	return s.groupAverages(ctx, query)
}

// TuitionAnalysis reports the composite average per tuition bracket, cheapest
// bracket first. Bracket values sort by their declared order, not
// alphabetically.
func (s *Service) TuitionAnalysis(ctx context.Context) ([]GroupAverage, error) {
	query := fmt.Sprintf(`
		SELECT estu_valormatriculauniversidad, COUNT(*), AVG(%s)
		FROM %s
		WHERE estu_valormatriculauniversidad IS NOT NULL AND %s
		GROUP BY estu_valormatriculauniversidad`, compositeExpr, models.TableName, allScoresPresent)

	groups, err := s.groupAverages(ctx, query)
	if err != nil {
		return nil, err
	}
	return orderGroups(groups, models.TuitionBrackets), nil
}

// WorkHoursAnalysis reports the composite average per weekly working-hours
// band, fewest hours first.
func (s *Service) WorkHoursAnalysis(ctx context.Context) ([]GroupAverage, error) {
	query := fmt.Sprintf(`
		SELECT estu_horassemanatrabaja, COUNT(*), AVG(%s)
		FROM %s
		WHERE estu_horassemanatrabaja IS NOT NULL AND %s
		GROUP BY estu_horassemanatrabaja`, compositeExpr, models.TableName, allScoresPresent)

	groups, err := s.groupAverages(ctx, query)
	if err != nil {
		return nil, err
	}
	return orderGroups(groups, models.WorkHourBands), nil
}

func (s *Service) groupAverages(ctx context.Context, query string) ([]GroupAverage, error) {
	res, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]GroupAverage, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, GroupAverage{
			Group:     asString(row[0]),
			Count:     asInt(row[1]),
			Composite: asFloat(row[2]),
		})
	}
	return out, nil
}

// orderGroups sorts groups by their position in the declared value order.
// Unknown values keep their query order, after the known ones.
func orderGroups(groups []GroupAverage, order []string) []GroupAverage {
	rank := make(map[string]int, len(order))
	for i, v := range order {
		rank[v] = i
	}
	out := make([]GroupAverage, 0, len(groups))
	for _, v := range order {
		for _, g := range groups {
			if g.Group == v {
				out = append(out, g)
			}
		}
	}
	for _, g := range groups {
		if _, known := rank[g.Group]; !known {
			out = append(out, g)
		}
	}
	return out
}

// TechnologyGroup is one internet/computer access combination.
type TechnologyGroup struct {
	HasInternet string  `json:"has_internet"`
	HasComputer string  `json:"has_computer"`
	Count       int64   `json:"count"`
	Composite   float64 `json:"composite"`
}

// TechnologyImpact reports the composite average for each combination of home
// internet and computer access.
func (s *Service) TechnologyImpact(ctx context.Context) ([]TechnologyGroup, error) {
	query := fmt.Sprintf(`
		SELECT fami_tieneinternet, fami_tienecomputador, COUNT(*), AVG(%s)
		FROM %s
		WHERE fami_tieneinternet IS NOT NULL
		  AND fami_tienecomputador IS NOT NULL
		  AND %s
		GROUP BY fami_tieneinternet, fami_tienecomputador
		ORDER BY fami_tieneinternet DESC, fami_tienecomputador DESC`,
		compositeExpr, models.TableName, allScoresPresent)

	res, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]TechnologyGroup, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, TechnologyGroup{
			HasInternet: asString(row[0]),
			HasComputer: asString(row[1]),
			Count:       asInt(row[2]),
			Composite:   asFloat(row[3]),
		})
	}
	return out, nil
}

// PeriodCount is the number of results in one administration period.
type PeriodCount struct {
	Periodo string `json:"periodo"`
	Year    int64  `json:"year"`
	Period  int64  `json:"period"`
	Count   int64  `json:"count"`
}

// PeriodDistribution reports row counts per administration period, oldest
// first.
func (s *Service) PeriodDistribution(ctx context.Context) ([]PeriodCount, error) {
	query := fmt.Sprintf(`
		SELECT periodo, year, period_number, COUNT(*)
		FROM %s
		WHERE periodo IS NOT NULL
		GROUP BY periodo, year, period_number
		ORDER BY periodo`, models.TableName)

	res, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]PeriodCount, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, PeriodCount{
			Periodo: asString(row[0]),
			Year:    asInt(row[1]),
			Period:  asInt(row[2]),
			Count:   asInt(row[3]),
		})
	}
	return out, nil
}

// Overview summarizes the whole dataset for the dashboard header.
type Overview struct {
	TotalRecords int64              `json:"total_records"`
	Years        []int64            `json:"years"`
	Averages     map[string]float64 `json:"averages"`
	Composite    float64            `json:"composite"`
}

// DatasetOverview reports total rows, covered years and global score averages.
func (s *Service) DatasetOverview(ctx context.Context) (Overview, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*),
		       AVG(mod_razona_cuantitat_punt),
		       AVG(mod_lectura_critica_punt),
		       AVG(mod_ingles_punt),
		       AVG(mod_competen_ciudada_punt),
		       AVG(%s)
		FROM %s`, compositeExpr, models.TableName)

	res, err := s.store.Query(ctx, query)
	if err != nil {
		return Overview{}, err
	}
	ov := Overview{Averages: map[string]float64{}}
	if len(res.Rows) > 0 {
		row := res.Rows[0]
		ov.TotalRecords = asInt(row[0])
		ov.Averages["mod_razona_cuantitat_punt"] = asFloat(row[1])
		ov.Averages["mod_lectura_critica_punt"] = asFloat(row[2])
		ov.Averages["mod_ingles_punt"] = asFloat(row[3])
		ov.Averages["mod_competen_ciudada_punt"] = asFloat(row[4])
		ov.Composite = asFloat(row[5])
	}

	yearsRes, err := s.store.Query(ctx, fmt.Sprintf(
		"SELECT DISTINCT year FROM %s WHERE year IS NOT NULL ORDER BY year", models.TableName))
	if err != nil {
		return Overview{}, err
	}
	for _, row := range yearsRes.Rows {
		ov.Years = append(ov.Years, asInt(row[0]))
	}
	return ov, nil
}

// Cell conversion for the untyped store results. SQLite hands back int64,
// float64 or string depending on column affinity and the aggregate used.

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	default:
		return 0
	}
}

func asInt(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		return 0
	}
}
