package analytics

import (
	"context"
	"fmt"

	"github.com/mcastillo/saberpro_db/models"
)

const histogramBins = 50

// Distribution describes the shape of one module score.
type Distribution struct {
	Score    string  `json:"score"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	Bins     []Bin   `json:"bins"`
}

// ScoreDistribution computes a 50-bin histogram and the distribution moments
// for one module score. The moments are computed in Go over the raw values;
// SQLite has no built-in skewness or kurtosis.
func (s *Service) ScoreDistribution(ctx context.Context, scoreCol string) (Distribution, error) {
	if err := validateScore(scoreCol); err != nil {
		return Distribution{}, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL",
		scoreCol, models.TableName, scoreCol)

	res, err := s.store.Query(ctx, query)
	if err != nil {
		return Distribution{}, err
	}
	values := make([]float64, 0, len(res.Rows))
	for _, row := range res.Rows {
		values = append(values, asFloat(row[0]))
	}

	return Distribution{
		Score:    scoreCol,
		Label:    models.ScoreLabels[scoreCol],
		Count:    len(values),
		Mean:     mean(values),
		Median:   median(values),
		StdDev:   stdDev(values),
		Skewness: skewness(values),
		Kurtosis: kurtosis(values),
		Bins:     histogram(values, histogramBins),
	}, nil
}

// Correlation is the Pearson correlation between two module scores.
type Correlation struct {
	X           string  `json:"x"`
	Y           string  `json:"y"`
	Coefficient float64 `json:"coefficient"`
	Strength    string  `json:"strength"`
	Pairs       int     `json:"pairs"`
}

// Correlate computes the Pearson correlation between two module scores over
// rows where both are present.
func (s *Service) Correlate(ctx context.Context, xCol, yCol string) (Correlation, error) {
	if err := validateScore(xCol); err != nil {
		return Correlation{}, err
	}
	if err := validateScore(yCol); err != nil {
		return Correlation{}, err
	}
	query := fmt.Sprintf(`
		SELECT %s, %s FROM %s
		WHERE %s IS NOT NULL AND %s IS NOT NULL`,
		xCol, yCol, models.TableName, xCol, yCol)

	res, err := s.store.Query(ctx, query)
	if err != nil {
		return Correlation{}, err
	}
	xs := make([]float64, 0, len(res.Rows))
	ys := make([]float64, 0, len(res.Rows))
	for _, row := range res.Rows {
		xs = append(xs, asFloat(row[0]))
		ys = append(ys, asFloat(row[1]))
	}

	r := pearson(xs, ys)
	return Correlation{
		X:           xCol,
		Y:           yCol,
		Coefficient: r,
		Strength:    correlationStrength(r),
		Pairs:       len(xs),
	}, nil
}

// Matrix is a symmetric score correlation matrix, in ScoreColumns order.
type Matrix struct {
	Scores []string    `json:"scores"`
	Values [][]float64 `json:"values"`
}

// CorrelationMatrix computes the full pairwise correlation matrix of the four
// module scores.
func (s *Service) CorrelationMatrix(ctx context.Context) (Matrix, error) {
	n := len(models.ScoreColumns)
	m := Matrix{Scores: models.ScoreColumns, Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c, err := s.Correlate(ctx, models.ScoreColumns[i], models.ScoreColumns[j])
			if err != nil {
				return Matrix{}, err
			}
			m.Values[i][j] = c.Coefficient
			m.Values[j][i] = c.Coefficient
		}
	}
	return m, nil
}

// PerformanceLevel is one composite-score band.
type PerformanceLevel struct {
	Level     string  `json:"level"`
	Count     int64   `json:"count"`
	Share     float64 `json:"share"`
	Composite float64 `json:"composite"`
}

// PerformanceLevels bands test takers by composite score: 200 and above are
// High Performers, 150 and above Average Performers, the rest Low Performers.
// Only rows with all four module scores count.
func (s *Service) PerformanceLevels(ctx context.Context) ([]PerformanceLevel, error) {
	query := fmt.Sprintf(`
		SELECT CASE
		         WHEN %[1]s >= 200 THEN 'High Performers'
		         WHEN %[1]s >= 150 THEN 'Average Performers'
		         ELSE 'Low Performers'
		       END AS level,
		       COUNT(*), AVG(%[1]s)
		FROM %[2]s
		WHERE %[3]s
		GROUP BY level`, compositeExpr, models.TableName, allScoresPresent)

	res, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, row := range res.Rows {
		total += asInt(row[1])
	}
	byLevel := make(map[string]PerformanceLevel, len(res.Rows))
	for _, row := range res.Rows {
		lvl := PerformanceLevel{
			Level:     asString(row[0]),
			Count:     asInt(row[1]),
			Composite: asFloat(row[2]),
		}
		if total > 0 {
			lvl.Share = float64(lvl.Count) / float64(total) * 100
		}
		byLevel[lvl.Level] = lvl
	}

	// Fixed ordering, including empty bands.
	out := make([]PerformanceLevel, 0, 3)
	for _, name := range []string{"High Performers", "Average Performers", "Low Performers"} {
		lvl, ok := byLevel[name]
		if !ok {
			lvl = PerformanceLevel{Level: name}
		}
		out = append(out, lvl)
	}
	return out, nil
}

// Gap analysis factors.
const (
	FactorParentsEducation = "parents_education"
	FactorTechnology       = "technology"
	FactorSocioeconomic    = "socioeconomic"
)

// GapFactors lists the accepted gap-analysis factor names.
var GapFactors = []string{FactorParentsEducation, FactorTechnology, FactorSocioeconomic}

// Gap compares the composite average of an advantaged group against its
// disadvantaged counterpart.
type Gap struct {
	Factor               string  `json:"factor"`
	AdvantagedLabel      string  `json:"advantaged_label"`
	DisadvantagedLabel   string  `json:"disadvantaged_label"`
	AdvantagedCount      int64   `json:"advantaged_count"`
	DisadvantagedCount   int64   `json:"disadvantaged_count"`
	AdvantagedAverage    float64 `json:"advantaged_average"`
	DisadvantagedAverage float64 `json:"disadvantaged_average"`
	Gap                  float64 `json:"gap"`
	Interpretation       string  `json:"interpretation"`
}

// GapAnalysis measures the composite-score gap for one factor:
// parents_education (both parents with completed higher education vs neither),
// technology (internet and computer at home vs neither) and socioeconomic
// (strata 5-6 vs strata 1-2).
func (s *Service) GapAnalysis(ctx context.Context, factor string) (Gap, error) {
	var advWhere, disWhere, advLabel, disLabel string
	switch factor {
	case FactorParentsEducation:
		higher := "('" + models.HigherEducationLevels[0] + "', '" + models.HigherEducationLevels[1] + "')"
		advWhere = "fami_educacionpadre IN " + higher + " AND fami_educacionmadre IN " + higher
		disWhere = "fami_educacionpadre NOT IN " + higher + " AND fami_educacionmadre NOT IN " + higher +
			" AND fami_educacionpadre IS NOT NULL AND fami_educacionmadre IS NOT NULL"
		advLabel = "Both parents with higher education"
		disLabel = "Neither parent with higher education"
	case FactorTechnology:
		advWhere = "fami_tieneinternet = 'Si' AND fami_tienecomputador = 'Si'"
		disWhere = "fami_tieneinternet = 'No' AND fami_tienecomputador = 'No'"
		advLabel = "Internet and computer at home"
		disLabel = "Neither internet nor computer"
	case FactorSocioeconomic:
		advWhere = "fami_estratovivienda IN ('Estrato 5', 'Estrato 6')"
		disWhere = "fami_estratovivienda IN ('Estrato 1', 'Estrato 2')"
		advLabel = "Strata 5-6"
		disLabel = "Strata 1-2"
	default:
		return Gap{}, fmt.Errorf("unknown gap factor %q", factor)
	}

	advCount, advAvg, err := s.groupComposite(ctx, advWhere)
	if err != nil {
		return Gap{}, err
	}
	disCount, disAvg, err := s.groupComposite(ctx, disWhere)
	if err != nil {
		return Gap{}, err
	}

	gap := Gap{
		Factor:               factor,
		AdvantagedLabel:      advLabel,
		DisadvantagedLabel:   disLabel,
		AdvantagedCount:      advCount,
		DisadvantagedCount:   disCount,
		AdvantagedAverage:    advAvg,
		DisadvantagedAverage: disAvg,
		Gap:                  advAvg - disAvg,
	}
	gap.Interpretation = interpretGap(gap)
	return gap, nil
}

func (s *Service) groupComposite(ctx context.Context, where string) (int64, float64, error) {
	query := fmt.Sprintf("SELECT COUNT(*), AVG(%s) FROM %s WHERE %s AND %s",
		compositeExpr, models.TableName, where, allScoresPresent)
	res, err := s.store.Query(ctx, query)
	if err != nil {
		return 0, 0, err
	}
	if len(res.Rows) == 0 {
		return 0, 0, nil
	}
	return asInt(res.Rows[0][0]), asFloat(res.Rows[0][1]), nil
}

func interpretGap(g Gap) string {
	if g.AdvantagedCount == 0 || g.DisadvantagedCount == 0 {
		return "Not enough data to compare the two groups."
	}
	diff := g.Gap
	direction := "higher"
	if diff < 0 {
		direction = "lower"
		diff = -diff
	}
	return fmt.Sprintf("%s score on average %.1f points %s than %s.",
		g.AdvantagedLabel, diff, direction, lowerFirst(g.DisadvantagedLabel))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}

// BackgroundCell is one father-education by mother-education combination.
type BackgroundCell struct {
	FatherEducation string  `json:"father_education"`
	MotherEducation string  `json:"mother_education"`
	Count           int64   `json:"count"`
	Average         float64 `json:"average"`
}

// EducationalBackground reports the average of scoreCol for every combination
// of father and mother education, with the Spanish levels translated to their
// English display labels. Cells are ordered lowest education first on both
// axes.
func (s *Service) EducationalBackground(ctx context.Context, scoreCol string) ([]BackgroundCell, error) {
	if err := validateScore(scoreCol); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT fami_educacionpadre, fami_educacionmadre, COUNT(*), AVG(%s)
		FROM %s
		WHERE fami_educacionpadre IS NOT NULL
		  AND fami_educacionmadre IS NOT NULL
		  AND %s IS NOT NULL
		GROUP BY fami_educacionpadre, fami_educacionmadre`,
		scoreCol, models.TableName, scoreCol)

	res, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]BackgroundCell, len(res.Rows))
	for _, row := range res.Rows {
		cell := BackgroundCell{
			FatherEducation: asString(row[0]),
			MotherEducation: asString(row[1]),
			Count:           asInt(row[2]),
			Average:         asFloat(row[3]),
		}
		byKey[cell.FatherEducation+"|"+cell.MotherEducation] = cell
	}

	out := make([]BackgroundCell, 0, len(byKey))
	for _, father := range models.EducationLevels {
		for _, mother := range models.EducationLevels {
			cell, ok := byKey[father+"|"+mother]
			if !ok {
				continue
			}
			cell.FatherEducation = models.EducationLabels[father]
			cell.MotherEducation = models.EducationLabels[mother]
			out = append(out, cell)
			delete(byKey, father+"|"+mother)
		}
	}
	// Values outside the known set pass through untranslated.
	for _, cell := range byKey {
		out = append(out, cell)
	}
	return out, nil
}
