package analytics

import (
	"context"
	"fmt"

	"github.com/mcastillo/saberpro_db/models"
)

// PeriodAverages holds the per-module averages for one administration period.
type PeriodAverages struct {
	Periodo  string             `json:"periodo"`
	Count    int64              `json:"count"`
	Averages map[string]float64 `json:"averages"`
}

// ModuleStability summarizes how one module's average moves across periods.
type ModuleStability struct {
	Score string  `json:"score"`
	Label string  `json:"label"`
	CV    float64 `json:"cv"`
	Trend string  `json:"trend"`
}

// TemporalReport is the temporal-patterns section: module averages per period
// plus a stability reading for each module.
type TemporalReport struct {
	Periods        []PeriodAverages  `json:"periods"`
	Stability      []ModuleStability `json:"stability"`
	Interpretation string            `json:"interpretation"`
}

// trendThreshold is the first-to-last change, in score points, below which a
// module counts as stable.
const trendThreshold = 1.0

// TemporalPatterns reports every module's average per administration period,
// with a coefficient of variation and a first-to-last trend per module.
func (s *Service) TemporalPatterns(ctx context.Context) (TemporalReport, error) {
	query := fmt.Sprintf(`
		SELECT periodo, COUNT(*),
		       AVG(mod_razona_cuantitat_punt),
		       AVG(mod_lectura_critica_punt),
		       AVG(mod_ingles_punt),
		       AVG(mod_competen_ciudada_punt)
		FROM %s
		WHERE periodo IS NOT NULL
		GROUP BY periodo
		ORDER BY periodo`, models.TableName)

	res, err := s.store.Query(ctx, query)
	if err != nil {
		return TemporalReport{}, err
	}

	report := TemporalReport{Periods: make([]PeriodAverages, 0, len(res.Rows))}
	for _, row := range res.Rows {
		report.Periods = append(report.Periods, PeriodAverages{
			Periodo: asString(row[0]),
			Count:   asInt(row[1]),
			Averages: map[string]float64{
				"mod_razona_cuantitat_punt": asFloat(row[2]),
				"mod_lectura_critica_punt":  asFloat(row[3]),
				"mod_ingles_punt":           asFloat(row[4]),
				"mod_competen_ciudada_punt": asFloat(row[5]),
			},
		})
	}

	for _, col := range models.ScoreColumns {
		series := make([]float64, 0, len(report.Periods))
		for _, p := range report.Periods {
			series = append(series, p.Averages[col])
		}
		report.Stability = append(report.Stability, moduleStability(col, series))
	}
	report.Interpretation = interpretStability(report.Stability, len(report.Periods))
	return report, nil
}

func moduleStability(col string, series []float64) ModuleStability {
	st := ModuleStability{Score: col, Label: models.ScoreLabels[col], Trend: "stable"}
	if len(series) < 2 {
		return st
	}
	if m := mean(series); m != 0 {
		st.CV = stdDev(series) / m * 100
	}
	change := series[len(series)-1] - series[0]
	switch {
	case change > trendThreshold:
		st.Trend = "improving"
	case change < -trendThreshold:
		st.Trend = "declining"
	}
	return st
}

func interpretStability(stability []ModuleStability, periods int) string {
	if periods < 2 || len(stability) == 0 {
		return ""
	}
	steadiest := stability[0]
	improving := 0
	for _, st := range stability {
		if st.CV < steadiest.CV {
			steadiest = st
		}
		if st.Trend == "improving" {
			improving++
		}
	}
	return fmt.Sprintf("%s is the steadiest module across %d periods (CV %.1f%%); %d of %d modules trend upward.",
		steadiest.Label, periods, steadiest.CV, improving, len(stability))
}
