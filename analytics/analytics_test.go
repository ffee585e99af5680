package analytics

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcastillo/saberpro_db/models"
	"github.com/mcastillo/saberpro_db/store"
)

// testRow is one synthetic result with every column the aggregates touch.
type testRow struct {
	periodo  string
	year     int64
	gender   string
	stratum  string
	father   string
	mother   string
	internet string
	computer string
	tuition  string
	hours    string
	quant    float64
	reading  float64
	english  float64
	civic    float64
}

func newTestService(t *testing.T, rows []testRow) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.CreateSchema(false))

	insert := fmt.Sprintf(`INSERT INTO %s (
		periodo, estu_consecutivo, year, period_number, estu_genero,
		fami_estratovivienda, fami_educacionpadre, fami_educacionmadre,
		fami_tieneinternet, fami_tienecomputador,
		estu_valormatriculauniversidad, estu_horassemanatrabaja,
		mod_razona_cuantitat_punt, mod_lectura_critica_punt,
		mod_ingles_punt, mod_competen_ciudada_punt
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, models.TableName)

	for i, r := range rows {
		_, err := st.DB().Exec(insert,
			r.periodo, fmt.Sprintf("EK%06d", i), r.year, 1, r.gender,
			r.stratum, r.father, r.mother, r.internet, r.computer,
			r.tuition, r.hours, r.quant, r.reading, r.english, r.civic)
		require.NoError(t, err)
	}
	return New(st)
}

func scoredRow(year int64, score float64) testRow {
	return testRow{
		periodo: fmt.Sprintf("%d1", year), year: year, gender: "F",
		stratum: "Estrato 3", father: "Ninguno", mother: "Ninguno",
		internet: "Si", computer: "Si",
		tuition: "Menos de 500 mil", hours: "No trabaja",
		quant: score, reading: score, english: score, civic: score,
	}
}

func TestYearlyPerformance(t *testing.T) {
	svc := newTestService(t, []testRow{
		scoredRow(2018, 100),
		scoredRow(2018, 200),
		scoredRow(2019, 180),
	})

	points, err := svc.YearlyPerformance(context.Background(), "mod_ingles_punt")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, int64(2018), points[0].Year)
	assert.InDelta(t, 150, points[0].Average, 1e-9)
	assert.Equal(t, int64(2), points[0].Count)
	assert.Equal(t, int64(2019), points[1].Year)
	assert.InDelta(t, 180, points[1].Average, 1e-9)
}

func TestYearlyPerformanceRejectsUnknownColumn(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.YearlyPerformance(context.Background(), "periodo; DROP TABLE saber_pro")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown score column")
}

func TestGenderDistribution(t *testing.T) {
	rows := []testRow{scoredRow(2018, 100), scoredRow(2018, 200)}
	male := scoredRow(2018, 150)
	male.gender = "M"
	rows = append(rows, male)

	svc := newTestService(t, rows)
	out, err := svc.GenderDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Largest group first.
	assert.Equal(t, "F", out[0].Gender)
	assert.Equal(t, int64(2), out[0].Count)
	assert.InDelta(t, 66.666, out[0].ShareOfAll, 0.01)
	assert.InDelta(t, 150, out[0].Composite, 1e-9)
	assert.InDelta(t, 150, out[0].Averages["mod_ingles_punt"], 1e-9)
}

func TestPerformanceLevels(t *testing.T) {
	svc := newTestService(t, []testRow{
		scoredRow(2018, 210), // high
		scoredRow(2018, 200), // high, boundary
		scoredRow(2018, 160), // average
		scoredRow(2018, 150), // average, boundary
		scoredRow(2018, 90),  // low
	})

	levels, err := svc.PerformanceLevels(context.Background())
	require.NoError(t, err)
	require.Len(t, levels, 3)

	assert.Equal(t, "High Performers", levels[0].Level)
	assert.Equal(t, int64(2), levels[0].Count)
	assert.Equal(t, "Average Performers", levels[1].Level)
	assert.Equal(t, int64(2), levels[1].Count)
	assert.Equal(t, "Low Performers", levels[2].Level)
	assert.Equal(t, int64(1), levels[2].Count)
	assert.InDelta(t, 40, levels[0].Share, 1e-9)
}

func TestPerformanceLevelsEmptyDataset(t *testing.T) {
	svc := newTestService(t, nil)
	levels, err := svc.PerformanceLevels(context.Background())
	require.NoError(t, err)
	require.Len(t, levels, 3, "all bands present even with no data")
	for _, lvl := range levels {
		assert.Zero(t, lvl.Count)
	}
}

func TestGapAnalysisSocioeconomic(t *testing.T) {
	high := scoredRow(2018, 220)
	high.stratum = "Estrato 6"
	low := scoredRow(2018, 120)
	low.stratum = "Estrato 1"

	svc := newTestService(t, []testRow{high, low})
	gap, err := svc.GapAnalysis(context.Background(), FactorSocioeconomic)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gap.AdvantagedCount)
	assert.Equal(t, int64(1), gap.DisadvantagedCount)
	assert.InDelta(t, 100, gap.Gap, 1e-9)
	assert.Contains(t, gap.Interpretation, "100.0 points higher")
}

func TestGapAnalysisTechnology(t *testing.T) {
	with := scoredRow(2018, 200)
	without := scoredRow(2018, 150)
	without.internet = "No"
	without.computer = "No"

	svc := newTestService(t, []testRow{with, without})
	gap, err := svc.GapAnalysis(context.Background(), FactorTechnology)
	require.NoError(t, err)
	assert.InDelta(t, 50, gap.Gap, 1e-9)
}

func TestGapAnalysisUnknownFactor(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.GapAnalysis(context.Background(), "favorite_color")
	require.Error(t, err)
}

func TestEducationalBackgroundTranslatesLabels(t *testing.T) {
	row := scoredRow(2018, 180)
	row.father = "Postgrado"
	row.mother = "Primaria completa"

	svc := newTestService(t, []testRow{row})
	cells, err := svc.EducationalBackground(context.Background(), "mod_ingles_punt")
	require.NoError(t, err)
	require.Len(t, cells, 1)
	assert.Equal(t, "Postgraduate", cells[0].FatherEducation)
	assert.Equal(t, "Complete Primary", cells[0].MotherEducation)
	assert.InDelta(t, 180, cells[0].Average, 1e-9)
}

func TestTuitionAnalysisKeepsDeclaredOrder(t *testing.T) {
	cheap := scoredRow(2018, 140)
	cheap.tuition = "Menos de 500 mil"
	expensive := scoredRow(2018, 190)
	expensive.tuition = "Más de 7 millones"
	free := scoredRow(2018, 150)
	free.tuition = "No pagó matrícula"

	svc := newTestService(t, []testRow{expensive, cheap, free})
	groups, err := svc.TuitionAnalysis(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "No pagó matrícula", groups[0].Group)
	assert.Equal(t, "Menos de 500 mil", groups[1].Group)
	assert.Equal(t, "Más de 7 millones", groups[2].Group)
}

func TestScoreDistribution(t *testing.T) {
	svc := newTestService(t, []testRow{
		scoredRow(2018, 100),
		scoredRow(2018, 150),
		scoredRow(2018, 200),
	})

	dist, err := svc.ScoreDistribution(context.Background(), "mod_lectura_critica_punt")
	require.NoError(t, err)
	assert.Equal(t, "Critical Reading", dist.Label)
	assert.Equal(t, 3, dist.Count)
	assert.InDelta(t, 150, dist.Mean, 1e-9)
	assert.InDelta(t, 150, dist.Median, 1e-9)
	assert.NotEmpty(t, dist.Bins)
}

func TestCorrelateAndMatrix(t *testing.T) {
	// Identical columns per row correlate perfectly.
	svc := newTestService(t, []testRow{
		scoredRow(2018, 100),
		scoredRow(2018, 150),
		scoredRow(2018, 200),
	})

	c, err := svc.Correlate(context.Background(), "mod_ingles_punt", "mod_razona_cuantitat_punt")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.Coefficient, 1e-9)
	assert.Equal(t, "Very Strong", c.Strength)
	assert.Equal(t, 3, c.Pairs)

	m, err := svc.CorrelationMatrix(context.Background())
	require.NoError(t, err)
	require.Len(t, m.Values, 4)
	for i := range m.Values {
		assert.Equal(t, 1.0, m.Values[i][i])
	}
	assert.InDelta(t, m.Values[0][1], m.Values[1][0], 1e-12, "matrix is symmetric")
}

func TestDatasetOverview(t *testing.T) {
	svc := newTestService(t, []testRow{
		scoredRow(2018, 100),
		scoredRow(2019, 200),
	})

	ov, err := svc.DatasetOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), ov.TotalRecords)
	assert.Equal(t, []int64{2018, 2019}, ov.Years)
	assert.InDelta(t, 150, ov.Composite, 1e-9)
}
