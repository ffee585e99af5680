package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcastillo/saberpro_db/analytics"
	"github.com/mcastillo/saberpro_db/config"
	"github.com/mcastillo/saberpro_db/models"
	"github.com/mcastillo/saberpro_db/store"
)

func newTestServer(t *testing.T, seed bool) *httptest.Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.CreateSchema(false))

	if seed {
		insert := fmt.Sprintf(`INSERT INTO %s (
			periodo, estu_consecutivo, year, period_number, estu_genero,
			fami_estratovivienda,
			mod_razona_cuantitat_punt, mod_lectura_critica_punt,
			mod_ingles_punt, mod_competen_ciudada_punt
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, models.TableName)
		for i, score := range []float64{120, 160, 210} {
			_, err := st.DB().Exec(insert,
				"20183", fmt.Sprintf("EK%06d", i), 2018, 3, "F",
				"Estrato 3", score, score, score, score)
			require.NoError(t, err)
		}
	}

	cfg := config.Config{Port: 0}
	srv := httptest.NewServer(NewRouter(st, cfg))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, false)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t, false)
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestUnknownPathIs404(t *testing.T) {
	srv := newTestServer(t, false)
	resp, err := http.Get(srv.URL + "/no-such-page")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestYearlyPerformanceEndpoint(t *testing.T) {
	srv := newTestServer(t, true)

	var report analytics.YearlyReport
	resp := getJSON(t, srv.URL+"/api/yearly-performance?score=mod_ingles_punt", &report)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "English", report.Label)
	require.Len(t, report.Points, 1)
	assert.Equal(t, int64(2018), report.Points[0].Year)
	assert.InDelta(t, 163.33, report.Points[0].Average, 0.01)
}

func TestScoreParamValidation(t *testing.T) {
	srv := newTestServer(t, true)

	for _, path := range []string{
		"/api/yearly-performance?score=periodo",
		"/api/score-distribution?score=estu_genero",
		"/api/background?score=1;DROP%20TABLE",
		"/api/correlation?x=mod_ingles_punt&y=bogus",
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestGapAnalysisFactorValidation(t *testing.T) {
	srv := newTestServer(t, true)

	resp, err := http.Get(srv.URL + "/api/gap-analysis?factor=bogus")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var gap analytics.Gap
	resp = getJSON(t, srv.URL+"/api/gap-analysis", &gap)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, analytics.FactorParentsEducation, gap.Factor)
}

func TestPerformanceLevelsEndpoint(t *testing.T) {
	srv := newTestServer(t, true)

	var levels []analytics.PerformanceLevel
	resp := getJSON(t, srv.URL+"/api/performance-levels", &levels)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, levels, 3)
	assert.Equal(t, "High Performers", levels[0].Level)
	assert.Equal(t, int64(1), levels[0].Count)
}

func TestCorrelationMatrixEndpoint(t *testing.T) {
	srv := newTestServer(t, true)

	var m analytics.Matrix
	resp := getJSON(t, srv.URL+"/api/correlation", &m)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, m.Scores, 4)
	assert.Len(t, m.Values, 4)
}

func TestEmptyDatabaseDegradesGracefully(t *testing.T) {
	srv := newTestServer(t, false)

	var report analytics.YearlyReport
	resp := getJSON(t, srv.URL+"/api/yearly-performance", &report)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, report.Points)

	var ov analytics.Overview
	resp = getJSON(t, srv.URL+"/api/overview", &ov)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, ov.TotalRecords)
}

func TestTemporalPatternsEndpoint(t *testing.T) {
	srv := newTestServer(t, true)

	var report analytics.TemporalReport
	resp := getJSON(t, srv.URL+"/api/temporal-patterns", &report)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, report.Periods, 1)
	assert.Equal(t, "20183", report.Periods[0].Periodo)
	assert.Equal(t, int64(3), report.Periods[0].Count)
	require.Len(t, report.Stability, 4)
}

func TestOverviewEndpoint(t *testing.T) {
	srv := newTestServer(t, true)

	var ov analytics.Overview
	resp := getJSON(t, srv.URL+"/api/overview", &ov)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(3), ov.TotalRecords)
	assert.Equal(t, []int64{2018}, ov.Years)
}
