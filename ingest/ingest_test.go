package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcastillo/saberpro_db/store"
)

func TestDerivePeriod(t *testing.T) {
	tests := []struct {
		name       string
		periodo    string
		wantYear   int64
		wantPeriod int64
		wantValid  bool
	}{
		{name: "five digit code", periodo: "20183", wantYear: 2018, wantPeriod: 3, wantValid: true},
		{name: "bare year", periodo: "2019", wantYear: 2019, wantPeriod: 1, wantValid: true},
		{name: "whitespace", periodo: " 20201 ", wantYear: 2020, wantPeriod: 1, wantValid: true},
		{name: "empty", periodo: "", wantValid: false},
		{name: "non numeric", periodo: "abcde", wantValid: false},
		{name: "too short", periodo: "201", wantValid: false},
		{name: "too long", periodo: "201834", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, period := DerivePeriod(tt.periodo)
			assert.Equal(t, tt.wantValid, year.Valid)
			assert.Equal(t, tt.wantValid, period.Valid)
			if tt.wantValid {
				assert.Equal(t, tt.wantYear, year.Int64)
				assert.Equal(t, tt.wantPeriod, period.Int64)
			}
		})
	}
}

func TestCoerceScore(t *testing.T) {
	assert.Equal(t, 185.5, CoerceScore("185.5"))
	assert.Equal(t, 185.5, CoerceScore("185,5"))
	assert.Equal(t, 0.0, CoerceScore("0"))
	assert.Nil(t, CoerceScore(""))
	assert.Nil(t, CoerceScore("n/a"))
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

const sampleCSV = `PERIODO,ESTU_CONSECUTIVO,ESTU_GENERO,FAMI_ESTRATOVIVIENDA,MOD_INGLES_PUNT,MOD_RAZONA_CUANTITAT_PUNT,MOD_LECTURA_CRITICA_PUNT,MOD_COMPETEN_CIUDADA_PUNT,IGNORED_COLUMN
20183,EK000000001,F,Estrato 2,150.5,160,170,"140,5",junk
20183,EK000000002,M,Estrato 4,,120,130,110,junk
2019,EK000000003,F,,200,210.5,190,205,junk
`

func TestRunLoadsCSV(t *testing.T) {
	st := openTestStore(t)
	path := writeCSV(t, sampleCSV)

	summary, err := Run(context.Background(), st, Config{SourceFile: path, ChunkSize: 2, Replace: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Rows)
	assert.Equal(t, 2, summary.Chunks)

	count, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Headers are lowercased, scores coerced, year derived.
	res, err := st.Query(context.Background(),
		"SELECT year, period_number, mod_competen_ciudada_punt FROM saber_pro WHERE estu_consecutivo = ?",
		"EK000000001")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, int64(2018), res.Rows[0][0])
	assert.Equal(t, int64(3), res.Rows[0][1])
	assert.Equal(t, 140.5, res.Rows[0][2])

	// Bare-year periodo counts as cycle 1.
	res, err = st.Query(context.Background(),
		"SELECT year, period_number FROM saber_pro WHERE estu_consecutivo = ?", "EK000000003")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, int64(2019), res.Rows[0][0])
	assert.Equal(t, int64(1), res.Rows[0][1])

	// Missing score stays NULL rather than becoming zero.
	res, err = st.Query(context.Background(),
		"SELECT COUNT(*) FROM saber_pro WHERE mod_ingles_punt IS NULL")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Rows[0][0])
}

func TestRunReplaceIsIdempotent(t *testing.T) {
	st := openTestStore(t)
	path := writeCSV(t, sampleCSV)

	for i := 0; i < 2; i++ {
		_, err := Run(context.Background(), st, Config{SourceFile: path, Replace: true})
		require.NoError(t, err)
	}

	count, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "reload with replace must not duplicate rows")
}

func TestRunAppendWithoutReplace(t *testing.T) {
	st := openTestStore(t)
	path := writeCSV(t, sampleCSV)

	for i := 0; i < 2; i++ {
		_, err := Run(context.Background(), st, Config{SourceFile: path, Replace: false})
		require.NoError(t, err)
	}

	count, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
}

func TestRunMissingRequiredColumn(t *testing.T) {
	st := openTestStore(t)
	path := writeCSV(t, "estu_genero,mod_ingles_punt\nF,150\n")

	_, err := Run(context.Background(), st, Config{SourceFile: path, Replace: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "periodo")
}

func TestRunMissingFile(t *testing.T) {
	st := openTestStore(t)
	_, err := Run(context.Background(), st, Config{SourceFile: "does-not-exist.csv"})
	require.Error(t, err)
}
