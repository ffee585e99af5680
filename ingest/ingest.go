// Package ingest loads the Saber Pro results CSV into the SQLite store in
// bounded chunks, one transaction per chunk.
package ingest

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcastillo/saberpro_db/models"
	"github.com/mcastillo/saberpro_db/store"
)

const DefaultChunkSize = 50000

// Config holds the settings for one load run.
type Config struct {
	SourceFile string
	ChunkSize  int
	// Replace drops and recreates the destination table before loading, so a
	// rerun against the same file yields the same row count.
	Replace bool
}

// Summary reports what a completed load did.
type Summary struct {
	Rows    int64
	Chunks  int
	Elapsed time.Duration
}

// Run streams the CSV at cfg.SourceFile into the store. Each chunk is loaded
// inside its own transaction; a failed chunk is rolled back and aborts the
// whole load. Indexes are built only after every chunk has committed.
func Run(ctx context.Context, st *store.Store, cfg Config) (Summary, error) {
	start := time.Now()

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}

	file, err := os.Open(cfg.SourceFile)
	if err != nil {
		return Summary{}, fmt.Errorf("open source file: %w", err)
	}
	defer file.Close()

	if err := st.CreateSchema(cfg.Replace); err != nil {
		return Summary{}, err
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Summary{}, fmt.Errorf("read header: %w", err)
	}
	mapping, err := mapColumns(header)
	if err != nil {
		return Summary{}, err
	}

	slog.Info("starting load", "source", cfg.SourceFile, "chunk_size", cfg.ChunkSize)

	var summary Summary
	chunk := make([][]string, 0, cfg.ChunkSize)
	for {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("read record: %w", err)
		}

		chunk = append(chunk, record)
		if len(chunk) >= cfg.ChunkSize {
			if err := loadChunk(ctx, st, mapping, chunk, summary.Chunks); err != nil {
				return summary, err
			}
			summary.Rows += int64(len(chunk))
			summary.Chunks++
			slog.Info("chunk committed", "chunk", summary.Chunks, "rows", summary.Rows)
			chunk = chunk[:0]
		}
	}
	if len(chunk) > 0 {
		if err := loadChunk(ctx, st, mapping, chunk, summary.Chunks); err != nil {
			return summary, err
		}
		summary.Rows += int64(len(chunk))
		summary.Chunks++
	}

	if err := st.CreateIndexes(); err != nil {
		return summary, err
	}
	st.Invalidate()

	count, err := st.Count()
	if err != nil {
		return summary, err
	}
	if count != summary.Rows && cfg.Replace {
		return summary, fmt.Errorf("row count mismatch: loaded %d, table has %d", summary.Rows, count)
	}

	summary.Elapsed = time.Since(start)
	slog.Info("load complete",
		"rows", summary.Rows,
		"chunks", summary.Chunks,
		"elapsed", summary.Elapsed.Round(time.Millisecond),
	)
	return summary, nil
}

// columnMapping maps each destination column to its index in the source
// header, or -1 when the source does not carry it.
type columnMapping map[string]int

func mapColumns(header []string) (columnMapping, error) {
	normalized := make(map[string]int, len(header))
	for i, h := range header {
		normalized[normalizeHeader(h)] = i
	}

	mapping := make(columnMapping, len(models.Columns))
	for _, col := range models.Columns {
		if col == "year" || col == "period_number" {
			continue // derived, never read from the source
		}
		idx, ok := normalized[col]
		if !ok {
			idx = -1
		}
		mapping[col] = idx
	}

	if mapping["periodo"] < 0 {
		return nil, fmt.Errorf("source file has no periodo column")
	}
	if mapping["estu_consecutivo"] < 0 {
		return nil, fmt.Errorf("source file has no estu_consecutivo column")
	}
	return mapping, nil
}

// normalizeHeader lowers and trims a source header, dropping a UTF-8 BOM if
// the file starts with one.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

func loadChunk(ctx context.Context, st *store.Store, mapping columnMapping, chunk [][]string, chunkIndex int) error {
	tx, err := st.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunk %d: %w", chunkIndex, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL())
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, record := range chunk {
		values := transformRecord(mapping, record)
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			slog.Error("chunk failed", "chunk", chunkIndex, "row", i, "error", err)
			return fmt.Errorf("chunk %d row %d: %w", chunkIndex, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunk %d: %w", chunkIndex, err)
	}
	return nil
}

func insertSQL() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(models.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		models.TableName, strings.Join(models.Columns, ", "), placeholders)
}

// transformRecord builds the insert values for one source row, in
// models.Columns order.
func transformRecord(mapping columnMapping, record []string) []any {
	get := func(col string) string {
		idx := mapping[col]
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	periodo := get("periodo")
	year, periodNumber := DerivePeriod(periodo)

	values := make([]any, 0, len(models.Columns))
	for _, col := range models.Columns {
		switch col {
		case "year":
			values = append(values, nullable(year))
		case "period_number":
			values = append(values, nullable(periodNumber))
		default:
			if models.IsScoreColumn(col) {
				values = append(values, CoerceScore(get(col)))
				continue
			}
			if v := get(col); v != "" {
				values = append(values, v)
			} else {
				values = append(values, nil)
			}
		}
	}
	return values
}

func nullable(v sql.NullInt64) any {
	if v.Valid {
		return v.Int64
	}
	return nil
}

// DerivePeriod splits a Saber Pro cycle code into its year and sub-period.
// Codes are YYYYP ("20183" is the third cycle of 2018); a bare YYYY counts as
// the first cycle. Anything else yields nulls.
func DerivePeriod(periodo string) (year, periodNumber sql.NullInt64) {
	periodo = strings.TrimSpace(periodo)

	switch len(periodo) {
	case 4:
		y, err := strconv.Atoi(periodo)
		if err != nil {
			return
		}
		return sql.NullInt64{Int64: int64(y), Valid: true}, sql.NullInt64{Int64: 1, Valid: true}
	case 5:
		y, err := strconv.Atoi(periodo[:4])
		if err != nil {
			return
		}
		p, err := strconv.Atoi(periodo[4:])
		if err != nil {
			return
		}
		return sql.NullInt64{Int64: int64(y), Valid: true}, sql.NullInt64{Int64: int64(p), Valid: true}
	default:
		return
	}
}

// CoerceScore parses a score cell into a float, accepting a comma decimal
// separator. Invalid or empty values become NULL, never a string.
func CoerceScore(s string) any {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return nil
		}
	}
	return f
}
