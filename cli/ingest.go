package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcastillo/saberpro_db/ingest"
	"github.com/mcastillo/saberpro_db/store"
)

// logFileName receives a copy of the load log next to the working directory,
// so a long load can be audited after the terminal scrolls away.
const logFileName = "data_processing.log"

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	Database  string
	ChunkSize int
	Replace   bool
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest <csv-file>",
		Short: "Load a Saber Pro results CSV into SQLite",
		Long: `Load a results CSV into the SQLite database in chunked transactions.

Column headers are matched case-insensitively against the known schema;
columns the schema does not know are ignored. The year and period_number
columns are derived from periodo during the load.

Example:
  saberpro ingest --db data/processed/saber_pro.db data/raw/resultados.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite database (default from SABERPRO_DB)")
	cmd.Flags().IntVar(&opts.ChunkSize, "chunk-size", 0, "rows per transaction (default 50000)")
	cmd.Flags().BoolVar(&opts.Replace, "replace", true, "drop and recreate the table before loading")

	return cmd
}

func runIngest(cmd *cobra.Command, opts *IngestOptions, sourceFile string) error {
	cfg, err := loadConfig(opts.Database)
	if err != nil {
		return err
	}
	if opts.ChunkSize > 0 {
		cfg.ChunkSize = opts.ChunkSize
	}

	// Log to the terminal and to the processing log file.
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	configureLogging(opts.Verbose, io.MultiWriter(os.Stderr, logFile))
	defer configureLogging(opts.Verbose, os.Stderr)

	st, err := store.Open(cfg.DBPath, store.Options{QueryTimeout: cfg.QueryTimeout})
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := ingest.Run(cmd.Context(), st, ingest.Config{
		SourceFile: sourceFile,
		ChunkSize:  cfg.ChunkSize,
		Replace:    opts.Replace,
	})
	if err != nil {
		slog.Error("load failed", "error", err)
		return err
	}

	color.Green("Loaded %d rows in %d chunks (%s)",
		summary.Rows, summary.Chunks, summary.Elapsed.Round(time.Millisecond))
	return nil
}
