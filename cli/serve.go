package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcastillo/saberpro_db/store"
	"github.com/mcastillo/saberpro_db/web"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Database string
	Port     int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics dashboard",
		Long: `Serve the web dashboard and its JSON API.

Example:
  saberpro serve --db data/processed/saber_pro.db --port 8051`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite database (default from SABERPRO_DB)")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "listen port (default 8051)")

	return cmd
}

func runServe(opts *ServeOptions) error {
	cfg, err := loadConfig(opts.Database)
	if err != nil {
		return err
	}
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}

	st, err := store.Open(cfg.DBPath, store.Options{
		CacheSize:    cfg.CacheSize,
		MaxRows:      cfg.MaxRows,
		QueryTimeout: cfg.QueryTimeout,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	if count, err := st.Count(); err != nil {
		slog.Warn("database not loaded yet", "path", cfg.DBPath, "error", err)
	} else {
		slog.Info("serving dashboard", "rows", count, "port", cfg.Port)
	}

	srv := web.NewServer(st, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
