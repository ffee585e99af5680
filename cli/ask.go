package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcastillo/saberpro_db/nlquery"
	"github.com/mcastillo/saberpro_db/store"
)

// AskOptions holds flags for the ask command.
type AskOptions struct {
	*RootOptions
	Database string
}

// NewAskCommand creates the ask command.
func NewAskCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AskOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ask <question>...",
		Short: "Ask a question about the dataset in natural language",
		Long: `Translate a natural-language question into SQL with Gemini and run it
against the results database. Only SELECT statements are ever executed.

Requires GEMINI_API_KEY (or GEMINI_API_KEY_1..4) in the environment.

Example:
  saberpro ask "average english score by stratum in 2020"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite database (default from SABERPRO_DB)")

	return cmd
}

func runAsk(cmd *cobra.Command, opts *AskOptions, question string) error {
	cfg, err := loadConfig(opts.Database)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath, store.Options{
		MaxRows:      cfg.MaxRows,
		QueryTimeout: cfg.QueryTimeout,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	engine, err := nlquery.NewEngine(cmd.Context(), st)
	if err != nil {
		return err
	}
	defer engine.Close()

	return engine.ProcessQuery(cmd.Context(), question)
}
