package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mcastillo/saberpro_db/analytics"
	"github.com/mcastillo/saberpro_db/models"
	"github.com/mcastillo/saberpro_db/store"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Database string
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics for the loaded dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite database (default from SABERPRO_DB)")

	return cmd
}

func runStats(cmd *cobra.Command, opts *StatsOptions) error {
	cfg, err := loadConfig(opts.Database)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath, store.Options{QueryTimeout: cfg.QueryTimeout})
	if err != nil {
		return err
	}
	defer st.Close()

	svc := analytics.New(st)
	ctx := cmd.Context()

	ov, err := svc.DatasetOverview(ctx)
	if err != nil {
		return err
	}
	color.Cyan("\nDataset Overview")
	fmt.Printf("Total results: %d\n", ov.TotalRecords)
	if len(ov.Years) > 0 {
		fmt.Printf("Years: %d-%d\n", ov.Years[0], ov.Years[len(ov.Years)-1])
	}
	fmt.Printf("Composite average: %.2f\n", ov.Composite)

	color.Cyan("\nAverage Scores")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Module", "Average"})
	for _, col := range models.ScoreColumns {
		table.Append([]string{models.ScoreLabels[col], fmt.Sprintf("%.2f", ov.Averages[col])})
	}
	table.Render()

	levels, err := svc.PerformanceLevels(ctx)
	if err != nil {
		return err
	}
	color.Cyan("\nPerformance Levels")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Level", "Count", "Share", "Avg Composite"})
	for _, lvl := range levels {
		table.Append([]string{
			lvl.Level,
			strconv.FormatInt(lvl.Count, 10),
			fmt.Sprintf("%.1f%%", lvl.Share),
			fmt.Sprintf("%.2f", lvl.Composite),
		})
	}
	table.Render()

	temporal, err := svc.TemporalPatterns(ctx)
	if err != nil {
		return err
	}
	color.Cyan("\nAverage Scores per Period")
	table = tablewriter.NewWriter(os.Stdout)
	header := []string{"Period", "Count"}
	for _, col := range models.ScoreColumns {
		header = append(header, models.ScoreLabels[col])
	}
	table.SetHeader(header)
	for _, p := range temporal.Periods {
		row := []string{p.Periodo, strconv.FormatInt(p.Count, 10)}
		for _, col := range models.ScoreColumns {
			row = append(row, fmt.Sprintf("%.2f", p.Averages[col]))
		}
		table.Append(row)
	}
	table.Render()
	if temporal.Interpretation != "" {
		fmt.Println(temporal.Interpretation)
	}

	return nil
}
