package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/albapepper/topina-data/internal/config"
	"github.com/albapepper/topina-data/internal/coverage"
	"github.com/albapepper/topina-data/internal/db"
	"github.com/albapepper/topina-data/internal/draft"
	"github.com/albapepper/topina-data/internal/espn"
	"github.com/albapepper/topina-data/internal/imageref"
	"github.com/albapepper/topina-data/internal/resolve"
	"github.com/albapepper/topina-data/internal/store"
	"github.com/albapepper/topina-data/internal/teams"
)

func validateCmd() *cobra.Command {
	var (
		strict bool
		record bool
	)
	cmd := &cobra.Command{
		Use:   "validate [names...]",
		Short: "Resolve every drafted player and write the coverage report",
		Long: "Resolves each name through the team table, the canonical map and the ESPN search.\n" +
			"Names default to every drafted player across the configured seasons.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
				if cmd.Flags().Changed("strict") {
					cfg.Validate.Strict = strict
				}
				report, err := validate(ctx, cfg, logger, args)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)

				if !record {
					return nil
				}
				return recordRun(ctx, cfg, logger, report)
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Probe every search-resolved image with a HEAD request")
	cmd.Flags().BoolVar(&record, "record", false, "Also store the run in Postgres")
	return cmd
}

// validate runs one coverage pass and writes the report file. Per-name
// failures end up in the report; only setup failures are returned.
func validate(ctx context.Context, cfg *config.Config, logger *zap.Logger, names []string) (*coverage.Report, error) {
	m, err := buildMap(cfg, logger)
	if err != nil {
		return nil, err
	}

	tables, err := teams.Load(cfg.Paths.TeamAbbr, cfg.Paths.TeamIDs)
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		names = draft.Collect(ctx, draftSource(cfg), draft.Seasons(cfg.Validate.SeasonFrom, cfg.Validate.SeasonTo), logger)
	}
	logger.Info("names to check", zap.Int("count", len(names)), zap.Bool("strict", cfg.Validate.Strict))

	client := espn.NewClient(espn.Options{
		SearchURL: cfg.ESPN.SearchURL,
		Limit:     cfg.ESPN.Limit,
		Timeout:   cfg.ESPN.Timeout,
		Delay:     cfg.ESPN.Delay,
		UserAgent: cfg.ESPN.UserAgent,
	}, logger)

	resolver := resolve.New(m, client, resolve.Options{
		Teams:    tables,
		Template: imageref.Template{Host: cfg.ESPN.ImageHost},
		Prober:   imageref.NewProber(cfg.ESPN.ProbeTimeout, cfg.ESPN.UserAgent, logger),
		Strict:   cfg.Validate.Strict,
	}, logger)

	start := time.Now()
	report, _ := resolver.Run(ctx, uuid.NewString(), names)
	logger.Info("validation finished", zap.Duration("duration", time.Since(start).Round(time.Second)))

	if err := report.WriteJSON(cfg.Paths.Report); err != nil {
		return nil, err
	}
	logger.Info("report written", zap.String("path", cfg.Paths.Report))
	return report, nil
}

func draftSource(cfg *config.Config) draft.Source {
	if cfg.Validate.DraftSource != "" {
		return draft.NewRemoteSource(cfg.Validate.DraftSource)
	}
	return draft.DirSource{Dir: cfg.Paths.DraftDir}
}

func printReport(w io.Writer, report *coverage.Report) {
	fmt.Fprintln(w, "--- Validation Complete ---")
	fmt.Fprintln(w, report.Summary())
	if len(report.Unresolved) > 0 {
		fmt.Fprintf(w, "\nMissing (%d):\n", len(report.Unresolved))
		for _, u := range report.Unresolved {
			fmt.Fprintf(w, "  - %s\n", u.Line())
		}
	}
	if len(report.Broken) > 0 {
		fmt.Fprintf(w, "\nBroken (%d):\n", len(report.Broken))
		for _, b := range report.Broken {
			fmt.Fprintf(w, "  - %s [%s] %s\n", b.Name, b.Source, b.URL)
		}
	}
}

func recordRun(ctx context.Context, cfg *config.Config, logger *zap.Logger, report *coverage.Report) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	pool, err := db.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	id, err := store.New(pool).PutRun(ctx, report)
	if err != nil {
		return err
	}
	logger.Info("coverage run recorded", zap.String("run_id", id))
	return nil
}
