package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/albapepper/topina-data/internal/config"
	"github.com/albapepper/topina-data/internal/playermap"
	"github.com/albapepper/topina-data/internal/sleeper"
	"github.com/albapepper/topina-data/internal/sourcemap"
	"github.com/albapepper/topina-data/internal/teams"
)

// defaultVerifyTargets are checked when verify gets no names.
var defaultVerifyTargets = []string{
	"Tom Brady", "Julio Jones", "Rob Gronkowski",
	"Todd Gurley", "Drake Maye", "Caleb Williams",
	"Puka Nacua", "A.J. Brown",
}

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Write the bulk-only map imported from the Sleeper roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
				bulk, err := sleeper.ImportFile(cfg.Paths.Roster, cfg.Sleeper.XRefField)
				if err != nil {
					return err
				}
				if err := playermap.WriteFile(cfg.Paths.GeneratedMap, playermap.Merge(bulk, nil)); err != nil {
					return err
				}
				logger.Info("generated map written",
					zap.String("path", cfg.Paths.GeneratedMap), zap.Int("players", len(bulk)))
				return nil
			})
		},
	}
}

func mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Merge the roster import with manual overrides into the canonical map",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
				m, err := buildMap(cfg, logger)
				if err != nil {
					return err
				}
				if err := playermap.WriteFile(cfg.Paths.PlayerMap, m); err != nil {
					return err
				}
				logger.Info("canonical map written",
					zap.String("path", cfg.Paths.PlayerMap),
					zap.Int("bulk", len(m.Bulk())),
					zap.Int("manual", len(m.Manual())),
					zap.Int("total", m.Len()))
				return nil
			})
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [names...]",
		Short: "Report whether names are in the written canonical map",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := args
			if len(targets) == 0 {
				targets = defaultVerifyTargets
			}
			return runTask(func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
				res, err := sourcemap.Load(cfg.Paths.PlayerMap, playermap.Keyword)
				if err != nil {
					return err
				}
				logWarnings(logger, res)
				m := playermap.Merge(nil, playermap.FromPairs(res.Pairs))

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Total mapped players: %d\n", m.Len())
				for _, name := range targets {
					if ref, _, ok := m.Lookup(name); ok {
						fmt.Fprintf(out, "[OK] %s -> %s\n", name, ref.Value)
					} else {
						fmt.Fprintf(out, "[MISSING] %s (will use search)\n", name)
					}
				}
				return nil
			})
		},
	}
}

func splitLegacyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split-legacy <file>",
		Short: "Split a combined legacy map file into override and team table stores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
				return splitLegacy(args[0], cfg.Paths, logger)
			})
		},
	}
}

// splitLegacy writes each block of a combined file to its own store. Absent
// blocks are logged and their store is left untouched.
func splitLegacy(path string, paths config.PathsConfig, logger *zap.Logger) error {
	players, err := sourcemap.Load(path, playermap.Keyword)
	if err != nil {
		return err
	}
	logWarnings(logger, players)
	if players.Found() {
		if err := playermap.WriteOverridesFile(paths.Overrides, playermap.FromPairs(players.Pairs)); err != nil {
			return err
		}
		logger.Info("overrides written", zap.String("path", paths.Overrides), zap.Int("entries", len(players.Pairs)))
	}

	tables := []struct {
		keyword string
		out     string
	}{
		{teams.AbbrKeyword, paths.TeamAbbr},
		{teams.IDsKeyword, paths.TeamIDs},
	}
	for _, tbl := range tables {
		res, err := sourcemap.Load(path, tbl.keyword)
		if err != nil {
			return err
		}
		logWarnings(logger, res)
		if !res.Found() {
			continue
		}
		if err := teams.SaveTable(tbl.out, teams.FromPairs(res.Pairs)); err != nil {
			return err
		}
		logger.Info("team table written", zap.String("keyword", tbl.keyword),
			zap.String("path", tbl.out), zap.Int("entries", len(res.Pairs)))
	}
	return nil
}
