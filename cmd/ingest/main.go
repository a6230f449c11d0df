// Command ingest is the Puckboard data ingestion CLI.
//
// Usage:
//
//	puckboard-ingest import games --event <id> --file scores.txt
//	puckboard-ingest import standings --event <id> --file standings.txt
//	puckboard-ingest import schedule --team <id> --file schedule.txt --apply
//	puckboard-ingest standings --event <id>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/puckboard/puckboard-data/internal/config"
	"github.com/puckboard/puckboard-data/internal/db"
	"github.com/puckboard/puckboard-data/internal/model"
	"github.com/puckboard/puckboard-data/internal/reconcile"
	"github.com/puckboard/puckboard-data/internal/record"
	"github.com/puckboard/puckboard-data/internal/standings"
	"github.com/puckboard/puckboard-data/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "puckboard-ingest",
		Short: "Puckboard schedule and standings ingestion CLI",
	}

	root.AddCommand(importCmd())
	root.AddCommand(standingsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// import command
// --------------------------------------------------------------------------

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import pasted schedule, score, or standings text",
	}
	cmd.AddCommand(importGamesCmd())
	cmd.AddCommand(importStandingsCmd())
	cmd.AddCommand(importScheduleCmd())
	return cmd
}

func importGamesCmd() *cobra.Command {
	var eventID, file, stage string
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Import a tab-separated score table into an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				rows := record.ParseGameRows(string(raw))
				logger.Info("Parsed score table", "rows", len(rows))

				start := time.Now()
				res, err := newReconciler(cfg, st).ImportGames(ctx, eventID, rows, model.Stage(stage))
				if err != nil {
					return err
				}
				logger.Info("Import finished",
					"duration", time.Since(start).Round(time.Millisecond), "summary", res.Summary())
				for _, n := range res.SkipNotes {
					logger.Info("skipped", "reason", n)
				}
				for _, m := range res.Mismatches {
					logger.Warn("snapshot mismatch", "detail", m)
				}
				for _, e := range res.Errors {
					logger.Error("import error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&eventID, "event", "", "Event ID (required)")
	cmd.Flags().StringVar(&file, "file", "", "Path to pasted score-table text (required)")
	cmd.Flags().StringVar(&stage, "stage", "", "Game stage (default regular_season)")
	cmd.MarkFlagRequired("event")
	cmd.MarkFlagRequired("file")
	return cmd
}

func importStandingsCmd() *cobra.Command {
	var eventID, file string
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Import a tab-separated standings table as an event snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				rows := record.ParseStandingsRows(string(raw))
				logger.Info("Parsed standings table", "rows", len(rows))

				res, err := newReconciler(cfg, st).ImportStandings(ctx, eventID, rows)
				if err != nil {
					return err
				}
				logger.Info("Standings imported",
					"rows", res.Rows, "created", res.Created, "matched", res.Matched)
				for _, e := range res.Errors {
					logger.Error("import error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&eventID, "event", "", "Event ID (required)")
	cmd.Flags().StringVar(&file, "file", "", "Path to pasted standings text (required)")
	cmd.MarkFlagRequired("event")
	cmd.MarkFlagRequired("file")
	return cmd
}

func importScheduleCmd() *cobra.Command {
	var (
		teamID, file, regularSeason string
		seasonStart                 int
		apply                       bool
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Reconcile a free-text team schedule (analyze by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				year := seasonStart
				if year == 0 {
					year = defaultSeasonStartYear()
				}
				entries := record.ParseSchedule(string(raw), year)
				logger.Info("Parsed schedule", "entries", len(entries), "season_start", year)

				report, err := newReconciler(cfg, st).ReconcileSchedule(ctx, reconcile.ScheduleInput{
					TeamID:               teamID,
					Entries:              entries,
					RegularSeasonEventID: regularSeason,
					DoImport:             apply,
				})
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	}
	cmd.Flags().StringVar(&teamID, "team", "", "Tracked team ID (required)")
	cmd.Flags().StringVar(&file, "file", "", "Path to pasted schedule text (required)")
	cmd.Flags().StringVar(&regularSeason, "regular-season", "", "Regular-season event ID for league entries")
	cmd.Flags().IntVar(&seasonStart, "season-start", 0, "Season start year (default inferred from today)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Write games and events; omit to analyze only")
	cmd.MarkFlagRequired("team")
	cmd.MarkFlagRequired("file")
	return cmd
}

// --------------------------------------------------------------------------
// standings command
// --------------------------------------------------------------------------

func standingsCmd() *cobra.Command {
	var eventID string
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Compute and print an event's standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				event, err := st.EventByID(ctx, eventID)
				if err != nil {
					return err
				}
				if event == nil {
					return fmt.Errorf("event %s not found", eventID)
				}

				games, err := st.GamesByEvent(ctx, eventID)
				if err != nil {
					return err
				}
				rules, err := st.TiebreakerRules(ctx, eventID)
				if err != nil {
					return err
				}

				seen := make(map[string]bool)
				var ids []string
				for i := range games {
					for _, side := range []*string{games[i].HomeTeamID, games[i].AwayTeamID} {
						if side != nil && !seen[*side] {
							seen[*side] = true
							ids = append(ids, *side)
						}
					}
				}
				teams, err := st.TeamsByIDs(ctx, ids)
				if err != nil {
					return err
				}
				refs := make([]standings.TeamRef, 0, len(ids))
				for _, id := range ids {
					name := id
					if t, ok := teams[id]; ok {
						name = t.Name
					}
					refs = append(refs, standings.TeamRef{ID: id, Name: name})
				}

				pts := event.Points
				if pts == (model.PointStructure{}) {
					pts = model.DefaultPointStructure()
				}
				diffCap := event.GoalDiffCap
				if diffCap <= 0 {
					diffCap = model.DefaultGoalDiffCap
				}
				return printJSON(standings.Compute(refs, games, rules, pts, diffCap))
			})
		},
	}
	cmd.Flags().StringVar(&eventID, "event", "", "Event ID (required)")
	cmd.MarkFlagRequired("event")
	return cmd
}

// --------------------------------------------------------------------------
// helpers
// --------------------------------------------------------------------------

func runStore(fn func(ctx context.Context, cfg *config.Config, st store.Store) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, store.NewPostgres(pool))
}

func newReconciler(cfg *config.Config, st store.Store) *reconcile.Reconciler {
	return reconcile.New(st, logger, reconcile.Options{
		TeamLevelDefault: cfg.TeamLevelDefault,
		TeamSkillDefault: cfg.TeamSkillDefault,
		HomeVenues:       cfg.HomeVenues,
	})
}

func defaultSeasonStartYear() int {
	now := time.Now()
	if now.Month() >= time.September {
		return now.Year()
	}
	return now.Year() - 1
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
