// Package db provides a pgxpool-based connection pool with prepared
// statement registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/puckboard/puckboard-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

const (
	teamColumns  = "id, name, external_id, level, skill_level, division, short_location, short_name"
	eventColumns = "id, name, event_type, start_date, end_date, location, level, skill_level, win_points, tie_points, loss_points, goal_differential_cap, total_teams, qualifying_count"
	gameColumns  = "id, event_id, pool_id, stage, start_datetime, venue, home_team_id, away_team_id, home_placeholder, away_placeholder, final_score_home, final_score_away, status, result_type, game_number"
)

// registerPreparedStatements registers every statement the import and
// standings layers use. Prepared statements eliminate parse overhead on
// the hot per-record dedup lookups.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Teams
		"team_by_external_id": "SELECT " + teamColumns + " FROM teams WHERE external_id = $1 LIMIT 1",
		"team_by_name_like":   "SELECT " + teamColumns + " FROM teams WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT 1",
		"teams_by_ids":        "SELECT " + teamColumns + " FROM teams WHERE id = ANY($1)",
		"insert_team": `INSERT INTO teams (id, name, external_id, level, skill_level, division, short_location, short_name)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,

		// Events
		"event_by_id":   "SELECT " + eventColumns + " FROM events WHERE id = $1",
		"event_by_name": "SELECT " + eventColumns + " FROM events WHERE name = $1 LIMIT 1",
		"event_by_type_overlap": "SELECT " + eventColumns + ` FROM events
			WHERE event_type = $1 AND start_date <= $3 AND end_date >= $2
			ORDER BY start_date LIMIT 1`,
		"insert_event": `INSERT INTO events (id, name, event_type, start_date, end_date, location, level, skill_level,
			win_points, tie_points, loss_points, goal_differential_cap, total_teams, qualifying_count)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,

		// Games
		"game_by_event_number": "SELECT " + gameColumns + " FROM games WHERE event_id = $1 AND game_number = $2 LIMIT 1",
		"game_by_event_pair_day": "SELECT " + gameColumns + ` FROM games
			WHERE event_id = $1
			  AND ((home_team_id = $2 AND away_team_id = $3) OR (home_team_id = $3 AND away_team_id = $2))
			  AND start_datetime >= $4 AND start_datetime < $5
			LIMIT 1`,
		"game_by_pair_day": "SELECT " + gameColumns + ` FROM games
			WHERE ((home_team_id = $1 AND away_team_id = $2) OR (home_team_id = $2 AND away_team_id = $1))
			  AND start_datetime >= $3 AND start_datetime < $4
			LIMIT 1`,
		"games_by_event": "SELECT " + gameColumns + " FROM games WHERE event_id = $1 ORDER BY start_datetime",
		"insert_game": `INSERT INTO games (id, event_id, pool_id, stage, start_datetime, venue,
			home_team_id, away_team_id, home_placeholder, away_placeholder,
			final_score_home, final_score_away, status, result_type, game_number)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,

		// Standings snapshots
		"upsert_standings_row": `INSERT INTO season_standings
			(event_id, team_id, gp, w, l, t, otl, sol, pts, gf, ga, gd, pim, pct)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			ON CONFLICT (event_id, team_id) DO UPDATE SET
				gp = EXCLUDED.gp, w = EXCLUDED.w, l = EXCLUDED.l, t = EXCLUDED.t,
				otl = EXCLUDED.otl, sol = EXCLUDED.sol, pts = EXCLUDED.pts,
				gf = EXCLUDED.gf, ga = EXCLUDED.ga, gd = EXCLUDED.gd,
				pim = EXCLUDED.pim, pct = EXCLUDED.pct, updated_at = NOW()`,
		"standings_by_event": `SELECT event_id, team_id, gp, w, l, t, otl, sol, pts, gf, ga, gd, pim, pct
			FROM season_standings WHERE event_id = $1 ORDER BY team_id`,

		// Tiebreaker rules
		"tiebreaker_rules": `SELECT event_id, rule_type, priority_order
			FROM tiebreaker_rules WHERE event_id = $1 ORDER BY priority_order`,

		// Pools
		"pools_by_event": "SELECT id, event_id, name, advancement_count FROM pools WHERE event_id = $1 ORDER BY name",
		"pool_teams": "SELECT " + teamColumns + ` FROM teams t
			JOIN pool_teams pt ON pt.team_id = t.id WHERE pt.pool_id = $1 ORDER BY t.name`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
