package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/puckboard/puckboard-data/internal/db"
	"github.com/puckboard/puckboard-data/internal/model"
)

// Postgres implements Store against a pgx pool whose connections carry
// the prepared statements registered by the db package.
type Postgres struct {
	pool *db.Pool
}

// NewPostgres wraps an initialized pool.
func NewPostgres(pool *db.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) TeamByExternalID(ctx context.Context, externalID string) (*model.Team, error) {
	return s.teamRow(ctx, "team_by_external_id", externalID)
}

func (s *Postgres) TeamByNameLike(ctx context.Context, fragment string) (*model.Team, error) {
	return s.teamRow(ctx, "team_by_name_like", fragment)
}

func (s *Postgres) teamRow(ctx context.Context, stmt string, args ...any) (*model.Team, error) {
	t, err := scanTeam(s.pool.QueryRow(ctx, stmt, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stmt, err)
	}
	return t, nil
}

func (s *Postgres) TeamsByIDs(ctx context.Context, ids []string) (map[string]model.Team, error) {
	rows, err := s.pool.Query(ctx, "teams_by_ids", ids)
	if err != nil {
		return nil, fmt.Errorf("teams_by_ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.Team, len(ids))
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("teams_by_ids scan: %w", err)
		}
		out[t.ID] = *t
	}
	return out, rows.Err()
}

func (s *Postgres) InsertTeam(ctx context.Context, t model.Team) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, "insert_team",
		t.ID, t.Name, t.ExternalID,
		nullable(t.Level), nullable(t.SkillLevel), nullable(t.Division),
		nullable(t.ShortLocation), nullable(t.ShortName))
	if err != nil {
		return "", fmt.Errorf("insert_team: %w", err)
	}
	return t.ID, nil
}

func (s *Postgres) EventByID(ctx context.Context, id string) (*model.Event, error) {
	return s.eventRow(ctx, "event_by_id", id)
}

func (s *Postgres) EventByName(ctx context.Context, name string) (*model.Event, error) {
	return s.eventRow(ctx, "event_by_name", name)
}

func (s *Postgres) EventByTypeOverlap(ctx context.Context, typ model.EventType, start, end time.Time) (*model.Event, error) {
	return s.eventRow(ctx, "event_by_type_overlap", string(typ), start, end)
}

func (s *Postgres) eventRow(ctx context.Context, stmt string, args ...any) (*model.Event, error) {
	e, err := scanEvent(s.pool.QueryRow(ctx, stmt, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stmt, err)
	}
	return e, nil
}

func (s *Postgres) InsertEvent(ctx context.Context, e model.Event) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, "insert_event",
		e.ID, e.Name, string(e.Type), e.StartDate, e.EndDate, e.Location,
		nullable(e.Level), nullable(e.SkillLevel),
		e.Points.Win, e.Points.Tie, e.Points.Loss, e.GoalDiffCap,
		e.TotalTeams, e.QualifyingCount)
	if err != nil {
		return "", fmt.Errorf("insert_event: %w", err)
	}
	return e.ID, nil
}

func (s *Postgres) GameByEventAndNumber(ctx context.Context, eventID, gameNumber string) (*model.Game, error) {
	return s.gameRow(ctx, "game_by_event_number", eventID, gameNumber)
}

func (s *Postgres) GameByEventPairOnDay(ctx context.Context, eventID, teamA, teamB string, day time.Time) (*model.Game, error) {
	start, end := DayRange(day)
	return s.gameRow(ctx, "game_by_event_pair_day", eventID, teamA, teamB, start, end)
}

func (s *Postgres) GameByPairOnDay(ctx context.Context, teamA, teamB string, day time.Time) (*model.Game, error) {
	start, end := DayRange(day)
	return s.gameRow(ctx, "game_by_pair_day", teamA, teamB, start, end)
}

func (s *Postgres) gameRow(ctx context.Context, stmt string, args ...any) (*model.Game, error) {
	g, err := scanGame(s.pool.QueryRow(ctx, stmt, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stmt, err)
	}
	return g, nil
}

func (s *Postgres) GamesByEvent(ctx context.Context, eventID string) ([]model.Game, error) {
	rows, err := s.pool.Query(ctx, "games_by_event", eventID)
	if err != nil {
		return nil, fmt.Errorf("games_by_event: %w", err)
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("games_by_event scan: %w", err)
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (s *Postgres) InsertGame(ctx context.Context, g model.Game) (string, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	var resultType *string
	if g.ResultType != "" {
		rt := string(g.ResultType)
		resultType = &rt
	}
	_, err := s.pool.Exec(ctx, "insert_game",
		g.ID, g.EventID, g.PoolID, string(g.Stage), g.StartTime, g.Venue,
		g.HomeTeamID, g.AwayTeamID, g.HomePlaceholder, g.AwayPlaceholder,
		g.HomeScore, g.AwayScore, string(g.Status), resultType, g.GameNumber)
	if err != nil {
		return "", fmt.Errorf("insert_game: %w", err)
	}
	return g.ID, nil
}

func (s *Postgres) UpsertStandingsRow(ctx context.Context, row model.StandingsSnapshotRow) error {
	_, err := s.pool.Exec(ctx, "upsert_standings_row",
		row.EventID, row.TeamID, row.GamesPlayed, row.Wins, row.Losses, row.Ties,
		row.OvertimeLosses, row.ShootoutLosses, row.Points,
		row.GoalsFor, row.GoalsAgainst, row.GoalDiff,
		row.PenaltyMinutes, row.WinPct)
	if err != nil {
		return fmt.Errorf("upsert_standings_row: %w", err)
	}
	return nil
}

func (s *Postgres) StandingsByEvent(ctx context.Context, eventID string) ([]model.StandingsSnapshotRow, error) {
	rows, err := s.pool.Query(ctx, "standings_by_event", eventID)
	if err != nil {
		return nil, fmt.Errorf("standings_by_event: %w", err)
	}
	defer rows.Close()

	var out []model.StandingsSnapshotRow
	for rows.Next() {
		var r model.StandingsSnapshotRow
		if err := rows.Scan(&r.EventID, &r.TeamID, &r.GamesPlayed, &r.Wins, &r.Losses, &r.Ties,
			&r.OvertimeLosses, &r.ShootoutLosses, &r.Points,
			&r.GoalsFor, &r.GoalsAgainst, &r.GoalDiff,
			&r.PenaltyMinutes, &r.WinPct); err != nil {
			return nil, fmt.Errorf("standings_by_event scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Postgres) TiebreakerRules(ctx context.Context, eventID string) ([]model.TiebreakerRule, error) {
	rows, err := s.pool.Query(ctx, "tiebreaker_rules", eventID)
	if err != nil {
		return nil, fmt.Errorf("tiebreaker_rules: %w", err)
	}
	defer rows.Close()

	var out []model.TiebreakerRule
	for rows.Next() {
		var r model.TiebreakerRule
		var ruleType string
		if err := rows.Scan(&r.EventID, &ruleType, &r.Priority); err != nil {
			return nil, fmt.Errorf("tiebreaker_rules scan: %w", err)
		}
		r.Type = model.TiebreakerType(ruleType)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Postgres) PoolsByEvent(ctx context.Context, eventID string) ([]model.Pool, error) {
	rows, err := s.pool.Query(ctx, "pools_by_event", eventID)
	if err != nil {
		return nil, fmt.Errorf("pools_by_event: %w", err)
	}
	defer rows.Close()

	var out []model.Pool
	for rows.Next() {
		var p model.Pool
		if err := rows.Scan(&p.ID, &p.EventID, &p.Name, &p.AdvancementCount); err != nil {
			return nil, fmt.Errorf("pools_by_event scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Postgres) PoolTeams(ctx context.Context, poolID string) ([]model.Team, error) {
	rows, err := s.pool.Query(ctx, "pool_teams", poolID)
	if err != nil {
		return nil, fmt.Errorf("pool_teams: %w", err)
	}
	defer rows.Close()

	var out []model.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("pool_teams scan: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanTeam(row pgx.Row) (*model.Team, error) {
	var t model.Team
	var level, skill, division, shortLoc, shortName *string
	if err := row.Scan(&t.ID, &t.Name, &t.ExternalID, &level, &skill, &division, &shortLoc, &shortName); err != nil {
		return nil, err
	}
	t.Level = deref(level)
	t.SkillLevel = deref(skill)
	t.Division = deref(division)
	t.ShortLocation = deref(shortLoc)
	t.ShortName = deref(shortName)
	return &t, nil
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	var typ string
	var level, skill *string
	if err := row.Scan(&e.ID, &e.Name, &typ, &e.StartDate, &e.EndDate, &e.Location,
		&level, &skill,
		&e.Points.Win, &e.Points.Tie, &e.Points.Loss, &e.GoalDiffCap,
		&e.TotalTeams, &e.QualifyingCount); err != nil {
		return nil, err
	}
	e.Type = model.EventType(typ)
	e.Level = deref(level)
	e.SkillLevel = deref(skill)
	return &e, nil
}

func scanGame(row pgx.Row) (*model.Game, error) {
	var g model.Game
	var stage, status string
	var resultType *string
	if err := row.Scan(&g.ID, &g.EventID, &g.PoolID, &stage, &g.StartTime, &g.Venue,
		&g.HomeTeamID, &g.AwayTeamID, &g.HomePlaceholder, &g.AwayPlaceholder,
		&g.HomeScore, &g.AwayScore, &status, &resultType, &g.GameNumber); err != nil {
		return nil, err
	}
	g.Stage = model.Stage(stage)
	g.Status = model.GameStatus(status)
	if resultType != nil {
		g.ResultType = model.ResultType(*resultType)
	}
	return &g, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
