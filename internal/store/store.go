// Package store defines the data-store contract the import and standings
// code runs against, with a Postgres implementation for production and an
// in-memory implementation for tests and dry runs. The core never opens
// transactions or holds locks across operations; each check-then-write
// sequence stands alone (concurrent imports against the same event can
// therefore both pass a dedup check; accepted limitation).
package store

import (
	"context"
	"time"

	"github.com/puckboard/puckboard-data/internal/model"
)

// Store is the fixed operation set consumed by the reconciliation flows
// and the standings endpoints. Single-row lookups return (nil, nil) when
// nothing matches.
type Store interface {
	// Teams.
	TeamByExternalID(ctx context.Context, externalID string) (*model.Team, error)
	TeamByNameLike(ctx context.Context, fragment string) (*model.Team, error)
	TeamsByIDs(ctx context.Context, ids []string) (map[string]model.Team, error)
	InsertTeam(ctx context.Context, t model.Team) (string, error)

	// Events.
	EventByID(ctx context.Context, id string) (*model.Event, error)
	EventByTypeOverlap(ctx context.Context, typ model.EventType, start, end time.Time) (*model.Event, error)
	EventByName(ctx context.Context, name string) (*model.Event, error)
	InsertEvent(ctx context.Context, e model.Event) (string, error)

	// Games. Pair lookups treat the team pair as unordered and match any
	// start time on the given calendar day.
	GameByEventAndNumber(ctx context.Context, eventID, gameNumber string) (*model.Game, error)
	GameByEventPairOnDay(ctx context.Context, eventID, teamA, teamB string, day time.Time) (*model.Game, error)
	GameByPairOnDay(ctx context.Context, teamA, teamB string, day time.Time) (*model.Game, error)
	GamesByEvent(ctx context.Context, eventID string) ([]model.Game, error)
	InsertGame(ctx context.Context, g model.Game) (string, error)

	// Standings snapshots and per-event ranking configuration.
	UpsertStandingsRow(ctx context.Context, row model.StandingsSnapshotRow) error
	StandingsByEvent(ctx context.Context, eventID string) ([]model.StandingsSnapshotRow, error)
	TiebreakerRules(ctx context.Context, eventID string) ([]model.TiebreakerRule, error)

	// Pools.
	PoolsByEvent(ctx context.Context, eventID string) ([]model.Pool, error)
	PoolTeams(ctx context.Context, poolID string) ([]model.Team, error)
}

// DayRange returns the [start, end) bounds of the calendar day containing t.
func DayRange(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
