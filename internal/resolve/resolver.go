// Package resolve maps raw team name strings from import sources onto
// canonical team records, creating teams that cannot be matched.
package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/puckboard/puckboard-data/internal/model"
	"github.com/puckboard/puckboard-data/internal/record"
	"github.com/puckboard/puckboard-data/internal/store"
)

// Resolver resolves team names for the duration of one import session.
// The session cache guarantees a name seen twice in one paste resolves
// to the same team id without re-querying, and that two rows naming the
// same unknown team create it only once.
type Resolver struct {
	store store.Store
	log   *slog.Logger

	level string
	skill string

	// cache is keyed by external id when the source provides one,
	// otherwise by the cleaned name.
	cache   map[string]string
	created map[string]bool
}

// New creates a resolver with the given defaults for created teams.
func New(st store.Store, log *slog.Logger, levelDefault, skillDefault string) *Resolver {
	return &Resolver{
		store:   st,
		log:     log,
		level:   levelDefault,
		skill:   skillDefault,
		cache:   make(map[string]string),
		created: make(map[string]bool),
	}
}

// Created reports whether this session created the given team rather
// than matching an existing one.
func (r *Resolver) Created(teamID string) bool {
	return r.created[teamID]
}

// Resolve matches a raw team name to a team id. Match order: session
// cache, external id, then case-insensitive substring search on the
// cleaned name; an unmatched name creates a new team. The external id,
// when present, wins over any name similarity.
func (r *Resolver) Resolve(ctx context.Context, rawName string, externalID *string) (string, error) {
	cleanName := record.CleanTeamName(rawName)
	if cleanName == "" && externalID == nil {
		return "", fmt.Errorf("empty team name %q", rawName)
	}

	key := cleanName
	if externalID != nil {
		key = *externalID
	}
	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	if externalID != nil {
		t, err := r.store.TeamByExternalID(ctx, *externalID)
		if err != nil {
			return "", fmt.Errorf("lookup by external id %s: %w", *externalID, err)
		}
		if t != nil {
			r.cache[key] = t.ID
			return t.ID, nil
		}
	}

	if search := record.SearchName(cleanName); search != "" {
		t, err := r.store.TeamByNameLike(ctx, search)
		if err != nil {
			return "", fmt.Errorf("lookup by name %q: %w", search, err)
		}
		if t != nil {
			r.cache[key] = t.ID
			return t.ID, nil
		}
	}

	id, err := r.store.InsertTeam(ctx, model.Team{
		Name:       cleanName,
		ExternalID: externalID,
		Level:      r.level,
		SkillLevel: r.skill,
	})
	if err != nil {
		return "", fmt.Errorf("create team %q: %w", cleanName, err)
	}
	r.log.Info("created team", "name", cleanName, "id", id)
	r.cache[key] = id
	r.created[id] = true
	return id, nil
}
