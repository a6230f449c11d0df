package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/puckboard/puckboard-data/internal/model"
)

// Memory is an in-memory Store used by tests and by the CLI's dry-run
// analyze mode. Safe for concurrent use, though the import flows
// themselves are sequential.
type Memory struct {
	mu        sync.RWMutex
	teams     map[string]model.Team
	events    map[string]model.Event
	games     map[string]model.Game
	standings map[string]model.StandingsSnapshotRow // key eventID + "/" + teamID
	rules     map[string][]model.TiebreakerRule     // key eventID
	pools     map[string]model.Pool
	poolTeams map[string][]string // poolID -> team ids
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		teams:     make(map[string]model.Team),
		events:    make(map[string]model.Event),
		games:     make(map[string]model.Game),
		standings: make(map[string]model.StandingsSnapshotRow),
		rules:     make(map[string][]model.TiebreakerRule),
		pools:     make(map[string]model.Pool),
		poolTeams: make(map[string][]string),
	}
}

func (m *Memory) TeamByExternalID(_ context.Context, externalID string) (*model.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.sortedTeams() {
		if t.ExternalID != nil && *t.ExternalID == externalID {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (m *Memory) TeamByNameLike(_ context.Context, fragment string) (*model.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(fragment)
	for _, t := range m.sortedTeams() {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (m *Memory) TeamsByIDs(_ context.Context, ids []string) (map[string]model.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]model.Team, len(ids))
	for _, id := range ids {
		if t, ok := m.teams[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (m *Memory) InsertTeam(_ context.Context, t model.Team) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.teams[t.ID] = t
	return t.ID, nil
}

func (m *Memory) EventByID(_ context.Context, id string) (*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.events[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (m *Memory) EventByTypeOverlap(_ context.Context, typ model.EventType, start, end time.Time) (*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.sortedEvents() {
		if e.Type != typ || e.StartDate == nil || e.EndDate == nil {
			continue
		}
		if !e.StartDate.After(end) && !e.EndDate.Before(start) {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (m *Memory) EventByName(_ context.Context, name string) (*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.sortedEvents() {
		if e.Name == name {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (m *Memory) InsertEvent(_ context.Context, e model.Event) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.events[e.ID] = e
	return e.ID, nil
}

func (m *Memory) GameByEventAndNumber(_ context.Context, eventID, gameNumber string) (*model.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.games {
		if g.EventID != nil && *g.EventID == eventID &&
			g.GameNumber != nil && *g.GameNumber == gameNumber {
			g := g
			return &g, nil
		}
	}
	return nil, nil
}

func (m *Memory) GameByEventPairOnDay(_ context.Context, eventID, teamA, teamB string, day time.Time) (*model.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	start, end := DayRange(day)
	for _, g := range m.games {
		if g.EventID != nil && *g.EventID == eventID &&
			g.SamePair(teamA, teamB) && inRange(g.StartTime, start, end) {
			g := g
			return &g, nil
		}
	}
	return nil, nil
}

func (m *Memory) GameByPairOnDay(_ context.Context, teamA, teamB string, day time.Time) (*model.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	start, end := DayRange(day)
	for _, g := range m.games {
		if g.SamePair(teamA, teamB) && inRange(g.StartTime, start, end) {
			g := g
			return &g, nil
		}
	}
	return nil, nil
}

func (m *Memory) GamesByEvent(_ context.Context, eventID string) ([]model.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Game
	for _, g := range m.games {
		if g.EventID != nil && *g.EventID == eventID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *Memory) InsertGame(_ context.Context, g model.Game) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	m.games[g.ID] = g
	return g.ID, nil
}

func (m *Memory) UpsertStandingsRow(_ context.Context, row model.StandingsSnapshotRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standings[row.EventID+"/"+row.TeamID] = row
	return nil
}

func (m *Memory) StandingsByEvent(_ context.Context, eventID string) ([]model.StandingsSnapshotRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.StandingsSnapshotRow
	for _, row := range m.standings {
		if row.EventID == eventID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (m *Memory) TiebreakerRules(_ context.Context, eventID string) ([]model.TiebreakerRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rules := append([]model.TiebreakerRule(nil), m.rules[eventID]...)
	sort.Slice(rules, func(i, j int) bool { return rules[i].Priority < rules[j].Priority })
	return rules, nil
}

// SetTiebreakerRules seeds an event's rule chain (test/setup helper).
func (m *Memory) SetTiebreakerRules(eventID string, rules []model.TiebreakerRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[eventID] = append([]model.TiebreakerRule(nil), rules...)
}

func (m *Memory) PoolsByEvent(_ context.Context, eventID string) ([]model.Pool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Pool
	for _, p := range m.pools {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) PoolTeams(_ context.Context, poolID string) ([]model.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Team
	for _, id := range m.poolTeams[poolID] {
		if t, ok := m.teams[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// AddPool seeds a pool and its member teams (test/setup helper).
func (m *Memory) AddPool(p model.Pool, teamIDs []string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.pools[p.ID] = p
	m.poolTeams[p.ID] = append([]string(nil), teamIDs...)
	return p.ID
}

// sortedTeams returns teams in a stable order so "first match" lookups
// are deterministic across runs (map iteration order is not).
func (m *Memory) sortedTeams() []model.Team {
	out := make([]model.Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *Memory) sortedEvents() []model.Event {
	out := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
