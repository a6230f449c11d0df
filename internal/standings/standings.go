// Package standings computes ranked per-team records from a set of games
// under a configurable tiebreaker chain, point structure, and per-game
// goal-differential cap. The ranking is deterministic: identical input
// always yields identical order, including among tied teams.
package standings

import (
	"sort"

	"github.com/puckboard/puckboard-data/internal/model"
)

// TeamRef identifies one team participating in the standings.
type TeamRef struct {
	ID   string `json:"team_id"`
	Name string `json:"team_name"`
}

// TeamStanding is one ranked row of computed standings.
type TeamStanding struct {
	TeamID         string `json:"team_id"`
	TeamName       string `json:"team_name"`
	GamesPlayed    int    `json:"gp"`
	Wins           int    `json:"w"`
	Losses         int    `json:"l"`
	Ties           int    `json:"t"`
	OvertimeLosses int    `json:"otl"`
	ShootoutLosses int    `json:"sol"`
	Points         int    `json:"pts"`
	GoalsFor       int    `json:"gf"`
	GoalsAgainst   int    `json:"ga"`
	GoalDiff       int    `json:"gd"`
}

// Compute aggregates completed games into per-team records and ranks
// them. Every team in teams appears in the output, zeroed if it played
// nothing. Each game's goal-differential contribution is clamped to
// ±goalDiffCap before summing, so one blowout cannot dominate
// differential tiebreaks; goals for/against stay unclamped.
func Compute(
	teams []TeamRef,
	games []model.Game,
	rules []model.TiebreakerRule,
	pts model.PointStructure,
	goalDiffCap int,
) []TeamStanding {
	byID := make(map[string]*TeamStanding, len(teams))
	for _, t := range teams {
		byID[t.ID] = &TeamStanding{TeamID: t.ID, TeamName: t.Name}
	}

	for i := range games {
		g := &games[i]
		if !g.Completed() || !g.HasTeams() {
			continue
		}
		creditSide(byID, g, *g.HomeTeamID, *g.HomeScore, *g.AwayScore, goalDiffCap)
		creditSide(byID, g, *g.AwayTeamID, *g.AwayScore, *g.HomeScore, goalDiffCap)
	}

	out := make([]TeamStanding, 0, len(teams))
	for _, t := range teams {
		s := byID[t.ID]
		s.Points = s.Wins*pts.Win + s.Ties*pts.Tie + s.Losses*pts.Loss
		out = append(out, *s)
	}

	rank(out, games, rules, pts)
	return out
}

func creditSide(byID map[string]*TeamStanding, g *model.Game, teamID string, myScore, oppScore, diffCap int) {
	s, ok := byID[teamID]
	if !ok {
		return
	}
	s.GamesPlayed++
	s.GoalsFor += myScore
	s.GoalsAgainst += oppScore
	s.GoalDiff += clamp(myScore-oppScore, diffCap)

	switch {
	case myScore > oppScore:
		s.Wins++
	case myScore < oppScore:
		s.Losses++
		switch g.ResultType {
		case model.ResultOvertime:
			s.OvertimeLosses++
		case model.ResultShootout:
			s.ShootoutLosses++
		}
	default:
		s.Ties++
	}
}

func clamp(d, diffCap int) int {
	if d > diffCap {
		return diffCap
	}
	if d < -diffCap {
		return -diffCap
	}
	return d
}

// rank orders standings by points descending, then resolves equal-points
// groups through the tiebreaker chain. Tie resolution is
// recursive-by-subgroup: each rule only reorders teams still tied after
// all higher-priority rules, and a remaining tie falls through to the
// next rule within that narrower subgroup. Exhausting the chain falls
// back to alphabetical team-name order.
func rank(standings []TeamStanding, games []model.Game, rules []model.TiebreakerRule, pts model.PointStructure) {
	ordered := make([]model.TiebreakerRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	// Alphabetical base order makes the result independent of input order.
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].TeamName < standings[j].TeamName
	})
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points > standings[j].Points
	})

	forEachGroup(standings, func(a, b TeamStanding) bool {
		return a.Points == b.Points
	}, func(group []TeamStanding) {
		breakTies(group, ordered, 0, games, pts)
	})
}

// breakTies reorders one tied subgroup using rules[idx:]; subgroups still
// tied under rules[idx] recurse with the next rule.
func breakTies(group []TeamStanding, rules []model.TiebreakerRule, idx int, games []model.Game, pts model.PointStructure) {
	if len(group) <= 1 {
		return
	}
	if idx >= len(rules) {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].TeamName < group[j].TeamName
		})
		return
	}

	keys := ruleKeys(group, rules[idx].Type, games, pts)
	sort.SliceStable(group, func(i, j int) bool {
		return keys[group[i].TeamID] > keys[group[j].TeamID]
	})

	forEachGroup(group, func(a, b TeamStanding) bool {
		return keys[a.TeamID] == keys[b.TeamID]
	}, func(sub []TeamStanding) {
		breakTies(sub, rules, idx+1, games, pts)
	})
}

// ruleKeys computes a descending sort key per team for one rule. The
// head-to-head rule only inspects games played between the tied teams
// themselves; the aggregate rules read the already-computed records.
func ruleKeys(group []TeamStanding, rule model.TiebreakerType, games []model.Game, pts model.PointStructure) map[string]int {
	keys := make(map[string]int, len(group))
	switch rule {
	case model.TiebreakHeadToHead:
		tied := make(map[string]bool, len(group))
		for _, s := range group {
			tied[s.TeamID] = true
			keys[s.TeamID] = 0
		}
		for i := range games {
			g := &games[i]
			if !g.Completed() || !g.HasTeams() || !tied[*g.HomeTeamID] || !tied[*g.AwayTeamID] {
				continue
			}
			switch {
			case *g.HomeScore > *g.AwayScore:
				keys[*g.HomeTeamID] += pts.Win
				keys[*g.AwayTeamID] += pts.Loss
			case *g.HomeScore < *g.AwayScore:
				keys[*g.AwayTeamID] += pts.Win
				keys[*g.HomeTeamID] += pts.Loss
			default:
				keys[*g.HomeTeamID] += pts.Tie
				keys[*g.AwayTeamID] += pts.Tie
			}
		}
	case model.TiebreakGoalDifferential:
		for _, s := range group {
			keys[s.TeamID] = s.GoalDiff
		}
	case model.TiebreakGoalsFor:
		for _, s := range group {
			keys[s.TeamID] = s.GoalsFor
		}
	case model.TiebreakFewestGoalsAgainst:
		for _, s := range group {
			keys[s.TeamID] = -s.GoalsAgainst
		}
	default:
		for _, s := range group {
			keys[s.TeamID] = 0
		}
	}
	return keys
}

// forEachGroup walks maximal runs of adjacent equal elements and hands
// each run of length > 1 to fn as a reorderable sub-slice.
func forEachGroup(s []TeamStanding, equal func(a, b TeamStanding) bool, fn func(group []TeamStanding)) {
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || !equal(s[start], s[i]) {
			if i-start > 1 {
				fn(s[start:i])
			}
			start = i
		}
	}
}
