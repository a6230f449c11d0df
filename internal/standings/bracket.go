package standings

import (
	"regexp"
	"strings"

	"github.com/puckboard/puckboard-data/internal/model"
)

var placeholderRe = regexp.MustCompile(`(?i)^(1st|2nd|3rd|4th)\s+(.+)$`)

var ordinalRank = map[string]int{"1st": 0, "2nd": 1, "3rd": 2, "4th": 3}

// ResolvePlaceholders fills a bracket game's missing team ids from pool
// results: a side carrying a placeholder like "1st Pool A" resolves to
// the team currently ranked first in that pool's standings. poolStandings
// is keyed by pool display name ("Pool A"). Sides that cannot be resolved
// (unknown pool, rank beyond the pool size) are left untouched.
func ResolvePlaceholders(g model.Game, poolStandings map[string][]TeamStanding) model.Game {
	if g.HomeTeamID == nil && g.HomePlaceholder != nil {
		if id, ok := lookupPlaceholder(*g.HomePlaceholder, poolStandings); ok {
			g.HomeTeamID = &id
		}
	}
	if g.AwayTeamID == nil && g.AwayPlaceholder != nil {
		if id, ok := lookupPlaceholder(*g.AwayPlaceholder, poolStandings); ok {
			g.AwayTeamID = &id
		}
	}
	return g
}

func lookupPlaceholder(placeholder string, poolStandings map[string][]TeamStanding) (string, bool) {
	m := placeholderRe.FindStringSubmatch(placeholder)
	if m == nil {
		return "", false
	}
	rank, ok := ordinalRank[strings.ToLower(m[1])]
	if !ok {
		return "", false
	}
	pool, ok := poolStandings[m[2]]
	if !ok || rank >= len(pool) {
		return "", false
	}
	return pool[rank].TeamID, true
}
