package record

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Expected column counts for the two table shapes. Lines with fewer
// fields are discarded as noise (headers, separators, ads).
const (
	minGameRowFields      = 5
	minStandingsRowFields = 13
)

var (
	gameLengthNoiseRe = regexp.MustCompile(`(?i)Game length:.*$`)
	trailingScoreRe   = regexp.MustCompile(`\((\d+)\)\s*$`)
	digitsRe          = regexp.MustCompile(`^\d+$`)
)

// gameDateLayout matches the league site's export format once periods are
// stripped, e.g. "Wed, Oct 01, 2025 7:45 PM".
const gameDateLayout = "Mon, Jan 2, 2006 3:04 PM"

// ParseGameRows parses a pasted tab-separated score table. Lines that do
// not start with a game number are treated as continuations of the
// previous line (the site wraps long venue names). Unparseable lines are
// dropped.
func ParseGameRows(raw string) []GameRow {
	lines := joinContinuations(raw)
	var rows []GameRow

	for _, line := range lines {
		parts := splitFields(line)
		if len(parts) < minGameRowFields {
			continue
		}

		gameNumber := parts[0]
		if !digitsRe.MatchString(gameNumber) {
			continue
		}

		date, err := parseGameDate(parts[1])
		if err != nil {
			continue
		}

		venue := strings.TrimSpace(gameLengthNoiseRe.ReplaceAllString(parts[2], ""))

		homeRaw, awayRaw := parts[3], parts[4]
		if homeRaw == "" || awayRaw == "" {
			continue
		}

		homeTeam, homeID, homeScore := extractTeamAndScore(homeRaw)
		awayTeam, awayID, awayScore := extractTeamAndScore(awayRaw)

		rows = append(rows, GameRow{
			GameNumber:     gameNumber,
			Date:           date,
			Venue:          venue,
			HomeTeamRaw:    homeTeam,
			HomeExternalID: homeID,
			HomeScore:      homeScore,
			AwayTeamRaw:    awayTeam,
			AwayExternalID: awayID,
			AwayScore:      awayScore,
		})
	}
	return rows
}

// ParseStandingsRows parses a pasted tab-separated standings table
// (GP W L T OTL SOL PTS GF GA DIFF PIM PCT after the team column).
func ParseStandingsRows(raw string) []StandingsRow {
	var rows []StandingsRow
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		parts := splitFields(line)
		if len(parts) < minStandingsRowFields {
			continue
		}
		// Header lines have the right column count; the GP column tells
		// them apart from data rows.
		if !digitsRe.MatchString(parts[1]) {
			continue
		}

		teamRaw := parts[0]
		_, externalID := ExtractExternalID(teamRaw)

		rows = append(rows, StandingsRow{
			TeamRaw:        teamRaw,
			ExternalID:     externalID,
			GamesPlayed:    coerceInt(parts[1]),
			Wins:           coerceInt(parts[2]),
			Losses:         coerceInt(parts[3]),
			Ties:           coerceInt(parts[4]),
			OvertimeLosses: coerceInt(parts[5]),
			ShootoutLosses: coerceInt(parts[6]),
			Points:         coerceInt(parts[7]),
			GoalsFor:       coerceInt(parts[8]),
			GoalsAgainst:   coerceInt(parts[9]),
			GoalDiff:       coerceInt(parts[10]),
			PenaltyMinutes: coerceInt(parts[11]),
			WinPct:         coerceFloat(parts[12]),
		})
	}
	return rows
}

// extractTeamAndScore splits a "Name #id (3)" cell into its parts. The
// score is -1 when the trailing parenthetical is absent (game not played).
func extractTeamAndScore(raw string) (team string, externalID *string, score int) {
	score = -1
	if m := trailingScoreRe.FindStringSubmatch(raw); m != nil {
		score, _ = strconv.Atoi(m[1])
		raw = trailingScoreRe.ReplaceAllString(raw, "")
	}
	team = strings.TrimSpace(raw)
	_, externalID = ExtractExternalID(team)
	return team, externalID, score
}

func parseGameDate(s string) (time.Time, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ".", ""))
	return time.Parse(gameDateLayout, cleaned)
}

// joinContinuations merges wrapped lines back into their parent row: a
// line that does not begin with a digit belongs to the previous line.
func joinContinuations(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		first := line[0]
		if first >= '0' && first <= '9' {
			out = append(out, line)
		} else if len(out) > 0 {
			out[len(out)-1] += " " + line
		}
	}
	return out
}

func splitFields(line string) []string {
	parts := strings.Split(line, "\t")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// coerceInt parses a numeric field, falling back to zero for missing or
// malformed values ("-", "", stray text).
func coerceInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func coerceFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
