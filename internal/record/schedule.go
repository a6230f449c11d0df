package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/puckboard/puckboard-data/internal/model"
)

// The free-text schedule scanner is a line-oriented finite automaton.
// One entry is, in order: a month-day line, an optional clock-time line,
// blank padding, the opponent line, the venue line, a single-character
// result marker, an "N - N" score line, and an optional overtime/shootout
// marker. An entry missing a required field is discarded and the scanner
// resyncs at the next candidate date line.
type scanState int

const (
	stateSeekDate scanState = iota
	stateTime
	stateOpponent
	stateVenue
	stateResult
	stateScore
	stateOvertimeMarker
)

var (
	scheduleDateRe = regexp.MustCompile(`^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2})$`)
	clockTimeRe    = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	resultMarkerRe = regexp.MustCompile(`^[WLT]$`)
	scoreLineRe    = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
	leadingCommaRe = regexp.MustCompile(`^,\s*`)
)

var monthsByAbbr = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// seasonCutoffMonth splits the hockey season across the calendar year
// boundary: September through December belong to the season's start year,
// January through August to the following year. The source text omits the
// year entirely.
const seasonCutoffMonth = time.September

// pending accumulates fields for the entry currently being scanned.
type pending struct {
	date     time.Time
	time24   string
	opponent string
	venue    string
	result   string
	ownScore int
	oppScore int
	resType  model.ResultType
}

// ParseSchedule scans a pasted free-text schedule block. seasonStartYear
// anchors the two-year season split (e.g. 2025 for the 2025-26 season).
func ParseSchedule(raw string, seasonStartYear int) []ScheduleEntry {
	lines := strings.Split(raw, "\n")
	for i := range lines {
		// The copy-paste arrives CSV-flavored with a leading comma per line.
		lines[i] = strings.TrimSpace(leadingCommaRe.ReplaceAllString(lines[i], ""))
	}

	var entries []ScheduleEntry
	var cur pending
	st := stateSeekDate

	i := 0
	for i < len(lines) {
		line := lines[i]

		switch st {
		case stateSeekDate:
			if d, ok := matchScheduleDate(line, seasonStartYear); ok {
				cur = pending{date: d, resType: model.ResultRegulation}
				st = stateTime
			}
			i++

		case stateTime:
			if t, ok := matchClockTime(line); ok {
				cur.time24 = t
				i++
			}
			st = stateOpponent

		case stateOpponent:
			if line == "" {
				i++
				continue
			}
			cur.opponent = line
			i++
			st = stateVenue

		case stateVenue:
			cur.venue = line
			i++
			st = stateResult

		case stateResult:
			if resultMarkerRe.MatchString(line) {
				cur.result = line
				i++
				st = stateScore
			} else {
				// Required field missing: drop the entry and resync from
				// this line, which may itself start the next entry.
				st = stateSeekDate
			}

		case stateScore:
			if m := scoreLineRe.FindStringSubmatch(line); m != nil {
				a, _ := strconv.Atoi(m[1])
				b, _ := strconv.Atoi(m[2])
				cur.ownScore, cur.oppScore = assignScores(cur.result, a, b)
				i++
				st = stateOvertimeMarker
			} else {
				st = stateSeekDate
			}

		case stateOvertimeMarker:
			if rt, ok := matchOvertimeMarker(line); ok {
				cur.resType = rt
				i++
			}
			entries = append(entries, finalize(cur))
			st = stateSeekDate
		}
	}

	// A complete entry whose optional marker line was cut off by EOF.
	if st == stateOvertimeMarker {
		entries = append(entries, finalize(cur))
	}
	return entries
}

// assignScores orients the "N - N" pair toward the tracked team: a win
// takes the larger number, a loss the smaller, a tie passes both through.
func assignScores(result string, a, b int) (own, opp int) {
	switch result {
	case "W":
		return max(a, b), min(a, b)
	case "L":
		return min(a, b), max(a, b)
	default:
		return a, b
	}
}

func finalize(p pending) ScheduleEntry {
	afterSymbol, symbol := StripSymbol(p.opponent)
	clean, externalID := ExtractParenID(afterSymbol)

	return ScheduleEntry{
		Date:               p.date,
		TimeOfDay:          p.time24,
		OpponentRaw:        p.opponent,
		OpponentClean:      clean,
		OpponentExternalID: externalID,
		VenueRaw:           p.venue,
		VenueClean:         CleanVenue(p.venue),
		Result:             p.result,
		OwnScore:           p.ownScore,
		OppScore:           p.oppScore,
		ResultType:         p.resType,
		Classification:     Classify(symbol),
		Symbol:             symbol,
	}
}

func matchScheduleDate(line string, seasonStartYear int) (time.Time, bool) {
	m := scheduleDateRe.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	month := monthsByAbbr[m[1]]
	day, _ := strconv.Atoi(m[2])

	year := seasonStartYear
	if month < seasonCutoffMonth {
		year++
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// matchClockTime converts "7:45 PM" to 24-hour "19:45".
func matchClockTime(line string) (string, bool) {
	m := clockTimeRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	hours, _ := strconv.Atoi(m[1])
	ampm := strings.ToUpper(m[3])
	if ampm == "PM" && hours != 12 {
		hours += 12
	}
	if ampm == "AM" && hours == 12 {
		hours = 0
	}
	return fmt.Sprintf("%02d:%s", hours, m[2]), true
}

// matchOvertimeMarker recognizes the standalone OT/SO line. Matching is
// whole-word so a following "Oct 17" date line is never consumed as an
// overtime marker.
func matchOvertimeMarker(line string) (model.ResultType, bool) {
	switch strings.ToLower(strings.Trim(line, "() ")) {
	case "so", "sol", "shootout":
		return model.ResultShootout, true
	case "ot", "otl", "overtime":
		return model.ResultOvertime, true
	}
	return "", false
}
