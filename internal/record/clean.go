package record

import (
	"regexp"
	"strings"
)

// Noise patterns observed in ranking-site exports. The "#<token>" run is
// the external identifier, the org-code run (e.g. "NYH...") and trailing
// "(N)" counts are display clutter appended by the source site.
var (
	externalIDRe   = regexp.MustCompile(`#(\S+)`)
	parenIDRe      = regexp.MustCompile(`\(#(\d+)\)\s*`)
	orgNoiseRe     = regexp.MustCompile(`\s+NYH\S+`)
	trailingNumRe  = regexp.MustCompile(`\s*\(\d+\)\s*$`)
	ageMarkerRe    = regexp.MustCompile(`\s+U\d+\s+\w+$`)
	ageMarkerAltRe = regexp.MustCompile(`\s+\d+U$`)
	venuePrefixRe  = regexp.MustCompile(`(?i)^(watch at|at)\s+`)
)

// ExtractExternalID pulls a "#<token>" external identifier out of a name
// field. Returns the name with the token removed and the id (nil if none).
func ExtractExternalID(name string) (clean string, externalID *string) {
	m := externalIDRe.FindString(name)
	if m == "" {
		return strings.TrimSpace(name), nil
	}
	clean = strings.TrimSpace(externalIDRe.ReplaceAllString(name, ""))
	id := m
	return clean, &id
}

// ExtractParenID pulls a "(#1234)" identifier as written in free-text
// schedule opponent names. The returned id keeps the "#" prefix so it
// matches the tabular form.
func ExtractParenID(name string) (clean string, externalID *string) {
	m := parenIDRe.FindStringSubmatch(name)
	if m == nil {
		return strings.TrimSpace(name), nil
	}
	clean = strings.TrimSpace(strings.Replace(name, m[0], "", 1))
	id := "#" + m[1]
	return clean, &id
}

// CleanTeamName strips the external-id token, org noise, and a trailing
// parenthetical count from a raw team name.
func CleanTeamName(raw string) string {
	s := externalIDRe.ReplaceAllString(raw, "")
	s = orgNoiseRe.ReplaceAllString(s, "")
	s = trailingNumRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// SearchName further strips trailing age/division markers ("U13 A",
// "13U") so substring matching tolerates sources that omit them.
func SearchName(cleanName string) string {
	s := ageMarkerRe.ReplaceAllString(cleanName, "")
	s = ageMarkerAltRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// CleanVenue removes the "Watch at" / "at" prefixes the source site
// prepends to rink names.
func CleanVenue(raw string) string {
	return strings.TrimSpace(venuePrefixRe.ReplaceAllString(raw, ""))
}
