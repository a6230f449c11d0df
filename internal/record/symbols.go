package record

import (
	"strings"

	"github.com/puckboard/puckboard-data/internal/model"
)

// symbolEntry maps one trailing classification glyph to its meaning.
type symbolEntry struct {
	symbol string
	class  Classification
	event  model.EventType
	stage  model.Stage
}

// symbolTable is ordered longest-match-first within each glyph family so
// that "**" is never misread as two league "*" markers, and "††" never as
// a repeated playoff dagger. Order is significant; do not sort.
var symbolTable = []symbolEntry{
	{"‡", ClassNational, model.EventTournament, model.StagePoolPlay},
	{"^^", ClassDistrict, model.EventTournament, model.StagePoolPlay},
	{"^", ClassProvincial, model.EventProvincial, model.StagePoolPlay},
	{"††", ClassPlayoff, model.EventPlayoff, model.StagePlayoff},
	{"†", ClassPlayoff, model.EventPlayoff, model.StagePlayoff},
	{"**", ClassTournament, model.EventTournament, model.StagePoolPlay},
	{"*", ClassLeague, model.EventRegularSeason, model.StageRegularSeason},
}

// StripSymbol removes a trailing classification glyph from an opponent
// name, returning the cleaned name and the glyph ("" when none matched).
func StripSymbol(name string) (clean, symbol string) {
	for _, e := range symbolTable {
		if strings.HasSuffix(name, e.symbol) {
			return strings.TrimSpace(strings.TrimSuffix(name, e.symbol)), e.symbol
		}
	}
	return strings.TrimSpace(name), ""
}

// Classify maps a stripped glyph to its classification. An empty glyph
// means an exhibition game.
func Classify(symbol string) Classification {
	for _, e := range symbolTable {
		if e.symbol == symbol {
			return e.class
		}
	}
	return ClassExhibition
}

// EventTypeFor returns the event type inferred for a classification.
func EventTypeFor(class Classification) model.EventType {
	for _, e := range symbolTable {
		if e.class == class {
			return e.event
		}
	}
	return model.EventExhibition
}

// StageFor returns the game stage inferred for a classification.
func StageFor(class Classification) model.Stage {
	for _, e := range symbolTable {
		if e.class == class {
			return e.stage
		}
	}
	return model.StagePoolPlay
}
