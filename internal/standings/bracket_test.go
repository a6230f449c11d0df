package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puckboard/puckboard-data/internal/model"
)

func TestResolvePlaceholders(t *testing.T) {
	pools := map[string][]TeamStanding{
		"Pool A": {{TeamID: "a1"}, {TeamID: "a2"}},
		"Pool B": {{TeamID: "b1"}, {TeamID: "b2"}},
	}

	g := model.Game{
		HomePlaceholder: strp("1st Pool A"),
		AwayPlaceholder: strp("2nd Pool B"),
		Stage:           model.StageSemifinal,
	}

	resolved := ResolvePlaceholders(g, pools)
	require.NotNil(t, resolved.HomeTeamID)
	assert.Equal(t, "a1", *resolved.HomeTeamID)
	require.NotNil(t, resolved.AwayTeamID)
	assert.Equal(t, "b2", *resolved.AwayTeamID)
}

func TestResolvePlaceholdersLeavesUnresolvable(t *testing.T) {
	pools := map[string][]TeamStanding{"Pool A": {{TeamID: "a1"}}}

	tests := []struct {
		name        string
		placeholder string
	}{
		{"unknown pool", "1st Pool C"},
		{"rank beyond pool size", "3rd Pool A"},
		{"not a placeholder", "Winner of Game 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := model.Game{HomePlaceholder: strp(tt.placeholder)}
			resolved := ResolvePlaceholders(g, pools)
			assert.Nil(t, resolved.HomeTeamID)
			assert.Equal(t, tt.placeholder, *resolved.HomePlaceholder)
		})
	}
}

func TestResolvePlaceholdersSkipsResolvedSides(t *testing.T) {
	pools := map[string][]TeamStanding{"Pool A": {{TeamID: "a1"}}}
	g := model.Game{
		HomeTeamID:      strp("existing"),
		HomePlaceholder: strp("1st Pool A"),
	}
	resolved := ResolvePlaceholders(g, pools)
	assert.Equal(t, "existing", *resolved.HomeTeamID)
}
