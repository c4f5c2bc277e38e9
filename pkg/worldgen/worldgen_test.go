package worldgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/phaser/pkg/key"
)

type ore struct {
	nether bool
	allow  []string
}

func (o ore) Nether() bool        { return o.nether }
func (o ore) VeinSize() int       { return 8 }
func (o ore) Count() int          { return 20 }
func (o ore) MinLevel() int       { return 5 }
func (o ore) MaxLevel() int       { return 40 }
func (o ore) Spawns() bool        { return true }
func (o ore) Groupings() []string { return o.allow }

func TestDescribe(t *testing.T) {
	k := key.Key{Namespace: "example", Name: "uranium_ore"}
	d := Describe(k, "block", ore{allow: []string{"plains"}})

	assert.Equal(t, k, d.Key)
	assert.False(t, d.Nether)
	assert.Equal(t, 8, d.VeinSize)
	assert.Equal(t, 20, d.Count)
	assert.Equal(t, 5, d.MinLevel)
	assert.Equal(t, 40, d.MaxLevel)
	assert.True(t, d.Spawn)
	assert.Equal(t, []string{"plains"}, d.Allow)
	assert.Equal(t, "block", d.Target)
}

func TestCriteriaMatches(t *testing.T) {
	nether := NewGrouping("crimson_forest", CategoryNether)
	plains := NewGrouping("plains", CategoryOverworld)
	desert := NewGrouping("desert", CategoryOverworld)

	tests := []struct {
		name     string
		criteria Criteria
		grouping *Grouping
		want     bool
	}{
		{"overworld any", Criteria{}, plains, true},
		{"overworld rejects nether", Criteria{}, nether, false},
		{"nether accepts nether", Criteria{Nether: true}, nether, true},
		{"nether rejects overworld", Criteria{Nether: true}, plains, false},
		{"allow-list hit", Criteria{Allow: []string{"plains"}}, plains, true},
		{"allow-list miss", Criteria{Allow: []string{"plains"}}, desert, false},
		{"nil grouping", Criteria{}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Matches(tt.grouping))
		})
	}
}

func TestGateApply(t *testing.T) {
	gate := NewGate()
	gate.Add(Contribution{Criteria: Criteria{}, Stage: StageUndergroundOres, Feature: "copper"})
	gate.Add(Contribution{Criteria: Criteria{Nether: true}, Stage: StageUndergroundOres, Feature: "quartz"})
	gate.Add(Contribution{Criteria: Criteria{Allow: []string{"desert"}}, Stage: StageUndergroundOres, Feature: "sand"})
	require.Equal(t, 3, gate.Len())

	plains := NewGrouping("plains", CategoryOverworld)
	assert.Equal(t, 1, gate.Apply(plains))
	assert.Equal(t, []any{"copper"}, plains.Features(StageUndergroundOres))

	desert := NewGrouping("desert", CategoryOverworld)
	assert.Equal(t, 2, gate.Apply(desert))
	assert.Equal(t, []any{"copper", "sand"}, desert.Features(StageUndergroundOres))

	nether := NewGrouping("basalt_deltas", CategoryNether)
	assert.Equal(t, 1, gate.Apply(nether))
	assert.Equal(t, []any{"quartz"}, nether.Features(StageUndergroundOres))
}
