package progress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogOrder(t *testing.T) {
	var ids []string
	for _, d := range DefaultCatalog().All() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{
		"first_task", "streak_3", "streak_7", "streak_30",
		"daily_5", "daily_10", "total_50", "total_100",
		"night_owl", "early_bird", "weekend_warrior",
	}, ids)

	def, ok := DefaultCatalog().Lookup("night_owl")
	require.True(t, ok)
	assert.Equal(t, PredicateNightOwl, def.Predicate)
	assert.Equal(t, "🦉", def.Icon)

	_, ok = DefaultCatalog().Lookup("nope")
	assert.False(t, ok)
}

func TestLoadCatalog_SkipsUnknownCondition(t *testing.T) {
	src := `
achievements:
  - id: first_task
    name: First
    condition: first_task
  - id: moon_walk
    name: Moon
    condition: walk_on_moon
  - id: weekend_warrior
    name: Weekend
    condition: weekend_warrior
`
	c, err := LoadCatalog(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Lookup("moon_walk")
	assert.False(t, ok)
}

func TestLoadCatalog_RejectsDuplicateIDs(t *testing.T) {
	src := `
achievements:
  - id: streak_3
    condition: streak_3
  - id: streak_3
    condition: streak_7
`
	_, err := LoadCatalog(strings.NewReader(src))
	assert.Error(t, err)
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := DefaultCatalog().All()
	all[0].ID = "changed"

	assert.Equal(t, "first_task", DefaultCatalog().All()[0].ID)
}

func TestEngineWithCustomCatalog(t *testing.T) {
	c, err := NewCatalog([]Definition{{ID: "weekend", Predicate: PredicateWeekendWarrior}})
	require.NoError(t, err)

	out := NewEngine(c).Apply(NewSnapshot(), Event{TaskID: "a", At: at(t, "2024-01-06T10:00:00")})

	assert.Equal(t, []string{"weekend"}, out.Unlocked)
}
