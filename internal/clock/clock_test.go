package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewFake(start)
	assert.Equal(t, start, c.Now())

	c.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), c.Now())

	later := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}

func TestRealLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t, loc, Real{Location: loc}.Now().Location())
	assert.Equal(t, time.Local, Real{}.Now().Location())
}
