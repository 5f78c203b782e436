package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPeriod(t *testing.T, start, end string) Period {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	p, err := NewPeriod(s, e)
	require.NoError(t, err)
	return p
}

func TestNewPeriodRejectsInvertedInterval(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2026-06-02T10:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2026-06-01T10:00:00Z")

	_, err := NewPeriod(start, end)
	require.Error(t, err)

	_, err = NewPeriod(start, start)
	require.Error(t, err)
}

func TestNewPeriodRejectsZeroEndpoints(t *testing.T) {
	end, _ := time.Parse(time.RFC3339, "2026-06-01T10:00:00Z")
	_, err := NewPeriod(time.Time{}, end)
	require.Error(t, err)
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	a := mustPeriod(t, "2026-06-01T10:00:00Z", "2026-06-01T14:00:00Z")
	touching := mustPeriod(t, "2026-06-01T14:00:00Z", "2026-06-01T18:00:00Z")
	inside := mustPeriod(t, "2026-06-01T11:00:00Z", "2026-06-01T12:00:00Z")
	straddling := mustPeriod(t, "2026-06-01T13:00:00Z", "2026-06-01T15:00:00Z")
	disjoint := mustPeriod(t, "2026-06-02T10:00:00Z", "2026-06-02T14:00:00Z")

	assert.False(t, a.Overlaps(touching))
	assert.False(t, touching.Overlaps(a))
	assert.True(t, a.Overlaps(inside))
	assert.True(t, inside.Overlaps(a))
	assert.True(t, a.Overlaps(straddling))
	assert.False(t, a.Overlaps(disjoint))
}

func TestContainsExcludesEnd(t *testing.T) {
	p := mustPeriod(t, "2026-06-01T10:00:00Z", "2026-06-01T14:00:00Z")

	assert.True(t, p.Contains(p.Start))
	assert.False(t, p.Contains(p.End))
	assert.Equal(t, 4*time.Hour, p.Duration())
}
