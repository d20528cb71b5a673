package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEMAFirstUpdateReturnsRawValue(t *testing.T) {
	e := NewEMA(10 * time.Second)

	got := e.Update(42.0, time.Now())
	require.Equal(t, 42.0, got)
	require.Equal(t, 42.0, e.Value())
}

func TestEMAMovesTowardInput(t *testing.T) {
	e := NewEMA(10 * time.Second)
	now := time.Now()

	e.Update(0, now)
	got := e.Update(100, now.Add(5*time.Second))

	require.Greater(t, got, 0.0)
	require.Less(t, got, 100.0)

	// Another step closes more of the remaining gap.
	got2 := e.Update(100, now.Add(10*time.Second))
	require.Greater(t, got2, got)
	require.Less(t, got2, 100.0)
}

func TestEMAIgnoresNonPositiveTimeStep(t *testing.T) {
	e := NewEMA(10 * time.Second)
	now := time.Now()

	e.Update(50, now)
	got := e.Update(999, now)
	require.Equal(t, 50.0, got)

	got = e.Update(999, now.Add(-time.Second))
	require.Equal(t, 50.0, got)
}
