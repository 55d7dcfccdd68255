package ticketing_test

import (
	"testing"

	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/ticketing"
	"github.com/mauv0809/court-keeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger(t *testing.T) {
	m := metrics.NewMock()
	l := ticketing.NewLedger(m)

	assert.Equal(t, map[string]int{"C001": 100, "C002": 150, "C003": 250}, l.Snapshot())
	got, ok := m.CourtCapacity("C003")
	require.True(t, ok)
	assert.Equal(t, 250, got)

	t.Run("reserve and release", func(t *testing.T) {
		require.NoError(t, l.Reserve("C001", 60))
		left, err := l.Remaining("C001")
		require.NoError(t, err)
		assert.Equal(t, 40, left)

		err = l.Reserve("C001", 41)
		assert.ErrorIs(t, err, ticketing.ErrCourtFull)
		assert.ErrorIs(t, err, tournament.ErrCapacity)

		require.NoError(t, l.Reserve("C001", 40))
		left, _ = l.Remaining("C001")
		assert.Zero(t, left)

		require.NoError(t, l.Release("C001", 100))
		left, _ = l.Remaining("C001")
		assert.Equal(t, 100, left)
		got, _ := m.CourtCapacity("C001")
		assert.Equal(t, 100, got)
	})

	t.Run("release never exceeds capacity", func(t *testing.T) {
		err := l.Release("C002", 1)
		assert.ErrorIs(t, err, ticketing.ErrOverRelease)
		assert.ErrorIs(t, err, tournament.ErrState)
		left, _ := l.Remaining("C002")
		assert.Equal(t, 150, left)
	})

	t.Run("bad input", func(t *testing.T) {
		assert.ErrorIs(t, l.Reserve("C009", 1), tournament.ErrCourtNotFound)
		assert.ErrorIs(t, l.Release("C009", 1), tournament.ErrCourtNotFound)
		assert.ErrorIs(t, l.Reserve("C001", 0), ticketing.ErrInvalidSeats)
		_, err := l.Remaining("C009")
		assert.ErrorIs(t, err, tournament.ErrCourtNotFound)
	})
}
