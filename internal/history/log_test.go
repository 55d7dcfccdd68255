package history_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mauv0809/court-keeper/internal/history"
	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/notifier"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2025, 3, 10, 11, 0, 0, 0, time.Local)

type logFixture struct {
	log      *history.Log
	notifier *notifier.Mock
	metrics  *metrics.Mock
	pubsub   *pubsub.MockPubSubClient
	path     string
}

func openLog(t *testing.T, path string) *logFixture {
	t.Helper()
	f := &logFixture{notifier: notifier.NewMock(), metrics: metrics.NewMock(), pubsub: pubsub.NewMock(), path: path}
	l, err := history.New(history.Options{Path: path, PointTarget: 11, Now: func() time.Time { return clock }}, f.notifier, f.metrics, f.pubsub)
	require.NoError(t, err)
	f.log = l
	return f
}

func finished(t *testing.T, l *history.Log, winner, loser string) *history.Rally {
	t.Helper()
	r, err := l.NewRally(winner, loser)
	require.NoError(t, err)
	play(t, r, repeat(winner, l.PointTarget())...)
	require.True(t, r.Finished())
	return r
}

func TestRecord(t *testing.T) {
	f := openLog(t, filepath.Join(t.TempDir(), "MatchHistory.txt"))

	started := clock.Add(-42 * time.Minute)
	e, err := f.log.Record("M004", tournament.StageQualifier, finished(t, f.log, "APUTCP001", "APUTCP002"), started)
	require.NoError(t, err)

	assert.Equal(t, "H001", e.ID)
	assert.Equal(t, "M004", e.MatchID)
	assert.Equal(t, "11-0", e.Score())
	assert.Equal(t, "APUTCP001", e.Winner())
	assert.Equal(t, 42*time.Minute, e.Duration)
	assert.Equal(t, clock, e.MatchTime)

	assert.Equal(t, 1, f.metrics.MatchesRecorded())
	assert.Equal(t, []float64{2520}, f.metrics.MatchDurations())
	assert.Len(t, f.pubsub.CallsFor(pubsub.EventMatchRecorded), 1)
	require.Len(t, f.notifier.SendMatchResultCalls, 1)
	assert.Equal(t, "H001", f.notifier.SendMatchResultCalls[0].ID)

	data, err := os.ReadFile(f.path)
	require.NoError(t, err)
	assert.Equal(t, "H001,M004,S001,APUTCP001,APUTCP002,11-0,2025-03-10 11:00:00,42m0s\n", string(data))

	t.Run("empty match id uses the counter", func(t *testing.T) {
		e, err := f.log.Record("", tournament.StageQualifier, finished(t, f.log, "APUTCP003", "APUTCP004"), time.Time{})
		require.NoError(t, err)
		assert.Equal(t, "H002", e.ID)
		assert.Equal(t, "M005", e.MatchID)
		assert.Zero(t, e.Duration)
	})

	t.Run("rejects unfinished or invalid input", func(t *testing.T) {
		r, err := f.log.NewRally("APUTCP001", "APUTCP002")
		require.NoError(t, err)
		_, err = f.log.Record("M009", tournament.StageQualifier, r, clock)
		assert.ErrorIs(t, err, history.ErrRallyInProgress)

		_, err = f.log.Record("M009", tournament.Stage("S004"), finished(t, f.log, "APUTCP001", "APUTCP002"), clock)
		assert.ErrorIs(t, err, tournament.ErrInvalidStage)
		assert.Len(t, f.log.Entries(), 2)
	})
}

func TestQuery(t *testing.T) {
	f := openLog(t, filepath.Join(t.TempDir(), "MatchHistory.txt"))
	rec := func(matchID string, stage tournament.Stage, winner, loser string) {
		_, err := f.log.Record(matchID, stage, finished(t, f.log, winner, loser), clock)
		require.NoError(t, err)
	}
	rec("M001", tournament.StageQualifier, "APUTCP001", "APUTCP002")
	rec("M002", tournament.StageQualifier, "APUTCP003", "APUTCP004")
	rec("M003", tournament.StageRoundRobin, "APUTCP001", "APUTCP003")

	ids := func(entries []tournament.HistoryEntry) []string {
		var out []string
		for _, e := range entries {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Equal(t, []string{"H003", "H002", "H001"}, ids(f.log.Entries()))
	assert.Equal(t, []string{"H003", "H001"}, ids(f.log.Query(history.Filter{PlayerID: "APUTCP001"})))
	assert.Equal(t, []string{"H002", "H001"}, ids(f.log.Query(history.Filter{Stage: tournament.StageQualifier})))
	assert.Equal(t, []string{"H002"}, ids(f.log.Query(history.Filter{PlayerID: "APUTCP003", Stage: tournament.StageQualifier})))
	assert.Empty(t, f.log.Query(history.Filter{PlayerID: "APUTCP099"}))
}

func TestReload_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MatchHistory.txt")
	f := openLog(t, path)
	for _, pair := range [][2]string{{"APUTCP001", "APUTCP002"}, {"APUTCP003", "APUTCP004"}} {
		_, err := f.log.Record("", tournament.StageKnockout, finished(t, f.log, pair[0], pair[1]), clock.Add(-time.Hour))
		require.NoError(t, err)
	}
	before := f.log.Entries()

	reopened := openLog(t, path)
	assert.Equal(t, before, reopened.log.Entries())

	e, err := reopened.log.Record("", tournament.StageKnockout, finished(t, reopened.log, "APUTCP001", "APUTCP003"), clock)
	require.NoError(t, err)
	assert.Equal(t, "H003", e.ID)
	assert.Equal(t, "M003", e.MatchID)
}

func TestReload_SkipsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MatchHistory.txt")
	content := "H002,M007,S002,APUTCP001,APUTCP002,12-10,2025-03-10 09:00:00,1h5m0s\n" +
		"H003,M008,S002,APUTCP001,APUTCP002,twelve,2025-03-10 10:00:00,1h\n" +
		"X1,M009,S002,APUTCP001,APUTCP002,12-3,2025-03-10 10:00:00,1h\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f := openLog(t, path)
	entries := f.log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 65*time.Minute, entries[0].Duration)

	e, err := f.log.Record("", tournament.StageRoundRobin, finished(t, f.log, "APUTCP001", "APUTCP002"), clock)
	require.NoError(t, err)
	assert.Equal(t, "H003", e.ID)
	assert.Equal(t, "M008", e.MatchID)
}
