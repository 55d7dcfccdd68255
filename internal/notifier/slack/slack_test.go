package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/tournament"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

var (
	ana = tournament.Player{ID: "APUTCP001", Name: "Ana Ruiz", Nationality: "ES"}
	ben = tournament.Player{ID: "APUTCP002", Name: "Ben Cole", Nationality: "GB"}
)

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(plainSection("hello")))

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage())

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestPublicMethods_CallSender(t *testing.T) {
	calls := 0
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			calls++
			return "C123", "ts", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	require.NoError(t, notifier.SendMatchScheduled(tournament.Match{ID: "M001"}, ana, ben))
	require.NoError(t, notifier.SendMatchResult(tournament.HistoryEntry{ID: "H001"}))
	require.NoError(t, notifier.SendWithdrawal(tournament.Withdrawal{ID: "W001"}, nil))
	assert.Equal(t, 3, calls)
}

func TestFormatMatchScheduled(t *testing.T) {
	match := tournament.Match{
		ID:            "M001",
		Stage:         tournament.StageQualifier,
		CourtID:       "C001",
		ScheduledTime: "2025-03-10 07:00",
	}

	msg := formatMatchScheduled(match, ana, ben)
	require.Len(t, msg.Blocks.BlockSet, 3)

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, "🎾 New match scheduled! 🎾", header.Text.Text)

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Match: M001\nStage: Qualifier\nCourt: C001 (Outdoor Hard)\nTime: 2025-03-10 07:00", details.Text.Text)

	players, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Players:\n• Ana Ruiz (ES)\n• Ben Cole (GB)", players.Text.Text)

	t.Run("warns when no slot is left", func(t *testing.T) {
		match.ScheduledTime = tournament.NoSlotAvailable
		msg := formatMatchScheduled(match, ana, ben)
		require.Len(t, msg.Blocks.BlockSet, 4)
		_, ok := msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
		assert.True(t, ok)
	})
}

func TestFormatMatchResult(t *testing.T) {
	entry := tournament.HistoryEntry{
		ID:        "H001",
		MatchID:   "M001",
		Stage:     tournament.StageRoundRobin,
		Player1ID: "APUTCP001",
		Player2ID: "APUTCP002",
		Score1:    12,
		Score2:    10,
		Duration:  42 * time.Minute,
	}

	msg := formatMatchResult(entry)
	require.Len(t, msg.Blocks.BlockSet, 3)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "APUTCP001 vs APUTCP002\nScore: 12-10", section.Text.Text)

	contextBlock, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	require.Len(t, contextBlock.ContextElements.Elements, 2)
	winner, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "🏆 APUTCP001 won", winner.Text)
}

func TestFormatWithdrawal(t *testing.T) {
	w := tournament.Withdrawal{ID: "W001", PlayerID: "APUTCP001", Name: "Ana Ruiz", Reason: "injury"}

	t.Run("without pending matches", func(t *testing.T) {
		msg := formatWithdrawal(w, nil)
		assert.Len(t, msg.Blocks.BlockSet, 2)
	})

	t.Run("lists pending matches", func(t *testing.T) {
		msg := formatWithdrawal(w, []tournament.Match{{ID: "M003", ScheduledTime: "2025-03-10 08:00"}})
		require.Len(t, msg.Blocks.BlockSet, 3)
		section, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Needs a substitute:\n• M003 at 2025-03-10 08:00", section.Text.Text)
	})
}
