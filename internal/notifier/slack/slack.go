package slack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/notifier"
	"github.com/mauv0809/court-keeper/internal/tournament"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message) (string, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchScheduled(match tournament.Match, player1, player2 tournament.Player) error {
	_, _, err := s.sendMessage(formatMatchScheduled(match, player1, player2))
	return err
}

func (s *Notifier) SendMatchResult(entry tournament.HistoryEntry) error {
	_, _, err := s.sendMessage(formatMatchResult(entry))
	return err
}

func (s *Notifier) SendWithdrawal(withdrawal tournament.Withdrawal, pending []tournament.Match) error {
	_, _, err := s.sendMessage(formatWithdrawal(withdrawal, pending))
	return err
}

func plainSection(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil)
}

// formatMatchScheduled creates the Slack message for a new match using Block Kit.
func formatMatchScheduled(match tournament.Match, player1, player2 tournament.Player) slack.Message {
	blocks := make([]slack.Block, 0, 4)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 New match scheduled! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	court := match.CourtID
	if c, ok := tournament.CourtByID(match.CourtID); ok {
		court = fmt.Sprintf("%s (%s)", c.ID, c.Type)
	}
	details := fmt.Sprintf("Match: %s\nStage: %s\nCourt: %s\nTime: %s",
		match.ID, match.Stage.Name(), court, match.ScheduledTime)
	blocks = append(blocks, plainSection(details))

	players := fmt.Sprintf("Players:\n• %s (%s)\n• %s (%s)",
		player1.Name, player1.Nationality, player2.Name, player2.Nationality)
	blocks = append(blocks, plainSection(players))

	if match.ScheduledTime == tournament.NoSlotAvailable {
		warn := slack.NewTextBlockObject("plain_text", "⚠️ No court slot left, time to be decided.", true, false)
		blocks = append(blocks, slack.NewContextBlock("", warn))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatMatchResult creates the Slack message for a recorded result.
func formatMatchResult(entry tournament.HistoryEntry) slack.Message {
	blocks := make([]slack.Block, 0, 3)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match finished! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	blocks = append(blocks, plainSection(fmt.Sprintf("%s vs %s\nScore: %s",
		entry.Player1ID, entry.Player2ID, entry.Score())))

	var elements []slack.MixedElement
	if winner := entry.Winner(); winner != "" {
		elements = append(elements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s won", winner), true, false))
	}
	elements = append(elements, slack.NewTextBlockObject("plain_text",
		fmt.Sprintf("%s · %s · %s", entry.Stage.Name(), entry.MatchID, entry.Duration.Round(time.Second)), true, false))
	blocks = append(blocks, slack.NewContextBlock("", elements...))

	return slack.NewBlockMessage(blocks...)
}

// formatWithdrawal creates the Slack message announcing a withdrawal.
func formatWithdrawal(withdrawal tournament.Withdrawal, pending []tournament.Match) slack.Message {
	blocks := make([]slack.Block, 0, 3)

	headerText := slack.NewTextBlockObject("plain_text", "Player withdrawn", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))
	blocks = append(blocks, plainSection(fmt.Sprintf("%s (%s)\nReason: %s",
		withdrawal.Name, withdrawal.PlayerID, withdrawal.Reason)))

	if len(pending) > 0 {
		lines := make([]string, 0, len(pending))
		for _, m := range pending {
			lines = append(lines, fmt.Sprintf("• %s at %s", m.ID, m.ScheduledTime))
		}
		blocks = append(blocks, plainSection("Needs a substitute:\n"+strings.Join(lines, "\n")))
	}

	return slack.NewBlockMessage(blocks...)
}
