package pubsub

import "cloud.google.com/go/pubsub"

// Client publishes events to Google Cloud Pub/Sub.
type Client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchScheduled     EventType = "match-scheduled"
	EventMatchStatusChanged EventType = "match-status-changed"
	EventPlayerAdvanced     EventType = "player-advanced"
	EventTicketSold         EventType = "ticket-sold"
	EventTicketRejected     EventType = "ticket-rejected"
	EventTicketRefunded     EventType = "ticket-refunded"
	EventGateEntry          EventType = "gate-entry"
	EventGateExit           EventType = "gate-exit"
	EventPlayerWithdrawn    EventType = "player-withdrawn"
	EventPlayerSubstituted  EventType = "player-substituted"
	EventMatchRecorded      EventType = "match-recorded"
)

// multi fans a message out to several clients.
type multi struct {
	clients []PubSubClient
}
