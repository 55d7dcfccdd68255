package journal

import "github.com/mauv0809/court-keeper/internal/pubsub"

// EventStore keeps an append-only record of every domain event. It is also a
// pubsub sink so services can publish to it like any other client.
type EventStore interface {
	pubsub.PubSubClient
	List(limit int) ([]Event, error)
	CountByTopic() (map[string]int, error)
}
