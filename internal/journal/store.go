package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a journal backed by db. The events table must already exist;
// database.InitDB takes care of that.
func New(db *sql.DB) EventStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

// SendMessage appends an event for topic with data encoded as msgpack.
func (s *store) SendMessage(topic pubsub.EventType, data any) error {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", topic, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err = s.db.Exec(
		"INSERT INTO events (id, topic, payload, created_at) VALUES (?, ?, ?, ?)",
		id, string(topic), payload, s.now().UnixNano(),
	)
	if err != nil {
		log.Error("Failed to append journal event", "error", err, "topic", topic)
		return fmt.Errorf("failed to append %s event: %w", topic, err)
	}
	log.Debug("Journaled event", "id", id, "topic", topic)
	return nil
}

func (s *store) ProcessMessage(data []byte, returnValue any) error {
	return msgpack.Unmarshal(data, returnValue)
}

// List returns the most recent events first. A non-positive limit returns
// everything.
func (s *store) List(limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "SELECT id, topic, payload, created_at FROM events ORDER BY created_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Topic, &e.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		e.CreatedAt = time.Unix(0, createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountByTopic returns how many events were journaled per topic.
func (s *store) CountByTopic() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT topic, COUNT(*) FROM events GROUP BY topic")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var topic string
		var n int
		if err := rows.Scan(&topic, &n); err != nil {
			return nil, err
		}
		counts[topic] = n
	}
	return counts, rows.Err()
}
