package journal

import (
	"database/sql"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// store handles event persistence.
type store struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// Event is one journal entry. Payload holds the msgpack encoding of the
// published value.
type Event struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Payload   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	return msgpack.Unmarshal(e.Payload, v)
}
