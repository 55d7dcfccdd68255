package pubsub

import (
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Message is one event handed to the mock.
type Message struct {
	Topic EventType
	Data  any
}

// MockPubSubClient records published events in memory. It is safe for
// concurrent use.
type MockPubSubClient struct {
	mu sync.Mutex

	SendMessageFunc    func(topic EventType, data any) error
	ProcessMessageFunc func(data []byte, returnValue any) error

	Sent []Message
}

func NewMock() *MockPubSubClient {
	return &MockPubSubClient{}
}

// Reset forgets every recorded event.
func (m *MockPubSubClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = nil
}

// SendMessage records the event, then defers to SendMessageFunc if set.
func (m *MockPubSubClient) SendMessage(topic EventType, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, Message{Topic: topic, Data: data})
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(topic, data)
	}
	return nil
}

// ProcessMessage decodes msgpack like the real client unless ProcessMessageFunc is set.
func (m *MockPubSubClient) ProcessMessage(data []byte, returnValue any) error {
	if m.ProcessMessageFunc != nil {
		return m.ProcessMessageFunc(data, returnValue)
	}
	return msgpack.Unmarshal(data, returnValue)
}

// CallsFor returns the payloads sent to topic, in call order.
func (m *MockPubSubClient) CallsFor(topic EventType) []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []any
	for _, msg := range m.Sent {
		if msg.Topic == topic {
			out = append(out, msg.Data)
		}
	}
	return out
}

// Topics lists the topics published to, in call order.
func (m *MockPubSubClient) Topics() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EventType, 0, len(m.Sent))
	for _, msg := range m.Sent {
		out = append(out, msg.Topic)
	}
	return out
}
