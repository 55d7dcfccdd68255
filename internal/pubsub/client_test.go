package pubsub_test

import (
	"errors"
	"testing"

	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestMulti_FansOutAndSkipsNil(t *testing.T) {
	first := pubsub.NewMock()
	second := pubsub.NewMock()
	client := pubsub.Multi(first, nil, second)

	err := client.SendMessage(pubsub.EventMatchScheduled, map[string]string{"id": "M001"})
	require.NoError(t, err)

	assert.Equal(t, []pubsub.EventType{pubsub.EventMatchScheduled}, first.Topics())
	assert.Equal(t, []pubsub.EventType{pubsub.EventMatchScheduled}, second.Topics())
}

func TestMulti_JoinsErrors(t *testing.T) {
	failing := pubsub.NewMock()
	failing.SendMessageFunc = func(topic pubsub.EventType, data any) error {
		return errors.New("topic not found")
	}
	ok := pubsub.NewMock()

	err := pubsub.Multi(failing, ok).SendMessage(pubsub.EventGateEntry, "T001")
	assert.ErrorContains(t, err, "topic not found")
	assert.Len(t, ok.Sent, 1, "a failing sink must not block the others")
}

func TestMulti_ProcessMessageDecodesMsgpack(t *testing.T) {
	payload, err := msgpack.Marshal(struct{ TicketID string }{"T007"})
	require.NoError(t, err)

	var out struct{ TicketID string }
	require.NoError(t, pubsub.Multi().ProcessMessage(payload, &out))
	assert.Equal(t, "T007", out.TicketID)
}

func TestMock_ProcessMessageDecodesLikeTheClient(t *testing.T) {
	payload, err := msgpack.Marshal(map[string]string{"match_id": "M002"})
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, pubsub.NewMock().ProcessMessage(payload, &out))
	assert.Equal(t, "M002", out["match_id"])
}
