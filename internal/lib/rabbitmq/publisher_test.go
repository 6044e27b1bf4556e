package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_RoutesByKey(t *testing.T) {
	uri := amqpURI(t)

	conn, err := Connect(uri, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := SetupChannel(conn, "publisher.events", GetEventQueues())
	require.NoError(t, err)
	_, err = ch.QueuePurge("cards.cards", false)
	require.NoError(t, err)

	pub := NewPublisher(ch, "publisher.events")
	event := Event{Type: KeyCardCreated, UserID: 3, CardID: 9, OccurredAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, pub.Publish(context.Background(), KeyCardCreated, event))

	deliveries, err := ch.Consume("cards.cards", "test-consumer", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		var got Event
		require.NoError(t, json.Unmarshal(d.Body, &got))
		assert.Equal(t, event, got)
		assert.Equal(t, "application/json", d.ContentType)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublisher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := NewPublisher(nil, "unused")
	err := pub.Publish(ctx, KeyUserCreated, Event{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), KeyUserDeleted, Event{}))
}
