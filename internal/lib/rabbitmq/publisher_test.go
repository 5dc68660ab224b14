package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	amqpURI := amqpURIForTest(ctx, t)

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	ch, err := SetupChannel(conn, 0, GetNotificationQueues())
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()
	_, err = ch.QueuePurge(LessonUpdatedQueue, false)
	require.NoError(t, err)

	type testMsg struct {
		LessonID int64 `json:"lesson_id"`
	}

	t.Run("routes by key to the bound queue", func(t *testing.T) {
		pub := NewPublisher(ch, NotificationsExchange)
		require.NoError(t, pub.Publish(ctx, LessonUpdatedRoutingKey, testMsg{LessonID: 42}))

		deliveries, err := ch.Consume(LessonUpdatedQueue, "test-consumer", true, false, false, false, nil)
		require.NoError(t, err)

		select {
		case d := <-deliveries:
			var got testMsg
			require.NoError(t, json.Unmarshal(d.Body, &got))
			assert.Equal(t, int64(42), got.LessonID)
			assert.Equal(t, "application/json", d.ContentType)
			assert.Equal(t, amqp.Persistent, d.DeliveryMode)
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for message")
		}
	})

	t.Run("marshal error", func(t *testing.T) {
		badMsg := struct {
			Ch chan int `json:"ch"`
		}{Ch: make(chan int)}

		err := PublishMessage(ch, NotificationsExchange, LessonUpdatedRoutingKey, badMsg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		err := NewPublisher(ch, NotificationsExchange).Publish(canceled, LessonUpdatedRoutingKey, testMsg{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
