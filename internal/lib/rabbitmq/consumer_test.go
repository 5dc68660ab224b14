package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestChannel(ctx context.Context, t *testing.T, queueName string) *amqp.Channel {
	t.Helper()
	amqpURI := amqpURIForTest(ctx, t)

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ch, err := conn.Channel()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Close() })

	_, err = ch.QueueDeclare(queueName, false, true, false, false, nil)
	require.NoError(t, err)
	return ch
}

func TestConsumerMessage_HandleMessages(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ch := openTestChannel(ctx, t, "consumer-test")

	var wg sync.WaitGroup
	wg.Add(2)
	var (
		mu       sync.Mutex
		received []string
	)
	handler := func(_ context.Context, body []byte) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, string(body))
		wg.Done()
		return nil
	}

	_, err := ConsumerMessage(ctx, ch, "consumer-test", handler, newNoopLogger())
	require.NoError(t, err)

	for _, msg := range []string{"hello", "world"} {
		require.NoError(t, ch.Publish("", "consumer-test", false, false, amqp.Publishing{Body: []byte(msg)}))
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for messages to be processed")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"hello", "world"}, received)
}

func TestConsumerMessage_RetryableErrorRequeues(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ch := openTestChannel(ctx, t, "requeue-test")

	var attempts atomic.Int32
	processed := make(chan struct{})
	handler := func(_ context.Context, _ []byte) error {
		if attempts.Add(1) == 1 {
			return fmt.Errorf("smtp unavailable")
		}
		close(processed)
		return nil
	}

	_, err := ConsumerMessage(ctx, ch, "requeue-test", handler, newNoopLogger())
	require.NoError(t, err)
	require.NoError(t, ch.Publish("", "requeue-test", false, false, amqp.Publishing{Body: []byte("retry")}))

	select {
	case <-processed:
		assert.Equal(t, int32(2), attempts.Load())
	case <-time.After(10 * time.Second):
		t.Fatal("message was not redelivered after nack")
	}
}

func TestConsumerMessage_PermanentErrorDrops(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ch := openTestChannel(ctx, t, "drop-test")

	var attempts atomic.Int32
	handler := func(_ context.Context, _ []byte) error {
		attempts.Add(1)
		return fmt.Errorf("bad payload: %w", ErrPermanent)
	}

	consumeCtx, stop := context.WithCancel(ctx)
	done, err := ConsumerMessage(consumeCtx, ch, "drop-test", handler, newNoopLogger())
	require.NoError(t, err)
	require.NoError(t, ch.Publish("", "drop-test", false, false, amqp.Publishing{Body: []byte("{")}))

	time.Sleep(time.Second)
	stop()
	<-done

	assert.Equal(t, int32(1), attempts.Load())
	q, err := ch.QueueInspect("drop-test")
	require.NoError(t, err)
	assert.Equal(t, 0, q.Messages)
}

func TestErrPermanentWrapping(t *testing.T) {
	err := fmt.Errorf("decode: %w", ErrPermanent)
	assert.True(t, errors.Is(err, ErrPermanent))
}
