package queue

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestQueue() *InMemoryQueue {
	q := NewInMemoryQueue(zap.NewNop())
	q.backoff = time.Millisecond
	return q
}

func TestPublishDeliversToEverySubscriber(t *testing.T) {
	q := newTestQueue()
	var a, b atomic.Int32

	require.NoError(t, q.Subscribe(TopicCampaignEvents, func(any) error { a.Add(1); return nil }))
	require.NoError(t, q.Subscribe(TopicCampaignEvents, func(any) error { b.Add(1); return nil }))

	require.NoError(t, q.Publish(TopicCampaignEvents, "payload"))
	q.Wait()

	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
}

func TestPublishWithoutSubscribers(t *testing.T) {
	q := newTestQueue()
	assert.NoError(t, q.Publish("nobody", 1))
}

func TestFailingHandlerIsRetried(t *testing.T) {
	q := newTestQueue()
	var calls atomic.Int32

	require.NoError(t, q.Subscribe("t", func(any) error {
		if calls.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}))
	require.NoError(t, q.Publish("t", nil))
	q.Wait()

	assert.Equal(t, int32(3), calls.Load())
}

func TestRetriesAreBounded(t *testing.T) {
	q := newTestQueue()
	var calls atomic.Int32

	require.NoError(t, q.Subscribe("t", func(any) error {
		calls.Add(1)
		return errors.New("permanent")
	}))
	require.NoError(t, q.Publish("t", nil))
	q.Wait()

	// first attempt plus maxRetries
	assert.Equal(t, int32(q.maxRetries+1), calls.Load())
}

func TestSubscribeRejectsNilHandler(t *testing.T) {
	assert.Error(t, newTestQueue().Subscribe("t", nil))
}

func TestRetryCountHeader(t *testing.T) {
	assert.Equal(t, int32(0), retryCount(nil))
	assert.Equal(t, int32(2), retryCount(map[string]any{retryHeader: int32(2)}))
	assert.Equal(t, int32(3), retryCount(map[string]any{retryHeader: int64(3)}))
}
