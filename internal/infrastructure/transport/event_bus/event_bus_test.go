package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventOther EventType = "other"

type recorder struct {
	mu     sync.Mutex
	events []Event
	fails  int
}

func (r *recorder) handle(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fails > 0 {
		r.fails--
		return errors.New("temporary")
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestPublish_DeliversToSubscribers(t *testing.T) {
	bus := NewEventBus(EventBusConfig{BufferSize: 8, WorkerCount: 1})
	rec := &recorder{}
	bus.Subscribe(NewBaseSubscriber("rec", []EventType{EventPaymentConfirmed}, rec.handle))

	bus.Start()
	require.NoError(t, bus.Publish(Event{Type: EventPaymentConfirmed, Source: "test", Data: 42}))
	require.NoError(t, bus.Publish(Event{Type: eventOther, Source: "test"}))
	bus.Stop()

	require.Equal(t, 1, rec.count())
	assert.NotEmpty(t, rec.events[0].ID)
	assert.False(t, rec.events[0].Timestamp.IsZero())
	assert.Equal(t, 42, rec.events[0].Data)

	m := bus.GetMetrics()
	assert.Equal(t, int64(2), m.EventsPublished)
	assert.Equal(t, int64(2), m.EventsProcessed)
}

func TestPublish_NotRunning(t *testing.T) {
	bus := NewEventBus()
	assert.ErrorIs(t, bus.Publish(Event{Type: EventPaymentConfirmed}), ErrNotRunning)
}

func TestPublishSync_RetriesFailures(t *testing.T) {
	bus := NewEventBus(EventBusConfig{MaxRetries: 2, RetryDelay: time.Millisecond})
	rec := &recorder{fails: 2}
	bus.Subscribe(NewBaseSubscriber("rec", []EventType{EventPaymentConfirmed}, rec.handle))

	require.NoError(t, bus.PublishSync(Event{Type: EventPaymentConfirmed}))
	assert.Equal(t, 1, rec.count())
	assert.Zero(t, bus.GetMetrics().EventsFailed)
}

func TestPublishSync_RecoversPanicAndCountsFailure(t *testing.T) {
	bus := NewEventBus(EventBusConfig{MaxRetries: 0})
	bus.Subscribe(NewBaseSubscriber("boom", []EventType{EventPaymentConfirmed}, func(Event) error { panic("boom") }))
	rec := &recorder{}
	bus.Subscribe(NewBaseSubscriber("rec", []EventType{EventPaymentConfirmed}, rec.handle))

	err := bus.PublishSync(Event{Type: EventPaymentConfirmed})
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, int64(1), bus.GetMetrics().EventsFailed)
	assert.Equal(t, 2, bus.GetSubscriberCount(EventPaymentConfirmed))
}

type tagMiddleware struct{ seen []EventType }

func (m *tagMiddleware) Process(e Event, next HandlerFunc) error {
	m.seen = append(m.seen, e.Type)
	return next(e)
}

func TestMiddlewareWrapsHandlers(t *testing.T) {
	bus := NewEventBus()
	mw := &tagMiddleware{}
	bus.AddMiddleware(mw)
	rec := &recorder{}
	bus.Subscribe(NewBaseSubscriber("rec", []EventType{eventOther}, rec.handle))

	require.NoError(t, bus.PublishSync(Event{Type: eventOther}))
	assert.Equal(t, []EventType{eventOther}, mw.seen)
	assert.Equal(t, 1, rec.count())
}
