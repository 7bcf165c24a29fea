// internal/infrastructure/transport/event_bus/event_bus.go
package events

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"mr-trader-bot/pkg/logger"

	"github.com/google/uuid"
)

// ErrNotRunning шина не запущена
var ErrNotRunning = errors.New("event bus is not running")

// EventBus - центральная шина событий
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]EventSubscriber
	middlewares []Middleware
	eventBuffer chan Event
	metrics     Metrics
	metricsMu   sync.Mutex
	config      EventBusConfig
	running     bool
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// EventBusConfig - конфигурация EventBus
type EventBusConfig struct {
	BufferSize  int
	WorkerCount int
	MaxRetries  int
	RetryDelay  time.Duration
}

// Metrics счетчики шины
type Metrics struct {
	EventsPublished int64
	EventsProcessed int64
	EventsFailed    int64
	EventsDropped   int64
}

// DefaultConfig - конфигурация по умолчанию
var DefaultConfig = EventBusConfig{
	BufferSize:  256,
	WorkerCount: 2,
	MaxRetries:  3,
	RetryDelay:  200 * time.Millisecond,
}

// NewEventBus создает новую шину событий
func NewEventBus(config ...EventBusConfig) *EventBus {
	cfg := DefaultConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}

	return &EventBus{
		subscribers: make(map[EventType][]EventSubscriber),
		eventBuffer: make(chan Event, cfg.BufferSize),
		config:      cfg,
		stopChan:    make(chan struct{}),
	}
}

// Start запускает EventBus
func (b *EventBus) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return
	}
	b.running = true

	for i := 0; i < b.config.WorkerCount; i++ {
		b.wg.Add(1)
		go b.eventWorker(i)
	}
	logger.Info("🚀 EventBus запущен с %d обработчиками", b.config.WorkerCount)
}

// Stop останавливает EventBus, дожидаясь обработки буфера
func (b *EventBus) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	b.mu.Unlock()

	close(b.stopChan)
	b.wg.Wait()
	logger.Info("🛑 EventBus остановлен")
}

// Subscribe подписывает обработчик на все его типы событий
func (b *EventBus) Subscribe(subscriber EventSubscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, eventType := range subscriber.GetSubscribedEvents() {
		b.subscribers[eventType] = append(b.subscribers[eventType], subscriber)
		logger.Debug("✅ %s подписался на %s", subscriber.GetName(), eventType)
	}
}

// AddMiddleware добавляет middleware в цепочку обработки
func (b *EventBus) AddMiddleware(middleware Middleware) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.middlewares = append(b.middlewares, middleware)
}

// Publish ставит событие в очередь. При переполненном буфере событие отбрасывается.
func (b *EventBus) Publish(event Event) error {
	b.mu.RLock()
	running := b.running
	b.mu.RUnlock()
	if !running {
		return ErrNotRunning
	}

	stamp(&event)

	select {
	case b.eventBuffer <- event:
		b.count(func(m *Metrics) { m.EventsPublished++ })
		logger.Debug("📤 Опубликовано событие: %s от %s", event.Type, event.Source)
		return nil
	default:
		b.count(func(m *Metrics) { m.EventsDropped++ })
		return fmt.Errorf("буфер событий переполнен, событие %s отброшено", event.Type)
	}
}

// PublishSync обрабатывает событие в текущей горутине
func (b *EventBus) PublishSync(event Event) error {
	stamp(&event)
	b.count(func(m *Metrics) { m.EventsPublished++ })
	return b.processEvent(event)
}

// GetMetrics возвращает снимок метрик
func (b *EventBus) GetMetrics() Metrics {
	b.metricsMu.Lock()
	defer b.metricsMu.Unlock()
	return b.metrics
}

// GetSubscriberCount количество подписчиков на тип события
func (b *EventBus) GetSubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[eventType])
}

// IsRunning запущена ли шина
func (b *EventBus) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}

// eventWorker - обработчик событий
func (b *EventBus) eventWorker(id int) {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventBuffer:
			b.processEvent(event)
		case <-b.stopChan:
			// Дорабатываем то, что уже в буфере
			for {
				select {
				case event := <-b.eventBuffer:
					b.processEvent(event)
				default:
					logger.Debug("🔍 [EventWorker %d] Остановлен", id)
					return
				}
			}
		}
	}
}

// processEvent обрабатывает одно событие всеми подписчиками
func (b *EventBus) processEvent(event Event) error {
	b.mu.RLock()
	subscribers := append([]EventSubscriber(nil), b.subscribers[event.Type]...)
	middlewares := append([]Middleware(nil), b.middlewares...)
	b.mu.RUnlock()

	defer b.count(func(m *Metrics) { m.EventsProcessed++ })

	if len(subscribers) == 0 {
		logger.Debug("⚠️ Нет подписчиков для события: %s", event.Type)
		return nil
	}

	handler := b.createHandlerChain(subscribers)
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw, next := middlewares[i], handler
		handler = func(e Event) error { return mw.Process(e, next) }
	}
	return handler(event)
}

// createHandlerChain вызывает подписчиков по очереди, ошибка одного не останавливает остальных
func (b *EventBus) createHandlerChain(subscribers []EventSubscriber) HandlerFunc {
	return func(event Event) error {
		var lastError error
		for _, subscriber := range subscribers {
			if err := b.handleEventWithRetry(event, subscriber); err != nil {
				lastError = err
				logger.Error("❌ Ошибка обработки события %s подписчиком %s: %v",
					event.Type, subscriber.GetName(), err)
			}
		}
		return lastError
	}
}

// handleEventWithRetry обрабатывает событие с повторными попытками
func (b *EventBus) handleEventWithRetry(event Event, subscriber EventSubscriber) error {
	var err error
	for attempt := 0; attempt <= b.config.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(b.config.RetryDelay)
		}
		if err = b.safeExecute(event, subscriber); err == nil {
			return nil
		}
		logger.Debug("🔁 %s: попытка %d для %s не удалась: %v", subscriber.GetName(), attempt+1, event.Type, err)
	}
	b.count(func(m *Metrics) { m.EventsFailed++ })
	return err
}

// safeExecute вызывает подписчика с защитой от паники
func (b *EventBus) safeExecute(event Event, subscriber EventSubscriber) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("💥 Паника в подписчике %s: %v\n%s", subscriber.GetName(), r, debug.Stack())
			err = fmt.Errorf("паника: %v", r)
		}
	}()
	return subscriber.HandleEvent(event)
}

func (b *EventBus) count(update func(*Metrics)) {
	b.metricsMu.Lock()
	update(&b.metrics)
	b.metricsMu.Unlock()
}

func stamp(event *Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
}
