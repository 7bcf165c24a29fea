// internal/infrastructure/transport/event_bus/subscribers.go
package events

// BaseSubscriber - базовая реализация подписчика
type BaseSubscriber struct {
	name             string
	subscribedEvents []EventType
	handler          func(Event) error
}

// NewBaseSubscriber создает нового подписчика
func NewBaseSubscriber(name string, events []EventType, handler func(Event) error) *BaseSubscriber {
	return &BaseSubscriber{
		name:             name,
		subscribedEvents: events,
		handler:          handler,
	}
}

// HandleEvent обрабатывает событие
func (s *BaseSubscriber) HandleEvent(event Event) error {
	return s.handler(event)
}

// GetName возвращает имя подписчика
func (s *BaseSubscriber) GetName() string {
	return s.name
}

// GetSubscribedEvents возвращает типы событий
func (s *BaseSubscriber) GetSubscribedEvents() []EventType {
	return s.subscribedEvents
}
