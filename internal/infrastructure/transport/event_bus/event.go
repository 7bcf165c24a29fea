// internal/infrastructure/transport/event_bus/event.go
package events

import "time"

// EventType тип события
type EventType string

// EventPaymentConfirmed платеж подтвержден и подписка активирована
const EventPaymentConfirmed EventType = "payment.confirmed"

// Event событие шины
type Event struct {
	ID        string
	Type      EventType
	Source    string
	Data      interface{}
	Timestamp time.Time
}

// EventSubscriber подписчик на события
type EventSubscriber interface {
	HandleEvent(event Event) error
	GetName() string
	GetSubscribedEvents() []EventType
}

// Middleware - промежуточное ПО для обработки событий
type Middleware interface {
	Process(event Event, next HandlerFunc) error
}

// HandlerFunc - функция обработки события
type HandlerFunc func(event Event) error
