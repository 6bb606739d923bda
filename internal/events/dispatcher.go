package events

import (
	"sync"

	"go.uber.org/zap"
)

// Handler consumes a published event. Handlers run synchronously on the
// publisher's goroutine, so a successful transition is observable in the
// hub as soon as the triggering call returns.
type Handler func(Event)

// Dispatcher fans events out to subscribers.
type Dispatcher interface {
	Publish(event Event)
	Subscribe(eventType Type, handler Handler)
}

type inMemoryDispatcher struct {
	logger *zap.Logger

	mu        sync.RWMutex
	listeners map[Type][]Handler
}

// NewInMemoryDispatcher creates a synchronous in-process dispatcher.
func NewInMemoryDispatcher(logger *zap.Logger) Dispatcher {
	return &inMemoryDispatcher{
		logger:    logger,
		listeners: make(map[Type][]Handler),
	}
}

func (d *inMemoryDispatcher) Publish(event Event) {
	d.mu.RLock()
	handlers := append([]Handler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	d.logger.Debug("event published",
		zap.String("type", string(event.Type)),
		zap.String("ticket_id", event.Ticket.ID))
	for _, handler := range handlers {
		handler(event)
	}
}

func (d *inMemoryDispatcher) Subscribe(eventType Type, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}
