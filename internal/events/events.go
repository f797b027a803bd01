package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	EntrySaved   = "entry.saved"
	EntryDeleted = "entry.deleted"
)

// Event represents a lightweight domain event.
type Event struct {
	ID        string
	Type      string
	Login     string
	Date      string
	Payload   []byte
	CreatedAt time.Time
}

// EntryPayload is the body of entry events.
type EntryPayload struct {
	DayType string `json:"day_type,omitempty"`
	Created bool   `json:"created"`
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}

// NewEvent builds an event with a fresh id and a JSON payload.
func NewEvent(eventType, login, date string, payload any) (Event, error) {
	ev := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Login:     login,
		Date:      date,
		CreatedAt: time.Now(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		ev.Payload = data
	}
	return ev, nil
}

// EventHandler reacts to an event.
type EventHandler func(event Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	logger      *zerolog.Logger
}

// NewEventBus constructs an empty bus.
func NewEventBus(logger *zerolog.Logger) *EventBus {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &EventBus{subscribers: make(map[string][]EventHandler), logger: logger}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
// Handlers run synchronously; a failing handler does not stop the others.
func (b *EventBus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			b.logger.Warn().Err(err).Str("event", event.Type).Str("id", event.ID).Msg("event handler failed")
		}
	}
}

// LogSubscriber writes every entry event to the logger.
func LogSubscriber(logger *zerolog.Logger) EventHandler {
	return func(event Event) error {
		logger.Info().
			Str("event", event.Type).
			Str("id", event.ID).
			Str("login", event.Login).
			Str("date", event.Date).
			Msg("entry event")
		return nil
	}
}
