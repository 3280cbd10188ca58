package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"garden/internal/logfields"
	"garden/internal/storage"
)

type EventKind string

const (
	EventTaskCreated         EventKind = "task-created"
	EventTaskCompleted       EventKind = "task-completed"
	EventTaskDeleted         EventKind = "task-deleted"
	EventPlantGrown          EventKind = "plant-grown"
	EventAchievementUnlocked EventKind = "achievement-unlocked"
	EventGardenReset         EventKind = "garden-reset"
	EventValidationFailed    EventKind = "validation-failed"
	EventPersistenceFailed   EventKind = "persistence-failed"
)

// Event is published to the presentation layer after a state change (or a rejected one).
// Only the fields relevant to Kind are set.
type Event struct {
	Kind        EventKind      `json:"kind"`
	At          time.Time      `json:"at"`
	Task        *storage.Task  `json:"task,omitempty"`
	Plant       *storage.Plant `json:"plant,omitempty"`
	Achievement *Achievement   `json:"achievement,omitempty"`
	Field       string         `json:"field,omitempty"`
	Message     string         `json:"message,omitempty"`
}

// EventSink receives garden events. Publish must not block for long; it runs inside
// the state manager's critical section.
type EventSink interface {
	Publish(ctx context.Context, e Event)
}

// Sinks fans an event out to every sink in order.
type Sinks []EventSink

func (s Sinks) Publish(ctx context.Context, e Event) {
	for _, sink := range s {
		if sink != nil {
			sink.Publish(ctx, e)
		}
	}
}

// LogSink writes every event to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) Publish(ctx context.Context, e Event) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{logfields.Event(string(e.Kind))}
	if e.Task != nil {
		attrs = append(attrs, logfields.TaskID(e.Task.ID))
	}
	if e.Plant != nil {
		attrs = append(attrs, logfields.PlantID(e.Plant.ID))
	}
	if e.Achievement != nil {
		attrs = append(attrs, logfields.Achievement(e.Achievement.ID))
	}
	level := slog.LevelInfo
	if e.Kind == EventPersistenceFailed {
		level = slog.LevelError
	}
	logger.Log(ctx, level, "garden event", attrs...)
}

// EventBuffer collects events in memory. It is safe for concurrent use.
type EventBuffer struct {
	mu     sync.Mutex
	events []Event
}

func (b *EventBuffer) Publish(_ context.Context, e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

// Drain returns the buffered events and empties the buffer.
func (b *EventBuffer) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

// Kinds returns the kinds of the buffered events without draining them.
func (b *EventBuffer) Kinds() []EventKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]EventKind, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Kind)
	}
	return out
}
