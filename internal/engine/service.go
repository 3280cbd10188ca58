package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"garden/internal/logfields"
	"garden/internal/storage"
)

// Service owns the garden state: tasks, plants, stats and unlocked achievements.
// Every mutation updates memory first, then writes the affected records to the store
// and publishes events. Operations are serialized.
type Service struct {
	mu     sync.Mutex
	store  storage.Store
	rng    Rand
	now    func() time.Time
	sink   EventSink
	logger *slog.Logger

	tasks    []storage.Task
	plants   []storage.Plant
	stats    storage.Stats
	unlocked []string
	lastID   int64
}

type Option func(*Service)

// WithRand sets the source used to pick plant symbols.
func WithRand(r Rand) Option {
	return func(s *Service) { s.rng = r }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSink adds an event sink. It may be given several times.
func WithSink(sink EventSink) Option {
	return func(s *Service) {
		if sink == nil {
			return
		}
		if existing, ok := s.sink.(Sinks); ok {
			s.sink = append(existing, sink)
			return
		}
		s.sink = Sinks{sink}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		now:      time.Now,
		sink:     Sinks{},
		tasks:    []storage.Task{},
		plants:   []storage.Plant{},
		unlocked: []string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewRand(0)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Load replaces the in-memory state with what the store holds.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.store.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("load garden: %w", err)
	}
	plants, err := s.store.LoadPlants(ctx)
	if err != nil {
		return fmt.Errorf("load garden: %w", err)
	}
	stats, err := s.store.LoadStats(ctx)
	if err != nil {
		return fmt.Errorf("load garden: %w", err)
	}
	unlocked, err := s.store.LoadUnlocked(ctx)
	if err != nil {
		return fmt.Errorf("load garden: %w", err)
	}

	s.tasks = tasks
	s.plants = plants
	s.stats = stats
	s.unlocked = unlocked
	for _, t := range tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	s.logger.Debug("garden loaded",
		slog.Int("tasks", len(tasks)),
		slog.Int("plants", len(plants)),
		slog.Int("unlocked", len(unlocked)))
	return nil
}

// Tasks returns the tasks in creation order.
func (s *Service) Tasks() []storage.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]storage.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = cloneTask(t)
	}
	return out
}

// SortedTasks returns the tasks in display order.
func (s *Service) SortedTasks() []storage.Task {
	return SortForDisplay(s.Tasks())
}

// Task looks a task up by id.
func (s *Service) Task(id int64) (storage.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneTask(s.tasks[i]), true
	}
	return storage.Task{}, false
}

// Plants returns the plants in growth order.
func (s *Service) Plants() []storage.Plant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.plants)
}

// Plant looks a plant up by id or by a unique id prefix.
func (s *Service) Plant(id string) (storage.Plant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Plant{}, false
	}
	var found *storage.Plant
	for i := range s.plants {
		p := &s.plants[i]
		if p.ID == id {
			return *p, true
		}
		if strings.HasPrefix(p.ID, id) {
			if found != nil {
				return storage.Plant{}, false
			}
			found = p
		}
	}
	if found == nil {
		return storage.Plant{}, false
	}
	return *found, true
}

func (s *Service) Stats() storage.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Unlocked returns the unlocked achievement ids in unlock order.
func (s *Service) Unlocked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.unlocked)
}

// Achievements returns the catalog with the garden's unlocked flags.
func (s *Service) Achievements() []AchievementStatus {
	return AchievementStatuses(s.Unlocked())
}

// IsEmpty reports whether the garden has neither tasks nor plants.
func (s *Service) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks) == 0 && len(s.plants) == 0
}

func (s *Service) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextTaskID returns the creation instant in milliseconds, bumped past the last id.
func (s *Service) nextTaskID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Service) publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = s.now().UTC()
	}
	s.sink.Publish(ctx, e)
}

// saveState persists a multi-key change. Stores implementing storage.BatchStore
// get the whole state in one step; others get the listed keys one by one.
func (s *Service) saveState(ctx context.Context, keys ...string) error {
	bs, ok := s.store.(storage.BatchStore)
	if !ok {
		return s.save(ctx, keys...)
	}
	err := bs.SaveSnapshot(ctx, storage.Snapshot{
		Tasks:    s.tasks,
		Plants:   s.plants,
		Stats:    s.stats,
		Unlocked: s.unlocked,
	})
	if err != nil {
		s.logger.Debug("store snapshot failed", logfields.Error(err))
	}
	return err
}

// save writes the given keys and joins every failure. It keeps going after a
// failed key so the other records still reach the store.
func (s *Service) save(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		var err error
		switch key {
		case storage.KeyTasks:
			err = s.store.SaveTasks(ctx, s.tasks)
		case storage.KeyPlants:
			err = s.store.SavePlants(ctx, s.plants)
		case storage.KeyStats:
			err = s.store.SaveStats(ctx, s.stats)
		case storage.KeyAchievements:
			err = s.store.SaveUnlocked(ctx, s.unlocked)
		default:
			err = fmt.Errorf("unknown key %q", key)
		}
		if err != nil {
			s.logger.Debug("store write failed", logfields.Key(key), logfields.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// persistFailed reports a failed write: logs it, publishes persistence-failed and
// returns the PersistError handed back to the caller. It returns nil for a nil err.
func (s *Service) persistFailed(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	s.logger.Error("garden state not persisted", logfields.Op(op), logfields.Error(err))
	s.publish(ctx, Event{Kind: EventPersistenceFailed, Message: err.Error()})
	return &PersistError{Op: op, Err: err}
}

func cloneTask(t storage.Task) storage.Task {
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		t.CompletedAt = &v
	}
	return t
}
