package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/s1natex/taskboard/internal/kv"
)

const DefaultKey = "todos"

// Store owns the task collection. Every mutation writes the full collection
// to the slot and only replaces the in-memory copy once that write succeeds.
type Store struct {
	mu     sync.Mutex
	slot   kv.Slot
	key    string
	tasks  []Task
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open builds a Store and loads whatever the slot holds. Missing or
// unreadable data starts the store empty.
func Open(ctx context.Context, slot kv.Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		key:    DefaultKey,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = s.load(ctx)
	storeTasks.Set(float64(len(s.tasks)))
	return s
}

func (s *Store) load(ctx context.Context) []Task {
	data, err := s.slot.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn("store_load_failed", slog.String("key", s.key), slog.String("error", err.Error()))
		return nil
	}
	tasks, err := decodeTasks(data)
	if err != nil {
		s.logger.Warn("store_load_failed", slog.String("key", s.key), slog.String("error", err.Error()))
		return nil
	}
	s.logger.Debug("store_loaded", slog.String("key", s.key), slog.Int("count", len(tasks)))
	return tasks
}

// commit persists next and swaps it in. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []Task) error {
	ctx, span := tracer.Start(ctx, "tasks.persist")
	defer span.End()
	span.SetAttributes(
		attribute.String("kv.key", s.key),
		attribute.Int("tasks.count", len(next)),
	)

	data, err := encodeTasks(next)
	if err == nil {
		err = s.slot.Put(ctx, s.key, data)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		s.logger.Error("store_persist_failed", slog.String("key", s.key), slog.String("error", err.Error()))
		return fmt.Errorf("persist tasks: %w", err)
	}

	s.tasks = next
	storeTasks.Set(float64(len(next)))
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

func (s *Store) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.tasks)
}

func (s *Store) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

func (s *Store) Create(ctx context.Context, title, description string, due Due) (t Task, err error) {
	defer func() { observeMutation("create", err) }()

	if strings.TrimSpace(title) == "" {
		return Task{}, ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t = Task{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   s.now(),
		DueDate:     due,
	}
	next := append(slices.Clone(s.tasks), t)
	if err := s.commit(ctx, next); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Store) Update(ctx context.Context, id string, p Patch) (t Task, err error) {
	defer func() { observeMutation("update", err) }()

	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return Task{}, ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	next := slices.Clone(s.tasks)
	next[i] = p.apply(next[i])
	if err := s.commit(ctx, next); err != nil {
		return Task{}, err
	}
	return next[i], nil
}

// Delete removes the task and returns the removed record.
func (s *Store) Delete(ctx context.Context, id string) (t Task, err error) {
	defer func() { observeMutation("delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	removed := s.tasks[i]
	next := slices.Delete(slices.Clone(s.tasks), i, i+1)
	if err := s.commit(ctx, next); err != nil {
		return Task{}, err
	}
	return removed, nil
}

func (s *Store) ToggleComplete(ctx context.Context, id string) (t Task, err error) {
	defer func() { observeMutation("toggle", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	next := slices.Clone(s.tasks)
	next[i].Completed = !next[i].Completed
	if err := s.commit(ctx, next); err != nil {
		return Task{}, err
	}
	return next[i], nil
}
