package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// KeyPrefix namespaces every key written by the store.
const KeyPrefix = "checkmaster_"

const (
	keyTemplates = "templates"
	keyOrders    = "orders"
)

// Backend is a flat key-value store holding whole JSON documents.
// Load returns ErrNotFound when the key has never been written.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Store keeps templates and orders as two JSON collections. Every write
// rewrites the full collection; the last write wins.
type Store struct {
	kv    Backend
	mu    sync.Mutex
	newID func() string
}

type Option func(*Store)

// WithIDGenerator replaces the uuid generator used for duplicated templates.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func New(kv Backend, opts ...Option) *Store {
	s := &Store{kv: kv, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh identifier for templates, fields, options and orders.
func (s *Store) NewID() string {
	return s.newID()
}

func get[T any](ctx context.Context, kv Backend, key string, def T) (T, error) {
	const op = "storage.get"

	data, err := kv.Load(ctx, KeyPrefix+key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return def, nil
		}
		return def, fmt.Errorf("%s: %s: %w", op, key, err)
	}
	if len(data) == 0 {
		return def, nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		// a corrupted document reads as the default
		return def, nil
	}
	return v, nil
}

func set[T any](ctx context.Context, kv Backend, key string, value T) error {
	const op = "storage.set"

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}
	if err := kv.Save(ctx, KeyPrefix+key, data); err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}
	return nil
}

func (s *Store) templates(ctx context.Context) ([]ChecklistTemplate, error) {
	saved, err := get[[]ChecklistTemplate](ctx, s.kv, keyTemplates, nil)
	if err != nil {
		return nil, err
	}
	if len(saved) == 0 {
		presets := Presets()
		if err := set(ctx, s.kv, keyTemplates, presets); err != nil {
			return nil, err
		}
		return presets, nil
	}
	return saved, nil
}

// GetTemplates returns all templates in their stored order, seeding the
// presets when the collection is empty.
func (s *Store) GetTemplates(ctx context.Context) ([]ChecklistTemplate, error) {
	const op = "storage.GetTemplates"

	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.templates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return templates, nil
}

func (s *Store) GetTemplate(ctx context.Context, id string) (*ChecklistTemplate, error) {
	const op = "storage.GetTemplate"

	templates, err := s.GetTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i], nil
		}
	}
	return nil, fmt.Errorf("%s: template %q: %w", op, id, ErrNotFound)
}

// SaveTemplate replaces the template with the same id or appends it.
func (s *Store) SaveTemplate(ctx context.Context, t ChecklistTemplate) error {
	const op = "storage.SaveTemplate"

	if err := t.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.templates(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	idx := indexTemplate(templates, t.ID)
	if idx >= 0 {
		templates[idx] = t
	} else {
		templates = append(templates, t)
	}

	if err := set(ctx, s.kv, keyTemplates, templates); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	const op = "storage.DeleteTemplate"

	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.templates(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	idx := indexTemplate(templates, id)
	if idx < 0 {
		return fmt.Errorf("%s: template %q: %w", op, id, ErrNotFound)
	}
	templates = append(templates[:idx], templates[idx+1:]...)

	if err := set(ctx, s.kv, keyTemplates, templates); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DuplicateTemplate appends a deep copy of the template under a new id.
// The copy is never a favorite.
func (s *Store) DuplicateTemplate(ctx context.Context, id string) (*ChecklistTemplate, error) {
	const op = "storage.DuplicateTemplate"

	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.templates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idx := indexTemplate(templates, id)
	if idx < 0 {
		return nil, fmt.Errorf("%s: template %q: %w", op, id, ErrNotFound)
	}

	dup := templates[idx].Clone()
	dup.ID = s.newID()
	dup.Name = dup.Name + " (Cópia)"
	dup.IsFavorite = false
	templates = append(templates, dup)

	if err := set(ctx, s.kv, keyTemplates, templates); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &dup, nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	const op = "storage.ToggleFavorite"

	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.templates(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	idx := indexTemplate(templates, id)
	if idx < 0 {
		return false, fmt.Errorf("%s: template %q: %w", op, id, ErrNotFound)
	}
	templates[idx].IsFavorite = !templates[idx].IsFavorite

	if err := set(ctx, s.kv, keyTemplates, templates); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return templates[idx].IsFavorite, nil
}

// ReorderTemplates persists the templates in the order of ids, which must
// name every stored template exactly once.
func (s *Store) ReorderTemplates(ctx context.Context, ids []string) ([]ChecklistTemplate, error) {
	const op = "storage.ReorderTemplates"

	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.templates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) != len(templates) {
		return nil, fmt.Errorf("%s: %w: got %d ids for %d templates", op, ErrInvalid, len(ids), len(templates))
	}

	byID := make(map[string]ChecklistTemplate, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}

	reordered := make([]ChecklistTemplate, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%s: %w: unknown or repeated template %q", op, ErrInvalid, id)
		}
		delete(byID, id)
		reordered = append(reordered, t)
	}

	if err := set(ctx, s.kv, keyTemplates, reordered); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reordered, nil
}

func (s *Store) GetOrders(ctx context.Context) ([]ServiceOrder, error) {
	const op = "storage.GetOrders"

	orders, err := get[[]ServiceOrder](ctx, s.kv, keyOrders, []ServiceOrder{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*ServiceOrder, error) {
	const op = "storage.GetOrder"

	orders, err := s.GetOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, fmt.Errorf("%s: order %q: %w", op, id, ErrNotFound)
}

// SaveOrder replaces the order with the same id or appends it.
func (s *Store) SaveOrder(ctx context.Context, o ServiceOrder) error {
	const op = "storage.SaveOrder"

	if o.ID == "" {
		return fmt.Errorf("%s: %w: order id is empty", op, ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := get[[]ServiceOrder](ctx, s.kv, keyOrders, []ServiceOrder{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i := range orders {
		if orders[i].ID == o.ID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		orders[idx] = o
	} else {
		orders = append(orders, o)
	}

	if err := set(ctx, s.kv, keyOrders, orders); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func indexTemplate(templates []ChecklistTemplate, id string) int {
	for i := range templates {
		if templates[i].ID == id {
			return i
		}
	}
	return -1
}
