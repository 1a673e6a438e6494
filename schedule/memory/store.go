// Package memory provides an in-memory event and resource store, useful
// as the snapshot source for layout passes in tests and small hosts.
package memory

import (
	"fmt"
	"sync"

	"github.com/schedgrid/schedgrid/layout"
	"github.com/schedgrid/schedgrid/schedule"
)

// Store keeps events and resources in maps guarded by a single RWMutex.
// Snapshot returns copies, so a layout pass can run on the result while
// writers keep mutating the store.
type Store struct {
	mu        sync.RWMutex
	events    map[string]schedule.Event
	resources map[string]layout.Resource
	order     []string // resource insertion order, lanes are stable
}

// New creates an empty store.
func New() *Store {
	return &Store{
		events:    make(map[string]schedule.Event),
		resources: make(map[string]layout.Resource),
	}
}

// PutEvent inserts or replaces an event. Overrides share their master's
// key, so they are stored under key + recurrence id.
func (s *Store) PutEvent(ev schedule.Event) error {
	if ev.Key == "" {
		return fmt.Errorf("event key is required: %w", schedule.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[eventKey(ev)] = ev
	return nil
}

// GetEvent retrieves a base event by key.
func (s *Store) GetEvent(key string) (schedule.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[key]
	if !ok {
		return schedule.Event{}, fmt.Errorf("event %q: %w", key, schedule.ErrNotFound)
	}
	return ev, nil
}

// DeleteEvent removes a base event and all its overrides.
func (s *Store) DeleteEvent(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[key]; !ok {
		return fmt.Errorf("event %q: %w", key, schedule.ErrNotFound)
	}
	for storeKey, ev := range s.events {
		if ev.Key == key {
			delete(s.events, storeKey)
		}
	}
	return nil
}

// PutResource inserts or replaces a resource lane.
func (s *Store) PutResource(res layout.Resource) error {
	if res.Name == "" {
		return fmt.Errorf("resource name is required: %w", schedule.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resources[res.Name]; !ok {
		s.order = append(s.order, res.Name)
	}
	s.resources[res.Name] = res
	return nil
}

// DeleteResource removes a resource lane. Events pointing at it stay; the
// layout engine simply stops finding a lane for them.
func (s *Store) DeleteResource(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[name]; !ok {
		return fmt.Errorf("resource %q: %w", name, schedule.ErrNotFound)
	}
	delete(s.resources, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Snapshot returns copies of all events and resources; resources keep
// their insertion order so timeline lanes do not jump between passes.
func (s *Store) Snapshot() ([]schedule.Event, []layout.Resource) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]schedule.Event, 0, len(s.events))
	for _, ev := range s.events {
		events = append(events, ev)
	}
	resources := make([]layout.Resource, 0, len(s.order))
	for _, name := range s.order {
		resources = append(resources, s.resources[name])
	}
	return events, resources
}

func eventKey(ev schedule.Event) string {
	if ev.IsOverride && ev.Recurrence.RecurrenceID != nil {
		return fmt.Sprintf("%s@%s", ev.Key, ev.Recurrence.RecurrenceID.UTC().Format("20060102T150405Z"))
	}
	return ev.Key
}
