// Package store holds the session's task list and tells subscribers when it changes.
package store

import (
	"slices"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/harrisonrobin/clockit/pkg/task"
)

// ChangeKind says what happened to the collection.
type ChangeKind int

const (
	Added ChangeKind = iota + 1
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers after every mutation.
type Change struct {
	Kind ChangeKind
	Task task.Task
}

// Subscriber receives changes synchronously, after the store lock is released.
type Subscriber func(Change)

// Store owns the ordered task collection. Duplicates are allowed.
type Store struct {
	mu          sync.RWMutex
	tasks       []task.Task
	subscribers map[int]Subscriber
	nextID      int
}

// Option configures a Store at construction.
type Option func(*Store)

// WithSeed pre-populates the store with the two demo tasks dated today.
func WithSeed(today civil.Date) Option {
	return func(s *Store) {
		s.tasks = append(s.tasks, DemoTasks(today)...)
	}
}

// WithTasks appends tasks, in order, after any seed.
func WithTasks(tasks ...task.Task) Option {
	return func(s *Store) {
		s.tasks = append(s.tasks, tasks...)
	}
}

// DemoTasks returns the bootstrap tasks shown on first launch.
func DemoTasks(today civil.Date) []task.Task {
	return []task.Task{
		task.New("CSC 430", "College of Staten Island, Room 1N 118", "9:05", "12:05", today),
		task.New("CSC 330", "College of Staten Island, Room 1N 118", "2:05", "3:15", today),
	}
}

// New creates a store. Options are applied in order.
func New(opts ...Option) *Store {
	s := &Store{subscribers: make(map[int]Subscriber)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends t to the end of the collection.
func (s *Store) Add(t task.Task) {
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	s.notify(Change{Kind: Added, Task: t})
}

// Remove deletes the first task equal to t. It is a no-op when there is none.
func (s *Store) Remove(t task.Task) {
	s.mu.Lock()
	removed := false
	for i, existing := range s.tasks {
		if existing == t {
			s.tasks = slices.Delete(s.tasks, i, i+1)
			removed = true
			break
		}
	}
	s.mu.Unlock()
	if removed {
		s.notify(Change{Kind: Removed, Task: t})
	}
}

// On returns the tasks dated d in insertion order. It scans the whole
// collection on every call.
func (s *Store) On(d civil.Date) []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []task.Task
	for _, t := range s.tasks {
		if t.Date == d {
			out = append(out, t)
		}
	}
	return out
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Subscribe registers fn for every future change and returns a function that
// removes it.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	subs := make([]Subscriber, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		subs = append(subs, s.subscribers[id])
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(c)
	}
}
