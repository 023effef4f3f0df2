// Package index remembers which Google Calendar event each published task
// became, so republishing a task patches its event instead of adding another.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const (
	indexFile     = "events.json"
	formatVersion = 1
)

// snapshot is the on-disk form of the index.
type snapshot struct {
	Version int                  `json:"version"`
	Events  map[uuid.UUID]string `json:"events"`
}

// EventIndex maps task keys to event ids. Tasks that are structurally equal
// share a key and therefore one event. It is safe for concurrent use.
type EventIndex struct {
	Path string

	mu     sync.RWMutex
	events map[uuid.UUID]string
	dirty  bool
}

// NewEventIndex opens the index in dir. A missing file is an empty index.
func NewEventIndex(dir string) (*EventIndex, error) {
	idx := &EventIndex{
		Path:   filepath.Join(dir, indexFile),
		events: make(map[uuid.UUID]string),
	}
	if err := idx.load(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *EventIndex) load() error {
	data, err := os.ReadFile(idx.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read event index: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode event index %s: %w", idx.Path, err)
	}
	if snap.Version != formatVersion {
		return fmt.Errorf("event index %s has unsupported version %d", idx.Path, snap.Version)
	}
	if snap.Events != nil {
		idx.events = snap.Events
	}
	return nil
}

// Save writes the index when it changed since the last save. The file is
// replaced whole, so an interrupted save leaves the previous index intact.
func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}

	data, err := json.MarshalIndent(snapshot{Version: formatVersion, Events: idx.events}, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(idx.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, indexFile+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), idx.Path); err != nil {
		return fmt.Errorf("replace event index: %w", err)
	}
	idx.dirty = false
	return nil
}

// Get returns the event id for a task key, or "" when the task was never
// published.
func (idx *EventIndex) Get(key uuid.UUID) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.events[key]
}

func (idx *EventIndex) Set(key uuid.UUID, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.events[key] == eventID {
		return
	}
	idx.events[key] = eventID
	idx.dirty = true
}

func (idx *EventIndex) Remove(key uuid.UUID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.events[key]; !ok {
		return
	}
	delete(idx.events, key)
	idx.dirty = true
}
