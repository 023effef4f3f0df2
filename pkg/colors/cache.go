package colors

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// TitleState is the color claimed by one task title.
type TitleState struct {
	ColorID  string    `json:"color_id"`
	LastUsed time.Time `json:"last_used"`
}

// ColorCache hands out Google Calendar event colors per task title, so that
// recurring entries (one course meeting every week) keep the same color.
// When every color is taken the least recently used title gives its color up.
// It is safe for concurrent use.
type ColorCache struct {
	Path   string
	Titles map[string]*TitleState `json:"titles"`

	mu    sync.Mutex
	dirty bool
	now   func() time.Time
}

const (
	cacheFile = "task_colors.json"

	// UntitledColorID is the gray used for tasks without a title.
	UntitledColorID = "8"
	paletteSize     = 11
)

// NewColorCache opens the cache kept in dir, loading it when present.
func NewColorCache(dir string) (*ColorCache, error) {
	cache := &ColorCache{
		Path:   filepath.Join(dir, cacheFile),
		Titles: make(map[string]*TitleState),
		now:    time.Now,
	}

	if _, err := os.Stat(cache.Path); err == nil {
		if err := cache.Load(); err != nil {
			return nil, err
		}
	}
	return cache, nil
}

func (c *ColorCache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	c.mu.Lock()
	defer c.mu.Unlock()
	return json.NewDecoder(f).Decode(&c.Titles)
}

// Save writes the cache if a title was claimed or used since the last save.
func (c *ColorCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0700); err != nil {
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	err = json.NewEncoder(f).Encode(c.Titles)
	if err == nil {
		c.dirty = false
	}
	return err
}

// ColorID returns the color for title, claiming one if the title is new.
func (c *ColorCache) ColorID(title string) string {
	if title == "" {
		return UntitledColorID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if state, exists := c.Titles[title]; exists {
		state.LastUsed = c.now()
		c.dirty = true
		return state.ColorID
	}
	return c.assignColor(title)
}

// assignColor requires c.mu.
func (c *ColorCache) assignColor(title string) string {
	used := make(map[string]bool)
	for _, s := range c.Titles {
		used[s.ColorID] = true
	}

	for i := 1; i <= paletteSize; i++ {
		id := strconv.Itoa(i)
		if !used[id] {
			c.claim(title, id)
			return id
		}
	}

	var oldestTitle string
	var oldestTime time.Time
	first := true
	for t, s := range c.Titles {
		if first || s.LastUsed.Before(oldestTime) {
			oldestTime = s.LastUsed
			oldestTitle = t
			first = false
		}
	}

	recycled := c.Titles[oldestTitle].ColorID
	delete(c.Titles, oldestTitle)
	c.claim(title, recycled)
	return recycled
}

func (c *ColorCache) claim(title, id string) {
	c.Titles[title] = &TitleState{ColorID: id, LastUsed: c.now()}
	c.dirty = true
}
