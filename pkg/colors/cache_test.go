package colors

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *ColorCache {
	t.Helper()
	c, err := NewColorCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewColorCache failed: %v", err)
	}
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return c
}

func TestColorIDIsStablePerTitle(t *testing.T) {
	c := newTestCache(t)
	first := c.ColorID("CSC 430")
	if got := c.ColorID("CSC 430"); got != first {
		t.Errorf("ColorID changed from %s to %s", first, got)
	}
	if other := c.ColorID("CSC 330"); other == first {
		t.Errorf("Two titles share color %s while the palette has room", first)
	}
	if got := c.ColorID(""); got != UntitledColorID {
		t.Errorf("ColorID(\"\") = %s, want %s", got, UntitledColorID)
	}
}

func TestColorIDEvictsLeastRecentlyUsed(t *testing.T) {
	c := newTestCache(t)
	ids := make(map[string]string)
	for i := 0; i < paletteSize; i++ {
		title := fmt.Sprintf("task-%d", i)
		ids[title] = c.ColorID(title)
	}
	// Touch task-0 so task-1 becomes the oldest.
	c.ColorID("task-0")

	got := c.ColorID("newcomer")
	if got != ids["task-1"] {
		t.Errorf("newcomer got %s, want task-1's color %s", got, ids["task-1"])
	}
	if _, ok := c.Titles["task-1"]; ok {
		t.Error("Expected task-1 to be evicted")
	}
}

func TestColorCacheSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	c, err := NewColorCache(dir)
	if err != nil {
		t.Fatalf("NewColorCache failed: %v", err)
	}
	id := c.ColorID("Gym")
	if err := c.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened, err := NewColorCache(dir)
	if err != nil {
		t.Fatalf("NewColorCache failed: %v", err)
	}
	if got := reopened.ColorID("Gym"); got != id {
		t.Errorf("reloaded ColorID = %s, want %s", got, id)
	}
}

func TestColorCacheConcurrentUse(t *testing.T) {
	c, err := NewColorCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewColorCache failed: %v", err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.ColorID(fmt.Sprintf("worker-%d-task-%d", w, i))
				if i%10 == 0 {
					if err := c.Save(); err != nil {
						t.Errorf("Save failed: %v", err)
					}
				}
			}
		}(w)
	}
	wg.Wait()

	if len(c.Titles) != paletteSize {
		t.Errorf("cache holds %d titles, want %d", len(c.Titles), paletteSize)
	}
}
