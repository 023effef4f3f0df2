package task

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// keySpace namespaces task fingerprints so they never collide with other
// name-based UUIDs.
var keySpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://clockit.app/task"))

// Task is one scheduled item. Two tasks with the same fields are the same task;
// there is no identifier. Times are kept as entered.
type Task struct {
	Title     string
	Location  string
	StartTime string
	EndTime   string
	Date      civil.Date
}

// New builds a Task without validating any field.
func New(title, location, start, end string, date civil.Date) Task {
	return Task{
		Title:     title,
		Location:  location,
		StartTime: start,
		EndTime:   end,
		Date:      date,
	}
}

// Key returns a fingerprint of every field of t. Structurally equal tasks share a key.
func (t Task) Key() uuid.UUID {
	name := t.Title + "\x00" + t.Location + "\x00" + t.StartTime + "\x00" + t.EndTime + "\x00" + t.Date.String()
	return uuid.NewSHA1(keySpace, []byte(name))
}

// ParseClock reads an "H:MM" or "HH:MM" time of day. The boolean is false for
// free text that is not a clock time.
func ParseClock(s string) (civil.Time, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return civil.Time{}, false
	}
	return civil.TimeOf(t), true
}
