package task

import (
	"encoding/json"
	"fmt"
	"io"

	"cloud.google.com/go/civil"
)

type wireTask struct {
	Title    string     `json:"title"`
	Location string     `json:"location,omitempty"`
	Start    string     `json:"start,omitempty"`
	End      string     `json:"end,omitempty"`
	Date     civil.Date `json:"date"`
}

// MarshalJSON implements the json.Marshaler interface for Task.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireTask{
		Title:    t.Title,
		Location: t.Location,
		Start:    t.StartTime,
		End:      t.EndTime,
		Date:     t.Date,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface for Task.
func (t *Task) UnmarshalJSON(b []byte) error {
	var w wireTask
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if !w.Date.IsValid() {
		return fmt.Errorf("task %q has no valid date", w.Title)
	}
	*t = New(w.Title, w.Location, w.Start, w.End, w.Date)
	return nil
}

// Decode parses a stream of JSON task objects from an io.Reader (one per line,
// or simply concatenated).
func Decode(r io.Reader) ([]Task, error) {
	var tasks []Task
	decoder := json.NewDecoder(r)
	for {
		var t Task
		if err := decoder.Decode(&t); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
