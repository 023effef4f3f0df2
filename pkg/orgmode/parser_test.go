package orgmode

import (
	"strings"
	"testing"

	"cloud.google.com/go/civil"

	"github.com/harrisonrobin/clockit/pkg/task"
)

const agenda = `#+TITLE: Spring

* TODO CSC 430 :school:
  SCHEDULED: <2025-03-12 Wed 9:05-12:05>
  :PROPERTIES:
  :LOCATION: College of Staten Island, Room 1N 118
  :END:
* Groceries
  Some notes.
* DONE [#A] Dentist
  SCHEDULED: <2025-03-14 Fri>
`

func TestParse(t *testing.T) {
	tasks, err := Parse(strings.NewReader(agenda))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []task.Task{
		{
			Title:     "CSC 430",
			Location:  "College of Staten Island, Room 1N 118",
			StartTime: "9:05",
			EndTime:   "12:05",
			Date:      civil.Date{Year: 2025, Month: 3, Day: 12},
		},
		{
			Title: "Dentist",
			Date:  civil.Date{Year: 2025, Month: 3, Day: 14},
		},
	}
	if len(tasks) != len(want) {
		t.Fatalf("got %d tasks, want %d: %+v", len(tasks), len(want), tasks)
	}
	for i := range want {
		if tasks[i] != want[i] {
			t.Errorf("task %d = %+v, want %+v", i, tasks[i], want[i])
		}
	}
}

func TestParseInvalidDate(t *testing.T) {
	_, err := Parse(strings.NewReader("* Broken\n  SCHEDULED: <2025-13-40 Mon>\n"))
	if err == nil {
		t.Fatal("expected error for an invalid date")
	}
}
