package util

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/clockit/pkg/task"
)

// KeyProperty is the private extended property holding a task's key on its event.
const KeyProperty = "clockit_key"

// ConvertTaskToCalendarEvent builds the event for t. When both times read as
// HH:MM the event is timed in loc, otherwise it is an all-day event on t's
// date. An end before the start is taken to be on the next day.
func ConvertTaskToCalendarEvent(t task.Task, loc *time.Location, colorID string) (*calendar.Event, error) {
	if !t.Date.IsValid() {
		return nil, fmt.Errorf("task %q has an invalid date %s", t.Title, t.Date)
	}
	if loc == nil {
		loc = time.Local
	}

	event := &calendar.Event{
		Summary:     t.Title,
		Location:    t.Location,
		ColorId:     colorID,
		Description: describe(t),
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				KeyProperty: t.Key().String(),
			},
		},
	}

	start, startOK := task.ParseClock(t.StartTime)
	end, endOK := task.ParseClock(t.EndTime)
	if !startOK || !endOK {
		event.Start = &calendar.EventDateTime{Date: t.Date.String()}
		event.End = &calendar.EventDateTime{Date: t.Date.AddDays(1).String()}
		return event, nil
	}

	endDate := t.Date
	if end.Before(start) {
		endDate = endDate.AddDays(1)
	}
	startAt := civil.DateTime{Date: t.Date, Time: start}.In(loc)
	endAt := civil.DateTime{Date: endDate, Time: end}.In(loc)

	event.Start = &calendar.EventDateTime{DateTime: startAt.Format(time.RFC3339)}
	event.End = &calendar.EventDateTime{DateTime: endAt.Format(time.RFC3339)}
	return event, nil
}

func describe(t task.Task) string {
	var b strings.Builder
	if t.StartTime != "" || t.EndTime != "" {
		fmt.Fprintf(&b, "Time: %s – %s\n", t.StartTime, t.EndTime)
	}
	if t.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", t.Location)
	}
	b.WriteString("Published by clockit\n")
	return b.String()
}

// EventNeedsUpdate returns a patch holding the fields of target that differ
// from existing, or nil when they match.
func EventNeedsUpdate(existing, target *calendar.Event) (*calendar.Event, error) {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Location != target.Location {
		patch.Location = target.Location
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}

	sameStart, err := sameMoment(existing.Start, target.Start)
	if err != nil {
		return nil, err
	}
	sameEnd, err := sameMoment(existing.End, target.End)
	if err != nil {
		return nil, err
	}
	if !sameStart || !sameEnd {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch, nil
	}
	return nil, nil
}

func sameMoment(a, b *calendar.EventDateTime) (bool, error) {
	if a == nil || b == nil {
		return a == b, nil
	}
	if a.DateTime == "" || b.DateTime == "" {
		return a.DateTime == b.DateTime && a.Date == b.Date, nil
	}
	at, err := time.Parse(time.RFC3339, a.DateTime)
	if err != nil {
		return false, err
	}
	bt, err := time.Parse(time.RFC3339, b.DateTime)
	if err != nil {
		return false, err
	}
	return at.Equal(bt), nil
}
