package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/harrisonrobin/clockit/pkg/colors"
	"github.com/harrisonrobin/clockit/pkg/index"
	"github.com/harrisonrobin/clockit/pkg/task"
	"github.com/harrisonrobin/clockit/pkg/util"
)

// CalendarClient publishes tasks to one Google Calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
	colors     *colors.ColorCache
	loc        *time.Location
}

// NewCalendarClient creates a client for calendarID. idx and cache may be nil.
func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex, cache *colors.ColorCache) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx, colors: cache, loc: time.Local}
}

// PublishTask creates the event for t or patches the one it already has.
func (c *CalendarClient) PublishTask(ctx context.Context, t task.Task) (*calendar.Event, error) {
	colorID := ""
	if c.colors != nil {
		colorID = c.colors.ColorID(t.Title)
	}
	event, err := util.ConvertTaskToCalendarEvent(t, c.loc, colorID)
	if err != nil {
		return nil, err
	}

	key := t.Key()
	var existing *calendar.Event
	if c.index != nil {
		if eventID := c.index.Get(key); eventID != "" {
			existing, err = c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
			if err != nil || existing.Status == "cancelled" {
				existing = nil
			}
		}
	}

	if existing == nil {
		existing, err = c.GetEventByTaskKey(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing != nil {
		patch, err := util.EventNeedsUpdate(existing, event)
		if err != nil {
			return nil, fmt.Errorf("could not compare task with its calendar event: %w", err)
		}
		c.remember(t, existing.Id)
		if patch == nil {
			return existing, nil
		}
		return c.PatchEvent(ctx, existing.Id, patch)
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	c.remember(t, created.Id)
	return created, nil
}

// PublishAll publishes every task and saves the index and color cache. It
// keeps going past failures and returns them joined.
func (c *CalendarClient) PublishAll(ctx context.Context, tasks []task.Task) (int, error) {
	published := 0
	var errs []error
	for _, t := range tasks {
		if _, err := c.PublishTask(ctx, t); err != nil {
			slog.Warn("could not publish task", "title", t.Title, "date", t.Date, "error", err)
			errs = append(errs, fmt.Errorf("%s on %s: %w", t.Title, t.Date, err))
			continue
		}
		published++
	}
	if err := c.save(); err != nil {
		errs = append(errs, err)
	}
	return published, errors.Join(errs...)
}

// UnpublishTask deletes the event of t. A task that was never published is
// not an error.
func (c *CalendarClient) UnpublishTask(ctx context.Context, t task.Task) error {
	eventID := ""
	if c.index != nil {
		eventID = c.index.Get(t.Key())
	}
	if eventID == "" {
		event, err := c.GetEventByTaskKey(ctx, t)
		if err != nil {
			return err
		}
		if event == nil {
			return nil
		}
		eventID = event.Id
	}

	if err := c.DeleteEvent(ctx, eventID); err != nil && !isGone(err) {
		return err
	}
	if c.index != nil {
		c.index.Remove(t.Key())
	}
	return c.save()
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

// DeleteEvent deletes an event from the calendar.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// GetEventByTaskKey searches for the event carrying t's key in its private
// extended properties.
func (c *CalendarClient) GetEventByTaskKey(ctx context.Context, t task.Task) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", util.KeyProperty, t.Key())).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

func (c *CalendarClient) remember(t task.Task, eventID string) {
	if c.index != nil {
		c.index.Set(t.Key(), eventID)
	}
}

func (c *CalendarClient) save() error {
	var errs []error
	if c.index != nil {
		if err := c.index.Save(); err != nil {
			errs = append(errs, fmt.Errorf("save event index: %w", err))
		}
	}
	if c.colors != nil {
		if err := c.colors.Save(); err != nil {
			errs = append(errs, fmt.Errorf("save color cache: %w", err))
		}
	}
	return errors.Join(errs...)
}

func isGone(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone
	}
	return false
}
