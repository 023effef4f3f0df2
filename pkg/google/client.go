package google

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/clockit/pkg/auth"
	"github.com/harrisonrobin/clockit/pkg/colors"
	"github.com/harrisonrobin/clockit/pkg/index"
)

// NewClient authenticates with the OAuth files in dir and resolves
// calendarName to its id.
func NewClient(ctx context.Context, calendarName, dir string, idx *index.EventIndex, cache *colors.ColorCache) (*CalendarClient, error) {
	srv, err := auth.GetCalendarService(ctx, dir)
	if err != nil {
		return nil, err
	}

	calendarID, err := FindCalendar(ctx, srv, calendarName)
	if err != nil {
		return nil, err
	}
	return NewCalendarClient(srv, calendarID, idx, cache), nil
}

// FindCalendar returns the id of the calendar whose summary is name.
func FindCalendar(ctx context.Context, srv *calendar.Service, name string) (string, error) {
	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
	}

	for _, item := range calendarList.Items {
		if item.Summary == name {
			return item.Id, nil
		}
	}
	return "", fmt.Errorf("calendar '%s' not found", name)
}
