// Package calendar computes the week strip and month header shown by the
// schedule screen. Every function is pure.
package calendar

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/goodsign/monday"
	"golang.org/x/text/cases"
)

// Day is one cell of the week strip.
type Day struct {
	Label      string
	DayOfMonth int
	Date       civil.Date
}

// Month is a calendar month without a day.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d civil.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// WeekStrip returns the seven days starting at weekStart. Callers pass a
// Sunday; the function does not check.
func WeekStrip(weekStart civil.Date, locale Locale) [7]Day {
	locale = locale.orDefault()
	var days [7]Day
	for i := range days {
		d := weekStart.AddDays(i)
		days[i] = Day{
			Label:      monday.Format(d.In(time.UTC), "Mon", locale.names),
			DayOfMonth: d.Day,
			Date:       d,
		}
	}
	return days
}

// WeekStartOf returns the Sunday on or before d.
func WeekStartOf(d civil.Date) civil.Date {
	return d.AddDays(-int(d.In(time.UTC).Weekday()))
}

// PreviousWeek moves weekStart back seven days.
func PreviousWeek(weekStart civil.Date) civil.Date {
	return weekStart.AddDays(-7)
}

// NextWeek moves weekStart forward seven days.
func NextWeek(weekStart civil.Date) civil.Date {
	return weekStart.AddDays(7)
}

// PreviousMonth returns the month before m, rolling into the previous year
// from January.
func PreviousMonth(m Month) Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// NextMonth returns the month after m, rolling into the next year from December.
func NextMonth(m Month) Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// DisplayLabel renders m as "<Month name> <year>" with the month name
// capitalized, e.g. "Janvier 2025" for fr_FR.
func DisplayLabel(m Month, locale Locale) string {
	locale = locale.orDefault()
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	name := monday.Format(first, "January", locale.names)
	name = cases.Title(locale.tag, cases.NoLower).String(name)
	return fmt.Sprintf("%s %d", name, m.Year)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
