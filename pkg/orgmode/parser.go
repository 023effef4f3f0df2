package orgmode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/harrisonrobin/clockit/pkg/task"
)

var (
	headingRegex   = regexp.MustCompile(`^\*+\s+(?:(?:TODO|DONE|NEXT|WAITING)\s+)?(?:\[#[A-Z]\]\s*)?(.*?)(?:\s+(:\w+(:\w+)*:))?\s*$`)
	scheduledRegex = regexp.MustCompile(`SCHEDULED:\s+<(\d{4}-\d{2}-\d{2})(?:\s+[^\s>\d]+)?(?:\s+(\d{1,2}:\d{2})(?:-(\d{1,2}:\d{2}))?)?[^>]*>`)
	locationRegex  = regexp.MustCompile(`^:LOCATION:\s+(.*)$`)
)

// ParseFile reads the scheduled headings of an Org file.
func ParseFile(path string) ([]task.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse turns every heading carrying a SCHEDULED timestamp into a task. The
// heading text is the title, the timestamp gives the date and time range and
// a :LOCATION: property the location. Unscheduled headings are skipped.
func Parse(r io.Reader) ([]task.Task, error) {
	scanner := bufio.NewScanner(r)
	var tasks []task.Task
	var current *task.Task
	scheduled := false

	flush := func() {
		if current != nil && scheduled {
			tasks = append(tasks, *current)
		}
		current, scheduled = nil, false
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "*") {
			if matches := headingRegex.FindStringSubmatch(line); matches != nil {
				flush()
				current = &task.Task{Title: strings.TrimSpace(matches[1])}
				continue
			}
		}
		if current == nil {
			continue
		}

		if matches := scheduledRegex.FindStringSubmatch(line); matches != nil {
			d, err := civil.ParseDate(matches[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			current.Date = d
			current.StartTime = matches[2]
			current.EndTime = matches[3]
			scheduled = true
		} else if matches := locationRegex.FindStringSubmatch(line); matches != nil {
			current.Location = strings.TrimSpace(matches[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return tasks, nil
}
