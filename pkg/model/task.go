package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Status string

const (
	COMPLETED Status = "completed"
	PENDING   Status = "pending"
	UNKNOWN   Status = "unknown"
)

// taskNamespace scopes the deterministic task IDs handed to external systems.
var taskNamespace = uuid.MustParse("6f1c2a4e-3b7d-5e09-9a61-0c8d2f4b7e13")

// Task is one work item parsed from a PRD heading block.
type Task struct {
	Number      int
	Name        string
	Time        Clock
	Status      Status
	Marker      string // raw heading marker, e.g. "✅"
	Description string
	Solution    string // completed tasks only
	StatusNote  string // pending tasks only
}

// ID derives a stable identifier for the task on the given day (YYYYMMDD).
// Renaming or renumbering a task yields a new ID.
func (t Task) ID(day string) string {
	key := fmt.Sprintf("%s/%d/%s", day, t.Number, strings.TrimSpace(t.Name))
	return uuid.NewSHA1(taskNamespace, []byte(key)).String()
}

// Heading renders the task back into the PRD heading format.
func (t Task) Heading() string {
	marker := t.Marker
	if marker == "" {
		marker = t.Status.Marker()
	}
	return fmt.Sprintf("### %s %d. %s — **%s**", marker, t.Number, t.Name, t.Time)
}

// Marker returns the canonical heading symbol for a status.
func (s Status) Marker() string {
	switch s {
	case COMPLETED:
		return "✅"
	case PENDING:
		return "⏳"
	default:
		return "•"
	}
}

var (
	completedMarkers = []string{"✅", "✔", "☑", "[x]", "[X]"}
	pendingMarkers   = []string{"⏳", "⌛", "[ ]"}
)

// StatusFromMarker classifies a heading marker. Checkmarks are completed,
// hourglasses are pending and anything else is unknown.
func StatusFromMarker(marker string) Status {
	for _, m := range completedMarkers {
		if strings.Contains(marker, m) {
			return COMPLETED
		}
	}
	for _, m := range pendingMarkers {
		if strings.Contains(marker, m) {
			return PENDING
		}
	}
	return UNKNOWN
}

// Clock is a wall-clock time of day without a date or zone.
type Clock struct {
	Hour   int
	Minute int
}

var clockRegex = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

// ParseClock parses a 24-hour HH:MM string.
func ParseClock(s string) (Clock, error) {
	m := clockRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Clock{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	if h > 23 || mins > 59 {
		return Clock{}, fmt.Errorf("time %q out of range", s)
	}
	return Clock{Hour: h, Minute: mins}, nil
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
