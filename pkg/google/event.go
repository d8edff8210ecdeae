package google

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/prdaily/pkg/daily"
	"github.com/harrisonrobin/prdaily/pkg/estimate"
	"github.com/harrisonrobin/prdaily/pkg/model"
	"google.golang.org/api/calendar/v3"
)

// Private extended properties set on published events.
const (
	PropertyKey = "prdaily_id"
	DayKey      = "prdaily_day"
)

// Google Calendar event color IDs.
const (
	colorCompleted = "10" // basil
	colorPending   = "5"  // banana
	colorUnknown   = "8"  // graphite
)

// EventFromSlot converts a timeline slot into a calendar event. Pending tasks
// whose slot ended before now are marked overdue.
func EventFromSlot(slot daily.Slot, now time.Time) (*calendar.Event, error) {
	if slot.ID == "" {
		return nil, errors.New("could not convert slot without ID")
	}
	if !slot.End.After(slot.Start) {
		return nil, fmt.Errorf("slot %s has no duration", slot.ID)
	}
	t := slot.Task

	prefix, color := "", colorUnknown
	switch t.Status {
	case model.COMPLETED:
		prefix, color = "✓", colorCompleted
	case model.PENDING:
		color = colorPending
		if slot.End.Before(now) {
			prefix = "!"
		}
	}
	summary := fmt.Sprintf("%d. %s", t.Number, t.Name)
	if prefix != "" {
		summary = prefix + " " + summary
	}

	return &calendar.Event{
		Summary:     summary,
		ColorId:     color,
		Description: description(slot),
		Start:       &calendar.EventDateTime{DateTime: slot.Start.UTC().Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: slot.End.UTC().Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{PropertyKey: slot.ID, DayKey: slot.Day},
		},
	}, nil
}

func description(slot daily.Slot) string {
	t := slot.Task
	var b strings.Builder
	fmt.Fprintf(&b, "Estado: %s\n", t.Status)
	fmt.Fprintf(&b, "Hora: %s\n", t.Time)
	fmt.Fprintf(&b, "Duración estimada: %s\n", estimate.FormatShort(slot.End.Sub(slot.Start)))
	fmt.Fprintf(&b, "ID: %s\n", slot.ID)

	for _, section := range []struct{ label, text string }{
		{"Descripción", t.Description},
		{"Solución", t.Solution},
		{"Estado", t.StatusNote},
	} {
		if section.text != "" {
			fmt.Fprintf(&b, "\n%s:\n%s\n", section.label, section.text)
		}
	}
	return b.String()
}

// EventNeedsUpdate returns a patch with the fields of target that differ from
// existing, or nil when the event is current.
func EventNeedsUpdate(existing, target *calendar.Event) (*calendar.Event, error) {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
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

	same, err := sameTimes(existing, target)
	if err != nil {
		return nil, err
	}
	if !same {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch, nil
	}
	return nil, nil
}

func sameTimes(a, b *calendar.Event) (bool, error) {
	if a.Start == nil || a.End == nil {
		return false, nil
	}
	pairs := [][2]string{
		{a.Start.DateTime, b.Start.DateTime},
		{a.End.DateTime, b.End.DateTime},
	}
	for _, p := range pairs {
		x, err := time.Parse(time.RFC3339, p[0])
		if err != nil {
			return false, err
		}
		y, err := time.Parse(time.RFC3339, p[1])
		if err != nil {
			return false, err
		}
		if !x.Equal(y) {
			return false, nil
		}
	}
	return true, nil
}
