package google

import (
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/prdaily/pkg/daily"
	"github.com/harrisonrobin/prdaily/pkg/model"
	"google.golang.org/api/calendar/v3"
)

func testSlot(status model.Status) daily.Slot {
	start := time.Date(2026, time.February, 16, 9, 0, 0, 0, time.UTC)
	return daily.Slot{
		ID:  "0b6c1e4e-5a8d-5d1b-9a51-6f3c1b7f0a11",
		Day: "20260216",
		Task: model.Task{
			Number:      1,
			Name:        "Configurar entorno",
			Time:        model.Clock{Hour: 9},
			Status:      status,
			Description: "Instalar dependencias.",
			Solution:    "Listo.",
		},
		Start: start,
		End:   start.Add(90 * time.Minute),
	}
}

func TestEventFromSlot(t *testing.T) {
	now := time.Date(2026, time.February, 16, 8, 0, 0, 0, time.UTC)
	event, err := EventFromSlot(testSlot(model.COMPLETED), now)
	if err != nil {
		t.Fatalf("EventFromSlot failed: %v", err)
	}

	if event.Summary != "✓ 1. Configurar entorno" {
		t.Errorf("Expected completed prefix, got %q", event.Summary)
	}
	if event.ColorId != colorCompleted {
		t.Errorf("Expected color %s, got %s", colorCompleted, event.ColorId)
	}
	if event.Start.DateTime != "2026-02-16T09:00:00Z" || event.End.DateTime != "2026-02-16T10:30:00Z" {
		t.Errorf("Unexpected times %s - %s", event.Start.DateTime, event.End.DateTime)
	}
	props := event.ExtendedProperties.Private
	if props[PropertyKey] != "0b6c1e4e-5a8d-5d1b-9a51-6f3c1b7f0a11" || props[DayKey] != "20260216" {
		t.Errorf("Unexpected extended properties %v", props)
	}
	for _, want := range []string{"Duración estimada: 1h 30m", "Descripción:\nInstalar dependencias.", "Solución:\nListo."} {
		if !strings.Contains(event.Description, want) {
			t.Errorf("Expected description to contain %q, got:\n%s", want, event.Description)
		}
	}
}

func TestEventFromSlotPending(t *testing.T) {
	slot := testSlot(model.PENDING)

	before := time.Date(2026, time.February, 16, 10, 0, 0, 0, time.UTC)
	event, _ := EventFromSlot(slot, before)
	if event.Summary != "1. Configurar entorno" {
		t.Errorf("Expected no prefix while the slot runs, got %q", event.Summary)
	}

	after := time.Date(2026, time.February, 17, 0, 0, 0, 0, time.UTC)
	event, _ = EventFromSlot(slot, after)
	if event.Summary != "! 1. Configurar entorno" {
		t.Errorf("Expected overdue prefix, got %q", event.Summary)
	}
}

func TestEventFromSlotInvalid(t *testing.T) {
	slot := testSlot(model.UNKNOWN)
	slot.End = slot.Start
	if _, err := EventFromSlot(slot, time.Now()); err == nil {
		t.Error("Expected error for an empty slot")
	}
	slot = testSlot(model.UNKNOWN)
	slot.ID = ""
	if _, err := EventFromSlot(slot, time.Now()); err == nil {
		t.Error("Expected error for a slot without ID")
	}
}

func TestEventNeedsUpdate(t *testing.T) {
	now := time.Date(2026, time.February, 16, 8, 0, 0, 0, time.UTC)
	target, _ := EventFromSlot(testSlot(model.COMPLETED), now)

	same := *target
	same.Start = &calendar.EventDateTime{DateTime: "2026-02-16T10:00:00+01:00"}
	patch, err := EventNeedsUpdate(&same, target)
	if err != nil {
		t.Fatalf("EventNeedsUpdate failed: %v", err)
	}
	if patch != nil {
		t.Errorf("Expected no patch for equal instants, got %+v", patch)
	}

	moved := *target
	moved.Summary = "1. Configurar entorno"
	moved.End = &calendar.EventDateTime{DateTime: "2026-02-16T10:00:00Z"}
	patch, err = EventNeedsUpdate(&moved, target)
	if err != nil {
		t.Fatalf("EventNeedsUpdate failed: %v", err)
	}
	if patch == nil || patch.Summary != target.Summary || patch.End != target.End {
		t.Errorf("Expected summary and time patch, got %+v", patch)
	}
	if patch.Description != "" {
		t.Error("Expected unchanged description to stay out of the patch")
	}

	broken := *target
	broken.Start = &calendar.EventDateTime{DateTime: "yesterday"}
	if _, err := EventNeedsUpdate(&broken, target); err == nil {
		t.Error("Expected parse error")
	}
}

func TestStale(t *testing.T) {
	events := []*calendar.Event{tagged("a"), tagged("b"), {Id: "foreign"}}

	got := stale(events, map[string]bool{"a": true})
	if len(got) != 1 || got[0].Id != "evt-b" {
		t.Errorf("Expected only evt-b to be stale, got %v", got)
	}
}
