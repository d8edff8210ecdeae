package google

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harrisonrobin/prdaily/pkg/daily"
	"github.com/harrisonrobin/prdaily/pkg/index"
	"google.golang.org/api/calendar/v3"
)

// CalendarClient publishes timeline slots to one Google Calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
}

func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx}
}

// NewClient resolves calendarName among the user's calendars.
func NewClient(ctx context.Context, srv *calendar.Service, calendarName string, idx *index.EventIndex) (*CalendarClient, error) {
	list, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	for _, item := range list.Items {
		if item.Summary == calendarName {
			return NewCalendarClient(srv, item.Id, idx), nil
		}
	}
	return nil, fmt.Errorf("calendar '%s' not found", calendarName)
}

// Action tells what SyncEvent did with a slot.
type Action string

const (
	Created   Action = "created"
	Updated   Action = "updated"
	Unchanged Action = "unchanged"
)

// SyncEvent creates the slot's event or patches the existing one.
func (c *CalendarClient) SyncEvent(ctx context.Context, slot daily.Slot, now time.Time) (*calendar.Event, Action, error) {
	event, err := EventFromSlot(slot, now)
	if err != nil {
		return nil, "", err
	}

	var existing *calendar.Event
	if c.index != nil {
		if id := c.index.Get(slot.ID); id != "" {
			existing, err = c.srv.Events.Get(c.calendarID, id).Context(ctx).Do()
			if err != nil || existing.Status == "cancelled" {
				existing = nil
			}
		}
	}
	if existing == nil {
		existing, err = c.GetEventBySlotID(ctx, slot.ID)
		if err != nil {
			return nil, "", fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing != nil {
		patch, err := EventNeedsUpdate(existing, event)
		if err != nil {
			log.Printf("could not compare slot with its calendar event: %v", err)
			return nil, "", err
		}
		if patch == nil {
			c.remember(slot.ID, existing.Id)
			return existing, Unchanged, nil
		}
		updated, err := c.PatchEvent(ctx, existing.Id, patch)
		if err != nil {
			return nil, "", err
		}
		c.remember(slot.ID, updated.Id)
		return updated, Updated, nil
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, "", err
	}
	c.remember(slot.ID, created.Id)
	return created, Created, nil
}

func (c *CalendarClient) remember(slotID, eventID string) {
	if c.index != nil {
		c.index.Set(slotID, eventID)
	}
}

func (c *CalendarClient) forget(slotID string) {
	if c.index != nil {
		c.index.Remove(slotID)
	}
}

func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// GetEventBySlotID finds the event tagged with slotID, or nil.
func (c *CalendarClient) GetEventBySlotID(ctx context.Context, slotID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", PropertyKey, slotID)).
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

// Prune deletes the events published for day whose slot is not in keep.
func (c *CalendarClient) Prune(ctx context.Context, day string, keep map[string]bool) (int, error) {
	var found []*calendar.Event
	err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", DayKey, day)).
		Pages(ctx, func(page *calendar.Events) error {
			found = append(found, stale(page.Items, keep)...)
			return nil
		})
	if err != nil {
		return 0, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}

	removed := 0
	for _, e := range found {
		if err := c.DeleteEvent(ctx, e.Id); err != nil {
			return removed, err
		}
		c.forget(e.ExtendedProperties.Private[PropertyKey])
		removed++
	}
	return removed, nil
}

func stale(events []*calendar.Event, keep map[string]bool) []*calendar.Event {
	var out []*calendar.Event
	for _, e := range events {
		if e.ExtendedProperties == nil {
			continue
		}
		id, ok := e.ExtendedProperties.Private[PropertyKey]
		if !ok || keep[id] {
			continue
		}
		out = append(out, e)
	}
	return out
}
