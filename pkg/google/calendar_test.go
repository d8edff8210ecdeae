package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/harrisonrobin/prdaily/pkg/index"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func tagged(id string) *calendar.Event {
	return &calendar.Event{Id: "evt-" + id, ExtendedProperties: &calendar.EventExtendedProperties{
		Private: map[string]string{PropertyKey: id, DayKey: "20260216"},
	}}
}

func TestPruneReadsEveryPage(t *testing.T) {
	pages := map[string]*calendar.Events{
		"":   {Items: []*calendar.Event{tagged("keep"), tagged("old1")}, NextPageToken: "p2"},
		"p2": {Items: []*calendar.Event{tagged("old2")}},
	}

	var mu sync.Mutex
	var deleted []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if got := r.URL.Query().Get("privateExtendedProperty"); got != DayKey+"=20260216" {
				t.Errorf("Expected day filter, got %q", got)
			}
			page, ok := pages[r.URL.Query().Get("pageToken")]
			if !ok {
				http.Error(w, "unknown page", http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(page)
		case http.MethodDelete:
			mu.Lock()
			deleted = append(deleted, path.Base(r.URL.Path))
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	srv, err := calendar.NewService(ctx, option.WithEndpoint(server.URL+"/"), option.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	idx, err := index.NewEventIndex(t.TempDir() + "/events.json")
	if err != nil {
		t.Fatal(err)
	}
	idx.Set("old2", "evt-old2")

	client := NewCalendarClient(srv, "cal", idx)
	removed, err := client.Prune(ctx, "20260216", map[string]bool{"keep": true})
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed events, got %d", removed)
	}
	if got := strings.Join(deleted, ","); got != "evt-old1,evt-old2" {
		t.Errorf("Expected evt-old1,evt-old2 to be deleted, got %s", got)
	}
	if idx.Get("old2") != "" {
		t.Error("Expected pruned slot to leave the index")
	}
}
