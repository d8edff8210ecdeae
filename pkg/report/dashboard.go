package report

import (
	"embed"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/harrisonrobin/prdaily/pkg/datefmt"
	"github.com/harrisonrobin/prdaily/pkg/model"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html.tmpl", "templates/cards.html.tmpl"))

// DefaultHours is shown when the PRD summary has no "Total de horas" line.
const DefaultHours = "0h 0m"

// DashboardInput is everything the HTML dashboard shows.
type DashboardInput struct {
	Date      string
	Hours     string
	Tasks     []model.Task
	Generated time.Time
}

type dashboardData struct {
	Date           string
	Hours          string
	Completed      []model.Task
	Pending        []model.Task
	CompletedCount int
	PendingCount   int
	Total          int
	Percent        int
	Generated      string
}

// CompletionPercent returns round(completed/total*100), 0 for an empty day.
func CompletionPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Dashboard renders the self-contained HTML dashboard.
func Dashboard(in DashboardInput) (string, error) {
	data := newDashboardData(in)
	var b strings.Builder
	if err := dashboardTmpl.ExecuteTemplate(&b, "dashboard.html.tmpl", data); err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return b.String(), nil
}

// Cards renders only the completed and pending card sections of the dashboard.
func Cards(tasks []model.Task) (string, error) {
	data := newDashboardData(DashboardInput{Tasks: tasks})
	var b strings.Builder
	if err := dashboardTmpl.ExecuteTemplate(&b, "cards", data); err != nil {
		return "", fmt.Errorf("render cards: %w", err)
	}
	return b.String(), nil
}

func newDashboardData(in DashboardInput) dashboardData {
	completed, pending := Split(in.Tasks)
	total := len(completed) + len(pending)
	hours := in.Hours
	if hours == "" {
		hours = DefaultHours
	}
	return dashboardData{
		Date:           in.Date,
		Hours:          hours,
		Completed:      completed,
		Pending:        pending,
		CompletedCount: len(completed),
		PendingCount:   len(pending),
		Total:          total,
		Percent:        CompletionPercent(len(completed), total),
		Generated:      datefmt.Stamp(in.Generated),
	}
}
