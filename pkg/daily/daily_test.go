package daily

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/prdaily/pkg/config"
	"github.com/harrisonrobin/prdaily/pkg/prd"
)

const prdBody = `# PRD - 16 de febrero de 2026

## Resumen Ejecutivo

- **Fecha**: 16 de febrero de 2026
- **Total de horas**: 2h 30m

---

## Tareas Realizadas

### ✅ 1. Configurar entorno — **09:00**

**Descripción**

Instalar dependencias.

**Solución**

Listo.

---

## Tareas Pendientes

### ⏳ 2. Documentar API — **10:30**

**Descripción**

Swagger.

**Estado**

En progreso
`

func fixedClock() time.Time {
	return time.Date(2026, time.February, 16, 19, 0, 0, 0, time.Local)
}

func newTestService(t *testing.T) (*Service, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Folders.PRDDocuments = filepath.Join(root, "prd")
	cfg.Folders.DailyWork = filepath.Join(root, "daily")
	cfg.Folders.Reports = ""
	cfg.Features.AutoSummary = false
	return New(cfg, fixedClock), cfg
}

func writePRD(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "PRD_20260216.md")
	if err := os.WriteFile(path, []byte(prdBody), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreateFolder(t *testing.T) {
	svc, cfg := newTestService(t)

	res, err := svc.CreateFolder("20260216", "")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	want := filepath.Join(cfg.Folders.DailyWork, "260216")
	if res.Path != want || !res.Created {
		t.Errorf("Expected created folder %s, got %+v", want, res)
	}
	if _, err := os.Stat(filepath.Join(want, "README.md")); err != nil {
		t.Errorf("Expected README.md: %v", err)
	}

	again, err := svc.CreateFolder("20260216", "")
	if err != nil {
		t.Fatalf("Expected reuse to succeed, got %v", err)
	}
	if again.Created || again.Message != "Carpeta ya existe" {
		t.Errorf("Expected reuse result, got %+v", again)
	}
}

func TestCreateFolderInvalidDate(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateFolder("2026-02-16", "")
	if !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("Expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestCreatePRDRefusesOverwrite(t *testing.T) {
	svc, cfg := newTestService(t)

	res, err := svc.CreatePRD("20260216", "")
	if err != nil {
		t.Fatalf("CreatePRD failed: %v", err)
	}
	want := filepath.Join(cfg.Folders.PRDDocuments, "260216", "PRD_20260216.md")
	if res.Path != want {
		t.Errorf("Expected %s, got %s", want, res.Path)
	}

	if err := os.WriteFile(want, []byte("edited"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = svc.CreatePRD("20260216", "")
	if !errors.Is(err, ErrFileAlreadyExists) {
		t.Fatalf("Expected ErrFileAlreadyExists, got %v", err)
	}
	var op *OpError
	if !errors.As(err, &op) || op.Path != want {
		t.Errorf("Expected OpError for %s, got %v", want, err)
	}
	content, _ := os.ReadFile(want)
	if string(content) != "edited" {
		t.Errorf("Expected the existing PRD to be untouched, got %q", content)
	}
}

func TestCreatePRDFlat(t *testing.T) {
	svc, cfg := newTestService(t)
	cfg.Features.UseDailyFolders = false

	res, err := svc.CreatePRD("20260216", "")
	if err != nil {
		t.Fatalf("CreatePRD failed: %v", err)
	}
	if filepath.Dir(res.Path) != cfg.Folders.PRDDocuments {
		t.Errorf("Expected PRD directly under %s, got %s", cfg.Folders.PRDDocuments, res.Path)
	}
}

func TestSummarize(t *testing.T) {
	svc, cfg := newTestService(t)
	dir := filepath.Join(cfg.Folders.DailyWork, "260216")
	writePRD(t, dir)

	res, err := svc.Summarize("20260216", "", "")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if res.Completed != 1 || res.Pending != 1 || res.Files != 1 {
		t.Errorf("Unexpected counts: %+v", res)
	}
	if res.Total != 90*time.Minute {
		t.Errorf("Expected 90m span, got %s", res.Total)
	}
	if res.Path != filepath.Join(dir, "RESUMEN_260216.md") {
		t.Errorf("Expected summary in the daily folder, got %s", res.Path)
	}

	content, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	meta, body, err := prd.ParseFrontMatter(string(content))
	if err != nil {
		t.Fatalf("Expected frontmatter: %v", err)
	}
	if meta.Kind != "summary" || meta.Completed != 1 || meta.TotalMinutes != 90 {
		t.Errorf("Unexpected meta %+v", meta)
	}
	if !strings.Contains(body, "- **Horas trabajadas**: 1h 30m") {
		t.Errorf("Unexpected body:\n%s", body)
	}
}

func TestSummarizeMissingFolder(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Summarize("20260216", "", "")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestSummarizeEmptyFolder(t *testing.T) {
	svc, cfg := newTestService(t)
	if err := os.MkdirAll(filepath.Join(cfg.Folders.DailyWork, "260216"), 0755); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Summarize("20260216", "", "")
	if !errors.Is(err, ErrNoDataFound) {
		t.Errorf("Expected ErrNoDataFound, got %v", err)
	}
}

func TestHours(t *testing.T) {
	svc, _ := newTestService(t)
	path := writePRD(t, t.TempDir())
	out := t.TempDir()

	res, err := svc.Hours(path, out)
	if err != nil {
		t.Fatalf("Hours failed: %v", err)
	}
	if res.Path != filepath.Join(out, "HORAS_PRD_20260216.md") {
		t.Errorf("Unexpected path %s", res.Path)
	}
	content, _ := os.ReadFile(res.Path)
	if !strings.Contains(string(content), "- **Horas totales**: 2h 30m (2.50h)") {
		t.Errorf("Unexpected report:\n%s", content)
	}
}

func TestHoursNoData(t *testing.T) {
	svc, _ := newTestService(t)
	dir := t.TempDir()

	noDate := filepath.Join(dir, "a.md")
	os.WriteFile(noDate, []byte("### ✅ 1. Algo — **09:00**\n"), 0644)
	if _, err := svc.Hours(noDate, ""); !errors.Is(err, ErrNoDataFound) {
		t.Errorf("Expected ErrNoDataFound for missing date, got %v", err)
	}

	noTasks := filepath.Join(dir, "b.md")
	os.WriteFile(noTasks, []byte("# PRD - 1 de enero de 2026\n"), 0644)
	if _, err := svc.Hours(noTasks, ""); !errors.Is(err, ErrNoDataFound) {
		t.Errorf("Expected ErrNoDataFound for missing tasks, got %v", err)
	}

	if _, err := svc.Hours(filepath.Join(dir, "missing.md"), ""); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	svc, _ := newTestService(t)
	path := writePRD(t, t.TempDir())

	res, err := svc.Dashboard(path, "")
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if filepath.Base(res.Path) != "PRD_20260216_DASHBOARD.html" {
		t.Errorf("Unexpected dashboard name %s", res.Path)
	}
	html, _ := os.ReadFile(res.Path)
	for _, want := range []string{`<div class="stat-value">50%</div>`, `<div class="stat-value">2h 30m</div>`, "En progreso"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("Expected dashboard to contain %q", want)
		}
	}
}

func TestRefreshSummary(t *testing.T) {
	svc, cfg := newTestService(t)
	dir := filepath.Join(cfg.Folders.DailyWork, "260216")
	path := writePRD(t, dir)

	res, err := svc.RefreshSummary(path)
	if err != nil || res != nil {
		t.Fatalf("Expected no refresh with auto_summary off, got %+v %v", res, err)
	}

	cfg.Features.AutoSummary = true
	res, err = svc.RefreshSummary(path)
	if err != nil {
		t.Fatalf("RefreshSummary failed: %v", err)
	}
	if res == nil || filepath.Base(res.Path) != "RESUMEN_260216.md" {
		t.Errorf("Expected a refreshed summary, got %+v", res)
	}
}

func TestTimeline(t *testing.T) {
	svc, _ := newTestService(t)
	path := writePRD(t, t.TempDir())

	day, slots, err := svc.Timeline(path)
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	if day.Day() != 16 || len(slots) != 2 {
		t.Fatalf("Unexpected timeline %v %+v", day, slots)
	}
	if got := slots[0].End.Sub(slots[0].Start); got != 90*time.Minute {
		t.Errorf("Expected 90m first slot, got %s", got)
	}
	if got := slots[1].End.Sub(slots[1].Start); got != 60*time.Minute {
		t.Errorf("Expected 60m tail slot, got %s", got)
	}
	if slots[0].Task.Description != "Instalar dependencias." {
		t.Errorf("Expected body details on slots, got %+v", slots[0].Task)
	}
	if slots[0].ID == slots[1].ID || slots[0].ID == "" {
		t.Error("Expected distinct task IDs")
	}
}

func TestTimelineCrossesMidnight(t *testing.T) {
	svc, _ := newTestService(t)
	path := filepath.Join(t.TempDir(), "PRD.md")
	text := "# PRD - 16 de febrero de 2026\n\n### ✅ 1. Tarde — **23:30**\n\n### ✅ 2. Madrugada — **00:15**\n"
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	_, slots, err := svc.Timeline(path)
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	if slots[1].Start.Day() != 17 || !slots[0].End.Equal(slots[1].Start) {
		t.Errorf("Expected the second slot on the next day right after the first, got %+v", slots)
	}
}

func TestSummarizeSingleTaskUsesTail(t *testing.T) {
	svc, cfg := newTestService(t)
	cfg.Estimate.LastTaskMinutes = 45
	dir := filepath.Join(cfg.Folders.DailyWork, "260216")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	text := "# PRD - 16 de febrero de 2026\n\n### ✅ 1. Única tarea — **09:00**\n"
	if err := os.WriteFile(filepath.Join(dir, "PRD_20260216.md"), []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Summarize("20260216", "", "")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if res.Total != 45*time.Minute {
		t.Errorf("Expected the 45m tail for a single task, got %s", res.Total)
	}
}

func TestTimelineSameClockTime(t *testing.T) {
	svc, _ := newTestService(t)
	path := filepath.Join(t.TempDir(), "PRD.md")
	text := "# PRD - 16 de febrero de 2026\n\n" +
		"### ✅ 1. Revisar — **09:00**\n\n" +
		"### ✅ 2. Aprobar — **09:00**\n\n" +
		"### ⏳ 3. Desplegar — **10:00**\n"
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	_, slots, err := svc.Timeline(path)
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("Expected 3 slots, got %d", len(slots))
	}
	if got := slots[0].End.Sub(slots[0].Start); got != time.Minute {
		t.Errorf("Expected a one minute slot for the shared clock time, got %s", got)
	}
	if slots[1].Start.Day() != 16 {
		t.Errorf("Expected the second task to stay on the same day, got %v", slots[1].Start)
	}
	for i, s := range slots {
		if !s.End.After(s.Start) {
			t.Errorf("Expected slot %d to have a duration, got %v-%v", i, s.Start, s.End)
		}
	}
}
