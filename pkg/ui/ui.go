package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/prdaily/pkg/config"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4D96FF"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Width(22)
	onStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	offStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

// Success prints a "✅ msg" status line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render("✅ "+fmt.Sprintf(format, args...)))
}

// Failure prints a "❌ msg" status line.
func Failure(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, failureStyle.Render("❌ "+fmt.Sprintf(format, args...)))
}

func Info(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Config renders cfg as a titled key/value listing.
func Config(cfg *config.Config, path string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Configuración prdaily") + "\n")
	b.WriteString(infoStyle.Render(path) + "\n\n")

	row := func(k, v string) {
		if v == "" {
			v = offStyle.Render("(sin definir)")
		}
		b.WriteString(keyStyle.Render(k) + " " + v + "\n")
	}
	row("PRD", cfg.Folders.PRDDocuments)
	row("Trabajo diario", cfg.Folders.DailyWork)
	row("Reportes", cfg.Folders.Reports)
	row("Archivos", cfg.Folders.Archives)
	b.WriteString("\n")
	row("Carpetas diarias", Toggle(cfg.Features.UseDailyFolders))
	row("Resumen automático", Toggle(cfg.Features.AutoSummary))
	row("Metadatos", Toggle(cfg.Features.TrackFileMetadata))
	b.WriteString("\n")
	row("Última tarea (min)", fmt.Sprint(cfg.Estimate.LastTaskMinutes))
	row("Calendario", cfg.Calendar)
	return b.String()
}

// Toggle renders a feature flag.
func Toggle(on bool) string {
	if on {
		return onStyle.Render("sí")
	}
	return offStyle.Render("no")
}
