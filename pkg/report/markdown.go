package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/harrisonrobin/prdaily/pkg/datefmt"
	"github.com/harrisonrobin/prdaily/pkg/estimate"
	"github.com/harrisonrobin/prdaily/pkg/files"
	"github.com/harrisonrobin/prdaily/pkg/model"
)

// SummaryInput is everything the day summary shows.
type SummaryInput struct {
	Day        time.Time
	FolderName string
	FolderPath string
	Start      time.Time
	Tasks      []model.Task
	Total      time.Duration
	Files      []files.Metadata
	// Metadata adds created/modified/size lines to the document listing.
	Metadata  bool
	Generated time.Time
}

// Split partitions tasks into completed and pending, keeping document order.
func Split(tasks []model.Task) (completed, pending []model.Task) {
	for _, t := range tasks {
		switch t.Status {
		case model.COMPLETED:
			completed = append(completed, t)
		case model.PENDING:
			pending = append(pending, t)
		}
	}
	return completed, pending
}

// Summary renders the markdown day summary.
func Summary(in SummaryInput) string {
	completed, pending := Split(in.Tasks)
	var b strings.Builder

	fmt.Fprintf(&b, "# Resumen del Día - %s\n\n", datefmt.Spanish(in.Day))
	b.WriteString("## Información General\n\n")
	fmt.Fprintf(&b, "- **Carpeta**: `%s`\n", in.FolderName)
	fmt.Fprintf(&b, "- **Hora de inicio**: %s (primer archivo creado)\n", in.Start.Format("15:04"))
	fmt.Fprintf(&b, "- **Tareas completadas**: %d\n", len(completed))
	fmt.Fprintf(&b, "- **Tareas pendientes**: %d\n", len(pending))
	fmt.Fprintf(&b, "- **Horas trabajadas**: %s\n", estimate.FormatHM(in.Total))
	fmt.Fprintf(&b, "- **Documentos creados**: %d\n\n", len(in.Files))

	b.WriteString("---\n\n## Tareas Realizadas\n\n")
	writeHeadings(&b, completed, "*No se registraron tareas completadas*")

	b.WriteString("---\n\n## Tareas Pendientes\n\n")
	writeHeadings(&b, pending, "*No hay tareas pendientes*")

	b.WriteString("---\n\n## Documentos Generados\n\n")
	for i, f := range in.Files {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, f.Name)
		if in.Metadata {
			fmt.Fprintf(&b, "   - Creado: %s\n", f.Created.Format("15:04:05"))
			fmt.Fprintf(&b, "   - Modificado: %s\n", f.Modified.Format("15:04:05"))
			fmt.Fprintf(&b, "   - Tamaño: %.2f KB\n", float64(f.Size)/1024)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n## Metadatos\n\n")
	fmt.Fprintf(&b, "- **Resumen generado**: %s\n", datefmt.Stamp(in.Generated))
	fmt.Fprintf(&b, "- **Carpeta analizada**: `%s`\n\n", in.FolderPath)
	b.WriteString("---\n\n*Este resumen fue generado automáticamente analizando todos los archivos de la carpeta del día.*\n")
	return b.String()
}

func writeHeadings(b *strings.Builder, tasks []model.Task, empty string) {
	if len(tasks) == 0 {
		b.WriteString(empty + "\n\n")
		return
	}
	for _, t := range tasks {
		b.WriteString(t.Heading() + "\n\n")
	}
}

// HoursInput is everything the hours report shows.
type HoursInput struct {
	Date      string // localized date from the PRD title
	Tasks     []model.Task
	Estimate  estimate.Result
	Generated time.Time
}

// Hours renders the markdown hours report.
func Hours(in HoursInput) string {
	total := in.Estimate.Total
	var b strings.Builder

	fmt.Fprintf(&b, "# Reporte de Horas – %s\n\n", in.Date)
	b.WriteString("## Resumen\n\n")
	fmt.Fprintf(&b, "- **Tareas**: %d\n", len(in.Tasks))
	fmt.Fprintf(&b, "- **Horas totales**: %s (%.2fh)\n\n", estimate.FormatHM(total), total.Hours())
	b.WriteString("---\n\n## Desglose por Tarea\n\n")

	for i, t := range in.Tasks {
		fmt.Fprintf(&b, "### %d. %s\n", t.Number, t.Name)
		fmt.Fprintf(&b, "- **Hora inicio**: %s\n", t.Time)
		fmt.Fprintf(&b, "- **Duración**: %s\n\n", estimate.FormatShort(in.Estimate.Durations[i]))
	}

	b.WriteString("---\n\n## Totales\n\n")
	fmt.Fprintf(&b, "**Horas trabajadas**: %s\n", estimate.FormatHM(total))
	fmt.Fprintf(&b, "**Promedio por tarea**: %.0f minutos\n", averageMinutes(in.Estimate))
	fmt.Fprintf(&b, "**Generado**: %s\n", datefmt.Stamp(in.Generated))
	return b.String()
}

func averageMinutes(r estimate.Result) float64 {
	if len(r.Durations) == 0 {
		return 0
	}
	return math.Round(r.Total.Minutes() / float64(len(r.Durations)))
}

// PRD renders the skeleton of a new daily PRD.
func PRD(day, generated time.Time) string {
	date := datefmt.Spanish(day)
	var b strings.Builder
	fmt.Fprintf(&b, "# PRD - %s\n\n", date)
	b.WriteString("## Resumen Ejecutivo\n\n")
	fmt.Fprintf(&b, "- **Fecha**: %s\n", date)
	b.WriteString("- **Tareas completadas**: 0\n")
	b.WriteString("- **Tareas pendientes**: 0\n")
	b.WriteString("- **Total de horas**: 0h 0m\n\n")
	b.WriteString("---\n\n## Tareas Realizadas\n\n*No hay tareas registradas aún*\n\n")
	b.WriteString("---\n\n## Tareas Pendientes\n\n*Ninguna por el momento*\n\n")
	b.WriteString("---\n\n## Notas Adicionales\n\n")
	b.WriteString("- Documento creado para seguimiento de tareas diarias\n")
	b.WriteString("- Se actualizará conforme se realicen actividades\n")
	fmt.Fprintf(&b, "- Creado automáticamente el %s\n", datefmt.Stamp(generated))
	return b.String()
}

// FolderReadme renders the README placed inside a new daily folder.
func FolderReadme(day, generated time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trabajo del Día - %s\n\n", datefmt.Slashed(day))
	b.WriteString("Esta carpeta contiene todos los documentos del trabajo realizado durante el día.\n\n")
	b.WriteString("## Estructura\n\n")
	b.WriteString("- **PRD**: Documento de tareas realizadas\n")
	b.WriteString("- **Conversaciones**: Logs de conversaciones importantes\n")
	b.WriteString("- **Notas**: Apuntes y decisiones del día\n")
	b.WriteString("- **Documentos**: Archivos relevantes generados\n\n")
	b.WriteString("## Referencia\n\n")
	fmt.Fprintf(&b, "- PRD: `PRD_%s.md`\n", datefmt.Compact(day))
	fmt.Fprintf(&b, "- Resumen: `RESUMEN_%s.md`\n\n", datefmt.FolderCode(day))
	fmt.Fprintf(&b, "---\n\n*Carpeta creada automáticamente el %s*\n", datefmt.Stamp(generated))
	return b.String()
}
