// Package wizard is the interactive form behind `prdaily config init`.
package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/prdaily/pkg/config"
)

// ErrCancelled is returned by Run when the user leaves without saving.
var ErrCancelled = errors.New("configuración cancelada")

const (
	fieldPRD = iota
	fieldDaily
	fieldReports
	fieldArchives
	fieldTail
	fieldCalendar
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Carpeta de documentos PRD",
	"Carpeta de trabajo diario",
	"Carpeta de reportes (vacío = carpeta del día)",
	"Carpeta de archivos",
	"Minutos para la última tarea del día",
	"Calendario de Google",
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4D96FF")).Padding(1, 0)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
)

type featureItem struct {
	title string
	desc  string
	on    bool
}

func (i featureItem) Title() string {
	box := "[ ]"
	if i.on {
		box = "[x]"
	}
	return box + " " + i.title
}
func (i featureItem) Description() string { return i.desc }
func (i featureItem) FilterValue() string { return i.title }

// Model walks through the text fields and then the feature list.
type Model struct {
	cfg       *config.Config
	inputs    []textinput.Model
	features  list.Model
	focus     int // fieldCount means the feature list
	errMsg    string
	done      bool
	cancelled bool
}

// New builds the form pre-filled from cfg.
func New(cfg *config.Config) *Model {
	if cfg == nil {
		cfg = config.Default()
	}
	values := [fieldCount]string{
		cfg.Folders.PRDDocuments,
		cfg.Folders.DailyWork,
		cfg.Folders.Reports,
		cfg.Folders.Archives,
		strconv.Itoa(cfg.Estimate.LastTaskMinutes),
		cfg.Calendar,
	}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 256
		ti.Width = 60
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[fieldTail].CharLimit = 4
	inputs[0].Focus()

	items := []list.Item{
		featureItem{"Carpetas diarias", "Crear los PRD dentro de la carpeta YYMMDD", cfg.Features.UseDailyFolders},
		featureItem{"Resumen automático", "Regenerar el resumen tras horas y dashboard", cfg.Features.AutoSummary},
		featureItem{"Metadatos de archivos", "Incluir tamaños y fechas en el resumen", cfg.Features.TrackFileMetadata},
	}
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(0)
	features := list.New(items, delegate, 60, 10)
	features.Title = "Funciones"
	features.SetShowStatusBar(false)
	features.SetFilteringEnabled(false)
	features.SetShowHelp(false)
	features.DisableQuitKeybindings()

	return &Model{cfg: cfg, inputs: inputs, features: features}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.features.SetSize(min(msg.Width, 80), max(6, msg.Height-fieldCount*2-8))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "shift+tab":
			return m, m.move(-1)
		}
		if m.focus == fieldCount {
			return m.updateFeatures(msg)
		}
		switch msg.String() {
		case "enter", "tab", "down":
			if err := m.validate(m.focus); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.errMsg = ""
			return m, m.move(1)
		case "up":
			return m, m.move(-1)
		}
	}

	if m.focus == fieldCount {
		var cmd tea.Cmd
		m.features, cmd = m.features.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) updateFeatures(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ", "x":
		idx := m.features.Index()
		item, ok := m.features.SelectedItem().(featureItem)
		if !ok {
			return m, nil
		}
		item.on = !item.on
		return m, m.features.SetItem(idx, item)
	case "s", "tab":
		m.apply()
		m.done = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.features, cmd = m.features.Update(msg)
	return m, cmd
}

// move shifts focus by delta, clamped to the form.
func (m *Model) move(delta int) tea.Cmd {
	next := max(0, min(fieldCount, m.focus+delta))
	if next == m.focus {
		return nil
	}
	if m.focus < fieldCount {
		m.inputs[m.focus].Blur()
	}
	m.focus = next
	if m.focus < fieldCount {
		return m.inputs[m.focus].Focus()
	}
	return nil
}

func (m *Model) validate(field int) error {
	v := strings.TrimSpace(m.inputs[field].Value())
	switch field {
	case fieldPRD, fieldDaily:
		if v == "" {
			return fmt.Errorf("%s es obligatoria", fieldLabels[field])
		}
	case fieldTail:
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return errors.New("los minutos deben ser un entero positivo")
		}
	}
	return nil
}

// apply copies the form into the configuration.
func (m *Model) apply() {
	value := func(i int) string { return strings.TrimSpace(m.inputs[i].Value()) }
	m.cfg.Folders.PRDDocuments = value(fieldPRD)
	m.cfg.Folders.DailyWork = value(fieldDaily)
	m.cfg.Folders.Reports = value(fieldReports)
	m.cfg.Folders.Archives = value(fieldArchives)
	if n, err := strconv.Atoi(value(fieldTail)); err == nil && n > 0 {
		m.cfg.Estimate.LastTaskMinutes = n
	}
	if c := value(fieldCalendar); c != "" {
		m.cfg.Calendar = c
	}

	flags := []*bool{
		&m.cfg.Features.UseDailyFolders,
		&m.cfg.Features.AutoSummary,
		&m.cfg.Features.TrackFileMetadata,
	}
	for i, it := range m.features.Items() {
		if f, ok := it.(featureItem); ok && i < len(flags) {
			*flags[i] = f.on
		}
	}
}

func (m *Model) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("⚙️  Configuración de prdaily"))
	b.WriteString("\n")
	for i, in := range m.inputs {
		label := labelStyle.Render(fieldLabels[i])
		if i == m.focus {
			label = activeStyle.Render(fieldLabels[i])
		}
		b.WriteString(label + "\n" + in.View() + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}
	if m.focus == fieldCount {
		b.WriteString("\n" + m.features.View())
		b.WriteString(hintStyle.Render("enter: activar/desactivar • s: guardar • shift+tab: volver • esc: cancelar"))
	} else {
		b.WriteString(hintStyle.Render("enter: siguiente • shift+tab: anterior • esc: cancelar"))
	}
	return b.String()
}

// Result returns the edited configuration once the form was saved.
func (m *Model) Result() (*config.Config, bool) {
	return m.cfg, m.done
}

// Run shows the form and returns the configuration the user saved.
func Run(cfg *config.Config) (*config.Config, error) {
	final, err := tea.NewProgram(New(cfg)).Run()
	if err != nil {
		return nil, err
	}
	out, ok := final.(*Model).Result()
	if !ok {
		return nil, ErrCancelled
	}
	return out, nil
}
