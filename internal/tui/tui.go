// Package tui provides a Bubble Tea terminal user interface for goprocat.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/goprocat/internal/config"
	ioutils "github.com/handiism/goprocat/internal/io"
	"github.com/handiism/goprocat/internal/merge"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00A8E8")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	groupStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateMerging
	StateComplete
	StateError
)

// Input fields, in focus order.
const (
	fieldInput = iota
	fieldOutput
	fieldCount
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   merge.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	groups   []string
	err      error

	// Merge context
	ctx    context.Context
	cancel context.CancelFunc

	// Merge manager reference
	manager *merge.Manager
	events  chan merge.ProgressEvent

	// Merge progress
	doneGroups  int32
	totalGroups int32

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model using settings.
func NewModel(settings *config.Settings) Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 500
		ti.Width = 60
		inputs[i] = ti
	}
	inputs[fieldInput].Placeholder = "/media/sdcard/DCIM/100GOPRO"
	inputs[fieldInput].Focus()
	inputs[fieldOutput].Placeholder = "/media/out"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#00A8E8"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   inputs,
		spinner:  sp,
		progress: prog,
		settings: settings,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan merge.ProgressEvent, 64),
		verbose:  settings.Verbose,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForEvent())
}

// Message types
type (
	// ProgressMsg is sent for every manager progress event.
	ProgressMsg struct {
		Event merge.ProgressEvent
	}

	// ScanDoneMsg is sent when the input directory has been scanned.
	ScanDoneMsg struct {
		Groups  []string
		Manager *merge.Manager
		Err     error
	}

	// MergeDoneMsg is sent when all groups are merged or the run aborted.
	MergeDoneMsg struct {
		Done  int32
		Total int32
		Err   error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateMerging || m.state == StateScanning {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab", "shift+tab":
			if m.state == StateInput {
				step := 1
				if msg.String() == "shift+tab" {
					step = fieldCount - 1
				}
				m.setFocus((m.focus + step) % fieldCount)
				return m, textinput.Blink
			}

		case "enter":
			if m.state == StateInput {
				if m.focus < fieldCount-1 {
					m.setFocus(m.focus + 1)
					return m, textinput.Blink
				}
				if m.inputDir() != "" && m.outputDir() != "" {
					m.state = StateScanning
					return m, tea.Batch(m.scan(), m.spinner.Tick)
				}
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run, keeping the directories
				m.state = StateInput
				m.logs = nil
				m.groups = nil
				m.err = nil
				m.doneGroups = 0
				m.totalGroups = 0
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.setFocus(fieldInput)
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == merge.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case ScanDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.groups = msg.Groups
			m.manager = msg.Manager
			m.state = StateMerging
			cmds = append(cmds, m.startMerge(), m.tickProgress())
		}

	case MergeDoneMsg:
		m.doneGroups = msg.Done
		m.totalGroups = msg.Total
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateMerging {
			m.doneGroups, m.totalGroups = m.manager.GetProgress()

			var percent float64
			if m.totalGroups > 0 {
				percent = float64(m.doneGroups) / float64(m.totalGroups)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update focused text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setFocus(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m Model) inputDir() string {
	return strings.TrimSpace(m.inputs[fieldInput].Value())
}

func (m Model) outputDir() string {
	return strings.TrimSpace(m.inputs[fieldOutput].Value())
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent returns a command that delivers the next manager event.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("goprocat"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Join chaptered recordings and their GPS tracks"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateMerging:
		b.WriteString(m.viewMerging())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Input directory:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldInput].View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Output directory:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldOutput].View())
	b.WriteString("\n\n")

	keep := "no"
	if m.settings.KeepTelemetry {
		keep = "yes"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Modes: %s | Extension: %s | Keep telemetry: %s",
		strings.Join(m.settings.Modes, ","), m.settings.Extension, keep)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scanning recordings..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewMerging() string {
	var b strings.Builder

	if len(m.groups) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Found %d session(s):", len(m.groups))))
		b.WriteString("\n")
		for _, g := range m.groups {
			b.WriteString(groupStyle.Render(fmt.Sprintf("  ▸ %s", g)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	var percent float64
	if m.totalGroups > 0 {
		percent = float64(m.doneGroups) / float64(m.totalGroups)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("Sessions: %d/%d", m.doneGroups, m.totalGroups)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"Merge Complete!\n\n"+
			"Sessions: %d\n"+
			"Output: %s",
		m.doneGroups,
		m.outputDir(),
	))
	b.WriteString(box)
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case merge.LevelError:
			style = errorStyle
			prefix = "✗"
		case merge.LevelWarning:
			style = warningStyle
			prefix = "!"
		case merge.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case merge.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "tab: switch field • enter: start • esc: quit"
	case StateScanning, StateMerging:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new merge • q: quit"
	}
	return ""
}

// scan validates the directories, scans the input and creates the manager.
func (m *Model) scan() tea.Cmd {
	in, out := m.inputDir(), m.outputDir()
	settings := m.settings
	events := m.events

	return func() tea.Msg {
		if err := ioutils.CheckDir(in); err != nil {
			return ScanDoneMsg{Err: fmt.Errorf("input: %w", err)}
		}
		if err := ioutils.CheckDir(out); err != nil {
			return ScanDoneMsg{Err: fmt.Errorf("output: %w", err)}
		}
		if ioutils.SameFile(in, out) {
			return ScanDoneMsg{Err: fmt.Errorf("output directory %s is the input directory: %w", out, merge.ErrOverwritesInput)}
		}

		runner := settings.ToRunner()
		if err := runner.Check(); err != nil {
			return ScanDoneMsg{Err: err}
		}

		manager := merge.NewManager(settings, runner, func(event merge.ProgressEvent) {
			events <- event
		})

		if err := manager.Initialize(in); err != nil {
			return ScanDoneMsg{Err: err}
		}

		return ScanDoneMsg{
			Groups:  manager.GetGroupNames(),
			Manager: manager,
		}
	}
}

// startMerge runs the merge in the background.
func (m *Model) startMerge() tea.Cmd {
	manager := m.manager
	ctx := m.ctx
	out := m.outputDir()

	return func() tea.Msg {
		if manager == nil {
			return MergeDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := manager.Run(ctx, out)
		done, total := manager.GetProgress()

		return MergeDoneMsg{
			Done:  done,
			Total: total,
			Err:   err,
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
