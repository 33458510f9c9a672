// ============================================================================
// ff - plain-English media command translator
// ============================================================================
//
// Package:     repl
// Description: Bubbletea model for the interactive session
// Author:      msto63
// Created:     2025-12-07
// Modified:    2026-10-19
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mdwlog "github.com/msto63/ff/foundation/core/log"
	"github.com/msto63/ff/internal/translator"
)

// Processor handles one phrase
type Processor interface {
	Process(ctx context.Context, req translator.Request) (*translator.Outcome, error)
}

// Config holds the interactive session configuration
type Config struct {
	Processor Processor
	Prompt    string
	DryRun    bool
	OutputDir string
	Params    map[string]string
	// DataDir stores the input history; empty disables persistence
	DataDir string
	Version string
	Logger  *mdwlog.Logger
}

// IsExit reports whether line ends the session
func IsExit(line string) bool {
	line = strings.TrimSpace(line)
	return strings.EqualFold(line, "quit") || strings.EqualFold(line, "exit")
}

// Model is the Bubbletea model for the interactive session
type Model struct {
	// State
	width   int
	height  int
	ready   bool
	working bool

	// Components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	entries []Entry

	// Input history
	inputHistory []string
	historyIndex int // -1 while editing a new line
	currentInput string

	cfg Config
}

// New creates the interactive model
func New(cfg Config) Model {
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}
	if cfg.Logger == nil {
		cfg.Logger = mdwlog.Discard()
	}

	ti := textinput.New()
	ti.Prompt = cfg.Prompt
	ti.Placeholder = "convert video.mp4 to video.avi"
	ti.CharLimit = 4096
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	var inputHistory []string
	if cfg.DataDir != "" {
		inputHistory = LoadSettings(cfg.DataDir).InputHistory
	}

	return Model{
		input:        ti,
		spinner:      sp,
		inputHistory: inputHistory,
		historyIndex: -1,
		entries: []Entry{{
			Kind:      EntrySystem,
			Content:   "Enter 'quit' or 'exit' to exit the program",
			Timestamp: time.Now(),
		}},
		cfg: cfg,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 7 // input + status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 8
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.working {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case processedMsg:
		m.working = false
		m.appendOutcome(msg)
		m.updateViewportContent()
		m.viewport.GotoBottom()
	}

	if !m.working {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		return m, tea.Quit

	case tea.KeyCtrlL:
		m.entries = nil
		m.updateViewportContent()
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil
	}

	if m.working {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		if line == "" {
			return m, nil
		}
		if IsExit(line) {
			return m, tea.Quit
		}

		m.rememberInput(line)
		m.input.Reset()
		m.entries = append(m.entries, Entry{Kind: EntryPhrase, Content: line, Timestamp: time.Now()})
		m.working = true
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, tea.Batch(m.spinner.Tick, m.process(line))

	case tea.KeyUp:
		if len(m.inputHistory) > 0 {
			if m.historyIndex == -1 {
				m.currentInput = m.input.Value()
				m.historyIndex = len(m.inputHistory) - 1
			} else if m.historyIndex > 0 {
				m.historyIndex--
			}
			m.input.SetValue(m.inputHistory[m.historyIndex])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIndex != -1 {
			if m.historyIndex < len(m.inputHistory)-1 {
				m.historyIndex++
				m.input.SetValue(m.inputHistory[m.historyIndex])
			} else {
				m.historyIndex = -1
				m.input.SetValue(m.currentInput)
			}
			m.input.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// rememberInput appends line to the input history unless it repeats the
// last entry
func (m *Model) rememberInput(line string) {
	m.historyIndex = -1
	m.currentInput = ""
	if n := len(m.inputHistory); n > 0 && m.inputHistory[n-1] == line {
		return
	}
	m.inputHistory = append(m.inputHistory, line)
	if len(m.inputHistory) > maxInputHistory {
		m.inputHistory = m.inputHistory[len(m.inputHistory)-maxInputHistory:]
	}
	if m.cfg.DataDir != "" {
		if err := SaveSettings(m.cfg.DataDir, &Settings{InputHistory: m.inputHistory}); err != nil {
			m.cfg.Logger.WarnWithErr("input history not saved", err)
		}
	}
}

// process runs the phrase off the UI loop
func (m Model) process(line string) tea.Cmd {
	p := m.cfg.Processor
	req := translator.Request{
		Phrase:    line,
		DryRun:    m.cfg.DryRun,
		OutputDir: m.cfg.OutputDir,
		Params:    m.cfg.Params,
	}
	return func() tea.Msg {
		start := time.Now()
		outcome, err := p.Process(context.Background(), req)
		return processedMsg{outcome: outcome, err: err, duration: time.Since(start)}
	}
}

// appendOutcome adds the entries describing a processed phrase
func (m *Model) appendOutcome(msg processedMsg) {
	now := time.Now()
	if msg.outcome != nil && msg.outcome.Command != "" {
		m.entries = append(m.entries, Entry{Kind: EntryCommand, Content: msg.outcome.Command, Timestamp: now})
	}

	if msg.err != nil {
		g := translator.GuidanceFor(msg.err)
		guidance := []string{"Guidance: " + g.Hint}
		if g.Example != "" {
			guidance = append(guidance, "Example: "+g.Example)
		}
		if g.Hint == "" {
			guidance = nil
		}
		m.entries = append(m.entries, Entry{
			Kind:      EntryError,
			Content:   g.Title + ": " + g.Reason,
			Guidance:  guidance,
			Timestamp: now,
		})
		return
	}

	if msg.outcome == nil {
		return
	}
	status := "dry run, not executed"
	if msg.outcome.Result != nil {
		status = fmt.Sprintf("done (%s)", msg.outcome.Result.Backend)
	}
	m.entries = append(m.entries, Entry{Kind: EntryResult, Content: status, Timestamp: now, Duration: msg.duration})
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	var b strings.Builder
	b.WriteString(LogoStyle.Render(Logo) + " " + SubHeaderStyle.Render("(Interactive Mode)"))
	b.WriteString("\n")
	b.WriteString(TranscriptPanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderInputArea())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderInputArea() string {
	content := m.input.View()
	if m.working {
		content = m.spinner.View() + WorkingStyle.Render(" Running...")
	}
	return InputStyle.Width(m.width - 2).Render(content)
}

func (m Model) renderStatusBar() string {
	left := HelpDescStyle.Render("mode: run")
	if m.cfg.DryRun {
		left = DryRunBadgeStyle.Render("mode: dry run")
	}
	if m.cfg.OutputDir != "" {
		left += HelpDescStyle.Render("  output: " + m.cfg.OutputDir)
	}
	right := HelpDescStyle.Render("v" + m.cfg.Version)

	space := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if space < 2 {
		space = 2
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", space) + right)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("Enter", "run"),
		RenderKeyHint("↑/↓", "history"),
		RenderKeyHint("PgUp/PgDn", "scroll"),
		RenderKeyHint("Ctrl+L", "clear"),
		RenderKeyHint("Ctrl+C", "quit"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateViewportContent renders the transcript into the viewport
func (m *Model) updateViewportContent() {
	var content strings.Builder

	for _, e := range m.entries {
		switch e.Kind {
		case EntryPhrase:
			content.WriteString(PhraseStyle.Render(m.cfg.Prompt+e.Content) + "  " + HelpDescStyle.Render(e.Timestamp.Format("15:04")))
			content.WriteString("\n")
		case EntryCommand:
			content.WriteString(CommandStyle.Render(e.Content))
			content.WriteString("\n")
		case EntryResult:
			text := e.Content
			if e.Duration > 0 {
				text += fmt.Sprintf(" in %.1fs", e.Duration.Seconds())
			}
			content.WriteString(SuccessStyle.Render(text))
			content.WriteString("\n\n")
		case EntryError:
			content.WriteString(ErrorTitleStyle.Render(e.Content))
			content.WriteString("\n")
			if len(e.Guidance) > 0 {
				content.WriteString(GuidanceStyle.Render(strings.Join(e.Guidance, "\n")))
				content.WriteString("\n")
			}
			content.WriteString("\n")
		case EntrySystem:
			content.WriteString(SystemStyle.Render(e.Content))
			content.WriteString("\n")
		}
	}

	m.viewport.SetContent(content.String())
}

// Run starts the interactive TUI
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
