package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/pcdecode/batch"
	"github.com/wippyai/pcdecode/decompiler"
	"github.com/wippyai/pcdecode/manifest"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// chromeLines is the number of lines around the viewport: title, blank
// line, blank line, help.
const chromeLines = 4

type viewState int

const (
	stateSelect viewState = iota
	stateView
)

type entry struct {
	job        batch.Job
	headerSize int
}

type viewerModel struct {
	err       error
	cfg       config
	title     string
	entries   []entry
	visible   []int
	filter    textinput.Model
	viewport  viewport.Model
	source    string
	trace     []decompiler.TraceEvent
	selected  int
	state     viewState
	loaded    bool
	filtering bool
	showTrace bool
}

func newViewerModel(cfg config) *viewerModel {
	fi := textinput.New()
	fi.Prompt = "/"
	fi.Placeholder = "filter programs"
	fi.Width = 40
	return &viewerModel{
		cfg:      cfg,
		filter:   fi,
		viewport: viewport.New(80, 20),
		state:    stateSelect,
	}
}

type loadedMsg struct {
	err     error
	title   string
	entries []entry
}

type decodedMsg struct {
	err    error
	source string
	trace  []decompiler.TraceEvent
}

func (m *viewerModel) Init() tea.Cmd {
	return m.load
}

func (m *viewerModel) load() tea.Msg {
	if m.cfg.in != "" {
		job := batch.Job{Program: manifest.Program{
			Name:     programName(m.cfg.in),
			Bytecode: m.cfg.in,
			Symbols:  m.cfg.refs,
		}}
		return loadedMsg{title: m.cfg.in, entries: []entry{{job: job, headerSize: m.cfg.header}}}
	}

	mf, err := manifest.Load(m.cfg.manifest)
	if err != nil {
		return loadedMsg{err: err}
	}
	header := m.cfg.header
	if header == 0 {
		header = mf.HeaderSize
	}
	var entries []entry
	for _, job := range batch.Jobs(mf) {
		entries = append(entries, entry{job: job, headerSize: header})
	}
	return loadedMsg{title: filepath.Base(m.cfg.manifest), entries: entries}
}

func (m *viewerModel) decode() tea.Msg {
	e := m.entries[m.visible[m.selected]]

	program, err := e.job.ReadBytecode()
	if err != nil {
		return decodedMsg{err: err}
	}
	symbols, err := e.job.SymbolTable()
	if err != nil {
		return decodedMsg{err: err}
	}

	var trace []decompiler.TraceEvent
	src, err := decompiler.DecompileWithOptions(program, symbols, decompiler.Options{
		HeaderSize: e.headerSize,
		Trace:      func(ev decompiler.TraceEvent) { trace = append(trace, ev) },
	})
	return decodedMsg{source: src, trace: trace, err: err}
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeLines)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

		switch m.state {
		case stateSelect:
			switch msg.String() {
			case "up", "k":
				if m.selected > 0 {
					m.selected--
				}
			case "down", "j":
				if m.selected < len(m.visible)-1 {
					m.selected++
				}
			case "/":
				m.filtering = true
				return m, m.filter.Focus()
			case "enter":
				if len(m.visible) > 0 {
					return m, m.decode
				}
			}
			return m, nil

		case stateView:
			switch msg.String() {
			case "esc":
				m.state = stateSelect
				m.err = nil
				return m, nil
			case "t":
				m.showTrace = !m.showTrace
				m.refreshContent()
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case loadedMsg:
		m.err = msg.err
		m.title = msg.title
		m.entries = msg.entries
		m.loaded = true
		m.applyFilter()

	case decodedMsg:
		m.err = msg.err
		m.source = msg.source
		m.trace = msg.trace
		m.state = stateView
		m.refreshContent()
	}

	return m, nil
}

func (m *viewerModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *viewerModel) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if q == "" || strings.Contains(strings.ToLower(e.job.Name), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(0, len(m.visible)-1)
	}
}

func (m *viewerModel) refreshContent() {
	switch {
	case m.err != nil:
		m.viewport.SetContent(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.showTrace:
		m.viewport.SetContent(formatTrace(m.trace))
	default:
		m.viewport.SetContent(strings.ReplaceAll(m.source, "\r\n", "\n"))
	}
	m.viewport.GotoTop()
}

func formatTrace(events []decompiler.TraceEvent) string {
	var b strings.Builder
	for _, ev := range events {
		fmt.Fprintf(&b, "%6d  %s  indent=%d parens=%d",
			ev.Offset, opStyle.Render(fmt.Sprintf("%-16s", ev.Name)), ev.Indent, ev.Parens)
		if ev.InIf {
			b.WriteString(" if")
		}
		if ev.InClass {
			b.WriteString(" class")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *viewerModel) View() string {
	if m.err != nil && m.state == stateSelect {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("pcdecode"))
	b.WriteString(" ")
	b.WriteString(m.title)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect:
		if m.filtering || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		for i, idx := range m.visible {
			name := m.entries[idx].job.Name
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + name))
			} else {
				b.WriteString("  " + nameStyle.Render(name))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • / filter • enter decode • q quit"))

	case stateView:
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		mode := "trace"
		if m.showTrace {
			mode = "source"
		}
		b.WriteString(helpStyle.Render("↑/↓ scroll • t " + mode + " • esc back • q quit"))
	}

	return b.String()
}

func runInteractive(cfg config) error {
	p := tea.NewProgram(newViewerModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
