package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/wippyai/rtti-runtime/descriptor"
	"github.com/wippyai/rtti-runtime/registry"
)

const pageSize = 20

type modelState int

const (
	stateBrowse modelState = iota
	stateDetail
)

type browserModel struct {
	reg      *registry.Registry
	st       styles
	filename string
	all      []*descriptor.Type
	visible  []*descriptor.Type
	filter   textinput.Model
	selected int
	state    modelState
}

func newBrowserModel(filename string, reg *registry.Registry, st styles) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "filter by name"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()

	m := &browserModel{
		reg:      reg,
		st:       st,
		filename: filename,
		all:      reg.AllTypes(),
		filter:   ti,
	}
	m.applyFilter()
	return m
}

func (m *browserModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for _, t := range m.all {
		if q == "" || strings.Contains(strings.ToLower(t.Name), q) {
			m.visible = append(m.visible, t)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *browserModel) current() *descriptor.Type {
	if len(m.visible) == 0 {
		return nil
	}
	return m.visible[m.selected]
}

func (m *browserModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.state == stateBrowse && m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			if m.state == stateBrowse && m.current() != nil {
				m.state = stateDetail
				m.filter.Blur()
			}
			return m, nil

		case "esc":
			if m.state == stateDetail {
				m.state = stateBrowse
				return m, m.filter.Focus()
			}
			return m, tea.Quit

		case "q":
			if m.state == stateDetail {
				return m, tea.Quit
			}
		}
	}

	if m.state != stateBrowse {
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(m.st.title.Render("RTTI Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		if len(m.visible) == 0 {
			b.WriteString(m.st.err.Render("no matching types"))
			b.WriteString("\n")
		}
		start := 0
		if m.selected >= pageSize {
			start = m.selected - pageSize + 1
		}
		end := min(start+pageSize, len(m.visible))
		for i := start; i < end; i++ {
			t := m.visible[i]
			if i == m.selected {
				b.WriteString(m.st.selected.Render("> " + t.Kind.String() + " " + t.Name))
			} else {
				b.WriteString("  " + m.st.typeLine(t))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.st.dim.Render("type to filter • ↑/↓ select • enter describe • esc quit"))

	case stateDetail:
		b.WriteString(m.st.describeType(m.reg, m.current()))
		b.WriteString("\n")
		b.WriteString(m.st.dim.Render("esc back • q quit"))
	}

	return b.String()
}

func runInteractive(filename string, reg *registry.Registry) error {
	st := newStyles(term.IsTerminal(int(os.Stdout.Fd())))
	p := tea.NewProgram(newBrowserModel(filename, reg, st), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
