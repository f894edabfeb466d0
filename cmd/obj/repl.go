package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"obj/interpreter-go/pkg/interpreter"
	"obj/interpreter-go/pkg/parser"
	"obj/interpreter-go/pkg/runtime"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	input      textinput.Model
	interp     *interpreter.Interpreter
	printed    *strings.Builder
	history    []historyEntry
	cmdHistory []string
	historyIdx int
	quitting   bool
}

func newReplModel() replModel {
	printed := &strings.Builder{}
	input := textinput.New()
	input.Placeholder = "define x = 10"
	input.Prompt = promptStyle.Render("obj> ")
	input.Focus()
	return replModel{
		input:   input,
		interp:  interpreter.NewWithOutput(printed),
		printed: printed,
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyCtrlL:
			m.history = nil
			return m, nil
		case tea.KeyUp:
			if len(m.cmdHistory) > 0 && m.historyIdx > 0 {
				m.historyIdx--
				m.input.SetValue(m.cmdHistory[m.historyIdx])
				m.input.CursorEnd()
			}
			return m, nil
		case tea.KeyDown:
			if m.historyIdx < len(m.cmdHistory)-1 {
				m.historyIdx++
				m.input.SetValue(m.cmdHistory[m.historyIdx])
				m.input.CursorEnd()
			} else {
				m.historyIdx = len(m.cmdHistory)
				m.input.SetValue("")
			}
			return m, nil
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.cmdHistory = append(m.cmdHistory, line)
			m.historyIdx = len(m.cmdHistory)
			m.history = append(m.history, m.evaluate(line))
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// evaluate runs one REPL line against the persistent interpreter, folding
// anything print() emitted into the shown output.
func (m replModel) evaluate(line string) historyEntry {
	entry := historyEntry{input: line}
	program, err := parser.Parse(line)
	if err != nil {
		entry.output = err.Error()
		entry.isErr = true
		return entry
	}
	m.printed.Reset()
	var last runtime.Value = runtime.NilValue{}
	for _, stmt := range program.Statements {
		val, err := m.interp.EvaluateStatement(stmt)
		if err != nil {
			entry.output = strings.TrimRight(m.printed.String()+err.Error(), "\n")
			entry.isErr = true
			return entry
		}
		last = val
	}
	out := m.printed.String()
	entry.output = strings.TrimRight(out+runtime.Stringify(last), "\n")
	return entry
}

func (m replModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(mutedStyle.Render(cliToolVersion+" | ctrl+d to exit, ctrl+l to clear") + "\n\n")
	for _, entry := range m.history {
		b.WriteString(promptStyle.Render("obj> ") + entry.input + "\n")
		style := resultStyle
		if entry.isErr {
			style = errorStyle
		}
		for _, line := range strings.Split(entry.output, "\n") {
			b.WriteString(style.Render(line) + "\n")
		}
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

func runRepl() int {
	if _, err := tea.NewProgram(newReplModel()).Run(); err != nil {
		fmt.Printf("repl error: %v\n", err)
		return 1
	}
	return 0
}
