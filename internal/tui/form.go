package tui

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user leaves a form with esc or ctrl+c.
var ErrCancelled = errors.New("input cancelled")

// Field is one input of a form.
type Field struct {
	Label       string
	Placeholder string
	// Secret masks the typed value.
	Secret bool
	// Value pre-fills the input.
	Value string
	// Required rejects submission while the field is blank.
	Required bool
}

// formModel is a vertical list of inputs submitted with enter on the last one.
type formModel struct {
	title     string
	subtitle  string
	fields    []Field
	inputs    []textinput.Model
	focus     int
	err       string
	submitted bool
	cancelled bool
}

func newFormModel(title, subtitle string, fields []Field) formModel {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.CharLimit = 512
		ti.Width = 48
		ti.Placeholder = f.Placeholder
		ti.SetValue(strings.TrimSpace(f.Value))
		if f.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '*'
		}
		inputs[i] = ti
	}
	m := formModel{title: title, subtitle: subtitle, fields: fields, inputs: inputs}
	m.setFocus(0)
	return m
}

func (m *formModel) setFocus(index int) {
	if len(m.inputs) == 0 {
		return
	}
	if index < 0 {
		index = len(m.inputs) - 1
	}
	m.focus = index % len(m.inputs)
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// values returns the trimmed input values; secrets are returned as typed.
func (m formModel) values() []string {
	out := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		if m.fields[i].Secret {
			out[i] = in.Value()
		} else {
			out[i] = strings.TrimSpace(in.Value())
		}
	}
	return out
}

// missing returns the index of the first blank required field, or -1.
func (m formModel) missing() int {
	for i, v := range m.values() {
		if m.fields[i].Required && strings.TrimSpace(v) == "" {
			return i
		}
	}
	return -1
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, textinput.Blink
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, textinput.Blink
		case "enter":
			if m.focus < len(m.inputs)-1 {
				m.setFocus(m.focus + 1)
				return m, textinput.Blink
			}
			if idx := m.missing(); idx >= 0 {
				m.err = m.fields[idx].Label + " is required"
				m.setFocus(idx)
				return m, textinput.Blink
			}
			m.submitted = true
			return m, tea.Quit
		}
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m formModel) View() string {
	if m.submitted {
		return successStyle.Render("✓ "+m.title) + "\n"
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n")
	if m.subtitle != "" {
		sb.WriteString(subtitleStyle.Render(m.subtitle))
		sb.WriteString("\n\n")
	}
	for i, f := range m.fields {
		label := labelStyle
		if i == m.focus {
			label = focusedLabelStyle
		}
		sb.WriteString(label.Render(f.Label))
		sb.WriteString(valueStyle.Render(m.inputs[i].View()))
		sb.WriteString("\n")
	}
	if m.err != "" {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("tab/↑↓ move • enter next/submit • esc cancel"))
	return sectionStyle.Render(sb.String()) + "\n"
}

// PromptForm shows a form and returns the entered values in field order.
// output specifies where bubbletea renders. If nil, defaults to os.Stdout.
func PromptForm(title, subtitle string, fields []Field, output io.Writer) ([]string, error) {
	if output == nil {
		output = os.Stdout
	}
	p := tea.NewProgram(newFormModel(title, subtitle, fields), tea.WithOutput(output))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(formModel)
	if !ok || m.cancelled || !m.submitted {
		return nil, ErrCancelled
	}
	return m.values(), nil
}
