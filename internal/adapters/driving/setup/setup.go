// Package setup provides the interactive first-run configuration form.
package setup

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

// Field describes one form input bound to a config key.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Secret      bool
}

// Fields returns the setup form's fields in display order.
func Fields() []Field {
	return []Field{
		{Key: "garmin.email", Label: "Garmin email", Placeholder: "you@example.com"},
		{Key: "garmin.password", Label: "Garmin password", Secret: true},
		{Key: "notion.token", Label: "Notion integration token", Placeholder: "secret_...", Secret: true},
		{Key: "notion.activities_db", Label: "Activities database ID"},
		{Key: "notion.records_db", Label: "Personal records database ID"},
		{Key: "notion.steps_db", Label: "Steps database ID"},
		{Key: "notion.sleep_db", Label: "Sleep database ID"},
		{Key: "notion.exercises_db", Label: "Exercise progress database ID"},
		{Key: "sync.timezone", Label: "Timezone", Placeholder: "Europe/Amsterdam"},
		{Key: "strong.csv_path", Label: "Strong CSV path or export dir"},
		{Key: "strong.drive_folder", Label: "Google Drive folder ID"},
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("36"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	focusedLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Model is the setup form. Empty inputs leave existing config values
// untouched, so re-running setup only changes what you type.
type Model struct {
	config driven.ConfigStore
	fields []Field
	inputs []textinput.Model
	focus  int
	done   bool
	err    error
}

// New creates the setup form over config.
func New(config driven.ConfigStore) *Model {
	fields := Fields()
	inputs := make([]textinput.Model, len(fields))
	for i, field := range fields {
		input := textinput.New()
		input.Placeholder = field.Placeholder
		input.CharLimit = 256
		input.Width = 48
		if field.Secret {
			input.EchoMode = textinput.EchoPassword
		}
		if current := config.GetString(field.Key); current != "" && !field.Secret {
			input.Placeholder = current
		}
		inputs[i] = input
	}
	inputs[0].Focus()

	return &Model{
		config: config,
		fields: fields,
		inputs: inputs,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.focus == len(m.inputs)-1 {
				m.err = m.save()
				m.done = m.err == nil
				return m, tea.Quit
			}
			m.setFocus(m.focus + 1)
			return m, nil
		case "tab", "down":
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus - 1 + len(m.inputs)) % len(m.inputs))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// save writes every non-empty input to the config store.
func (m *Model) save() error {
	for i, field := range m.fields {
		value := strings.TrimSpace(m.inputs[i].Value())
		if value == "" {
			continue
		}
		if err := m.config.Set(field.Key, value); err != nil {
			return fmt.Errorf("save %s: %w", field.Key, err)
		}
	}
	return m.config.Save()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done {
		return titleStyle.Render("Configuration saved.") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("fitsync setup"))
	b.WriteString("\n\n")
	for i := range m.fields {
		style := labelStyle
		if i == m.focus {
			style = focusedLabelStyle
		}
		b.WriteString(style.Render(m.fields[i].Label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}
	b.WriteString(helpStyle.Render("tab/shift+tab to move, enter on the last field to save, esc to cancel"))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(helpStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// Done reports whether the form saved successfully.
func (m *Model) Done() bool { return m.done }

// Err returns the save error, if any.
func (m *Model) Err() error { return m.err }

// Run blocks on the interactive form.
func Run(config driven.ConfigStore) error {
	model := New(config)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("setup form: %w", err)
	}
	return model.Err()
}
