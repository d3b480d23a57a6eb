// Package tui provides an interactive terminal UI for tdl using Bubble Tea.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tdl/internal/format"
	"tdl/internal/i18n"
	"tdl/internal/model"
	"tdl/internal/store"
	"tdl/internal/view"
)

// InputMode represents what kind of text input is active.
type InputMode int

const (
	InputNone          InputMode = iota
	InputAddTask                 // Entering a new task title
	InputAddProject              // Entering a new project name
	InputConfirmDelete           // Confirming project deletion
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	projectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("213"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	store *store.Store
	state store.State
	tasks []model.Task

	cursor int

	inputMode InputMode
	input     textinput.Model

	width   int
	height  int
	errText string
}

// New creates a new TUI model on top of an engine store.
func New(st *store.Store) Model {
	input := textinput.New()
	input.CharLimit = 200
	m := Model{
		store:     st,
		state:     st.State(),
		input:     input,
		inputMode: InputNone,
	}
	m.tasks = view.Tasks(m.state)
	return m
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tick()
}

// refresh re-reads the engine state and recomputes the projected task list,
// clamping the cursor to the new bounds.
func (m *Model) refresh() {
	m.state = m.store.State()
	m.tasks = view.Tasks(m.state)
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) t(id string) string {
	return i18n.T(m.state.Language, id)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Redraw so the new-project highlight expires visually.
		return m, tick()

	case tea.KeyMsg:
		if m.inputMode != InputNone {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode == InputConfirmDelete {
		switch msg.String() {
		case "y", "Y":
			_ = m.store.DeleteProject(m.state.CurrentProjectID)
			m.inputMode = InputNone
			m.refresh()
		case "n", "N", "esc":
			m.inputMode = InputNone
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.inputMode = InputNone
		m.errText = ""
		m.input.Blur()
		return m, nil
	case "enter":
		text := m.input.Value()
		switch m.inputMode {
		case InputAddTask:
			if _, err := m.store.AddTask(text); err != nil {
				// Empty title: stay in the prompt, like a form
				// refusing to submit.
				return m, nil
			}
		case InputAddProject:
			if _, err := m.store.AddProject(text); err != nil {
				if err == store.ErrDuplicateName {
					m.errText = m.t(i18n.MsgDuplicateProjectError)
				}
				return m, nil
			}
		}
		m.inputMode = InputNone
		m.errText = ""
		m.input.Blur()
		m.input.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case "enter", " ":
		if m.cursor < len(m.tasks) {
			m.store.ToggleTask(m.tasks[m.cursor].ID)
			m.refresh()
		}

	case "a":
		m.inputMode = InputAddTask
		m.input.Placeholder = m.t(i18n.MsgTaskTitlePlaceholder)
		m.input.SetValue("")
		m.input.Focus()

	case "p":
		m.inputMode = InputAddProject
		m.input.Placeholder = m.t(i18n.MsgNewProjectPlaceholder)
		m.input.SetValue("")
		m.input.Focus()

	case "d":
		// The guard also lives in the engine; hiding the action here
		// just mirrors it, same as the original UI.
		if len(m.state.Projects) > 1 {
			m.inputMode = InputConfirmDelete
		}

	case "c":
		if view.HasCompleted(m.state) {
			m.store.ClearCompleted()
			m.refresh()
		}

	case "tab":
		m.selectProject(1)
	case "shift+tab":
		m.selectProject(-1)

	case "1":
		_ = m.store.SetFilter(model.FilterAll)
		m.refresh()
	case "2":
		_ = m.store.SetFilter(model.FilterActive)
		m.refresh()
	case "3":
		_ = m.store.SetFilter(model.FilterCompleted)
		m.refresh()

	case "s":
		_ = m.store.SetSort(nextSort(m.state.Sort))
		m.refresh()

	case "l":
		_ = m.store.SetLanguage(nextLanguage(m.state.Language))
		m.refresh()
	}

	return m, nil
}

// selectProject moves the current project forward or backward through the
// project list in its stored order.
func (m *Model) selectProject(delta int) {
	projects := m.state.Projects
	if len(projects) < 2 {
		return
	}
	idx := 0
	for i, p := range projects {
		if p.ID == m.state.CurrentProjectID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(projects)) % len(projects)
	_ = m.store.SetCurrentProject(projects[idx].ID)
	m.cursor = 0
	m.refresh()
}

func nextSort(s model.SortMethod) model.SortMethod {
	switch s {
	case model.SortCreationDate:
		return model.SortAlphabetical
	case model.SortAlphabetical:
		return model.SortReverseAlphabetical
	default:
		return model.SortCreationDate
	}
}

func nextLanguage(lang string) string {
	langs := i18n.Languages()
	for i, l := range langs {
		if l == lang {
			return langs[(i+1)%len(langs)]
		}
	}
	return langs[0]
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.t(i18n.MsgTitle)))
	b.WriteString("\n\n")

	b.WriteString(m.renderProjects())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.inputMode == InputConfirmDelete {
		b.WriteString(errorStyle.Render(m.t(i18n.MsgConfirmDeleteTitle)))
		b.WriteString("\n")
		b.WriteString(m.t(i18n.MsgConfirmDeleteDesc))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("y: " + m.t(i18n.MsgConfirmDelete) + "  n: " + m.t(i18n.MsgCancelDelete)))
		b.WriteString("\n")
		return b.String()
	}

	for i, t := range m.tasks {
		line := fmt.Sprintf("%s %s  %s", format.Checkbox(t), t.Title,
			dimStyle.Render(m.t(i18n.MsgCreatedAt)+" "+format.Timestamp(t.CreatedAt)))
		if t.Completed {
			line = doneStyle.Render(line)
		}
		if i == m.cursor && m.inputMode == InputNone {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.tasks) == 0 {
		b.WriteString(dimStyle.Render("—"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(format.TasksLeft(view.ActiveCount(m.state), m.t(i18n.MsgTasksLeft)))
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(errorStyle.Render(m.errText))
		b.WriteString("\n")
	}

	if m.inputMode == InputAddTask || m.inputMode == InputAddProject {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else {
		b.WriteString(helpStyle.Render(m.helpLine()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderProjects() string {
	highlighted, _ := m.store.HighlightedProject()
	parts := make([]string, 0, len(m.state.Projects))
	for _, p := range m.state.Projects {
		name := p.Name
		switch {
		case p.ID == highlighted:
			name = highlightStyle.Render(name)
		case p.ID == m.state.CurrentProjectID:
			name = projectStyle.Render("[" + name + "]")
		default:
			name = dimStyle.Render(name)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderTabs() string {
	render := func(mode model.FilterMode, label string) string {
		if m.state.Filter == mode {
			return tabActiveStyle.Render(" " + label + " ")
		}
		return tabStyle.Render(" " + label + " ")
	}
	return render(model.FilterAll, m.t(i18n.MsgAll)) +
		render(model.FilterActive, m.t(i18n.MsgActive)) +
		render(model.FilterCompleted, m.t(i18n.MsgCompleted)) +
		"  " + dimStyle.Render(m.t(i18n.MsgSortBy)+" "+m.t(string(m.state.Sort)))
}

func (m Model) helpLine() string {
	parts := []string{
		"a: " + m.t(i18n.MsgAddTask),
		"enter: " + m.t(i18n.MsgMarkAsDone),
		"p: " + m.t(i18n.MsgAddProject),
		"tab: " + m.t(i18n.MsgSelectProject),
		"s: " + m.t(i18n.MsgSortBy),
	}
	if len(m.state.Projects) > 1 {
		parts = append(parts, "d: "+m.t(i18n.MsgDeleteProject))
	}
	if view.HasCompleted(m.state) {
		parts = append(parts, "c: "+m.t(i18n.MsgDeleteCompleted))
	}
	parts = append(parts, "q: quit")
	return strings.Join(parts, "  ")
}
