package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tdl/internal/model"
	"tdl/internal/store"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	return New(store.New(store.DefaultState()))
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func TestAddTaskThroughInput(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "a")
	if m.inputMode != InputAddTask {
		t.Fatalf("expected InputAddTask mode, got %d", m.inputMode)
	}
	m = typeText(m, "Buy milk")
	m = press(m, "enter")

	if m.inputMode != InputNone {
		t.Error("expected input to close after submit")
	}
	s := m.store.State()
	if len(s.Tasks) != 1 || s.Tasks[0].Title != "Buy milk" {
		t.Errorf("expected task added, got %v", s.Tasks)
	}
}

func TestEmptyTaskKeepsPromptOpen(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "a", "enter")
	if m.inputMode != InputAddTask {
		t.Error("empty submit should keep the prompt open")
	}
	if len(m.store.State().Tasks) != 0 {
		t.Error("empty submit must not add a task")
	}
}

func TestToggleTaskWithEnter(t *testing.T) {
	m := newTestModel(t)
	m.store.AddTask("Buy milk")
	m.refresh()

	// Default filter is active, so the toggled task leaves the view.
	m = press(m, "enter")
	s := m.store.State()
	if !s.Tasks[0].Completed {
		t.Error("expected task toggled completed")
	}
	if len(m.tasks) != 0 {
		t.Errorf("completed task should leave the active view, got %d", len(m.tasks))
	}
}

func TestFilterKeys(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "1")
	if m.state.Filter != model.FilterAll {
		t.Errorf("expected filter all, got %s", m.state.Filter)
	}
	m = press(m, "3")
	if m.state.Filter != model.FilterCompleted {
		t.Errorf("expected filter completed, got %s", m.state.Filter)
	}
	m = press(m, "2")
	if m.state.Filter != model.FilterActive {
		t.Errorf("expected filter active, got %s", m.state.Filter)
	}
}

func TestSortCycle(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "s")
	if m.state.Sort != model.SortAlphabetical {
		t.Errorf("expected alphabetical, got %s", m.state.Sort)
	}
	m = press(m, "s")
	if m.state.Sort != model.SortReverseAlphabetical {
		t.Errorf("expected reverseAlphabetical, got %s", m.state.Sort)
	}
	m = press(m, "s")
	if m.state.Sort != model.SortCreationDate {
		t.Errorf("expected creationDate, got %s", m.state.Sort)
	}
}

func TestAddProjectAndDuplicateError(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "p")
	m = typeText(m, "Work")
	m = press(m, "enter")

	s := m.store.State()
	if len(s.Projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(s.Projects))
	}
	if s.CurrentProjectID == model.DefaultProjectID {
		t.Error("new project should be current")
	}

	// Duplicate (case-insensitive) shows the error and stays in the prompt.
	m = press(m, "p")
	m = typeText(m, "work")
	m = press(m, "enter")

	if m.inputMode != InputAddProject {
		t.Error("duplicate submit should keep the prompt open")
	}
	if m.errText == "" {
		t.Error("expected duplicate-name error text")
	}
	if got := len(m.store.State().Projects); got != 2 {
		t.Errorf("expected project count unchanged, got %d", got)
	}
}

func TestDeleteProjectConfirm(t *testing.T) {
	m := newTestModel(t)
	m.store.AddProject("Work")
	m.refresh()

	m = press(m, "d")
	if m.inputMode != InputConfirmDelete {
		t.Fatal("expected confirm mode")
	}
	m = press(m, "y")

	s := m.store.State()
	if len(s.Projects) != 1 {
		t.Errorf("expected 1 project after delete, got %d", len(s.Projects))
	}
	if s.CurrentProjectID != model.DefaultProjectID {
		t.Errorf("expected selection back on default project, got %d", s.CurrentProjectID)
	}
}

func TestDeleteHiddenForLastProject(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "d")
	if m.inputMode != InputNone {
		t.Error("delete must not be offered with a single project")
	}
}

func TestClearCompletedKey(t *testing.T) {
	m := newTestModel(t)
	task, _ := m.store.AddTask("done soon")
	m.store.ToggleTask(task.ID)
	m.refresh()

	m = press(m, "c")
	if got := len(m.store.State().Tasks); got != 0 {
		t.Errorf("expected completed tasks cleared, got %d", got)
	}
}

func TestProjectCycleWithTab(t *testing.T) {
	m := newTestModel(t)
	work, _ := m.store.AddProject("Work")
	m.store.SetCurrentProject(model.DefaultProjectID)
	m.refresh()

	m = press(m, "tab")
	if m.state.CurrentProjectID != work.ID {
		t.Errorf("expected tab to select %d, got %d", work.ID, m.state.CurrentProjectID)
	}
	m = press(m, "tab")
	if m.state.CurrentProjectID != model.DefaultProjectID {
		t.Errorf("expected tab to wrap back, got %d", m.state.CurrentProjectID)
	}
}

func TestViewRenders(t *testing.T) {
	m := newTestModel(t)
	m.store.AddTask("Buy milk")
	m.store.SetFilter(model.FilterAll)
	m.refresh()

	out := m.View()
	if !strings.Contains(out, "Buy milk") {
		t.Error("expected task title in view")
	}
	if !strings.Contains(out, "To-Do List") {
		t.Error("expected title in view")
	}
	if !strings.Contains(out, "1 tasks left in this project") {
		t.Error("expected active count footer in view")
	}
}

func TestViewLocalized(t *testing.T) {
	m := newTestModel(t)
	m.store.SetLanguage("es")
	m.refresh()

	out := m.View()
	if !strings.Contains(out, "Lista de Tareas") {
		t.Error("expected Spanish title in view")
	}
}
