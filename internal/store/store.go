// Package store holds the canonical task/project state and its mutation
// operations. All mutations are atomic: they either fully apply or fully
// reject, and every committed mutation notifies subscribers with a snapshot.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tdl/internal/model"
)

// HighlightDuration is how long a newly added project stays highlighted.
// The highlight is presentation-only and never persisted.
const HighlightDuration = 2000 * time.Millisecond

var (
	// ErrEmptyInput is returned when a title or name is empty after trimming.
	ErrEmptyInput = errors.New("empty input")
	// ErrDuplicateName is returned when a project name collides
	// case-insensitively with an existing project.
	ErrDuplicateName = errors.New("duplicate project name")
	// ErrLastProject is returned when deleting the only remaining project.
	ErrLastProject = errors.New("cannot delete the last project")
	// ErrNotFound is returned when an id does not reference anything.
	ErrNotFound = errors.New("not found")
)

// State is the full canonical state of the engine.
type State struct {
	Tasks            []model.Task
	Projects         []model.Project
	CurrentProjectID int64
	Filter           model.FilterMode
	Sort             model.SortMethod
	Language         string
}

// Clone returns a copy whose slices are independent of the original.
func (s State) Clone() State {
	c := s
	c.Tasks = append([]model.Task(nil), s.Tasks...)
	c.Projects = append([]model.Project(nil), s.Projects...)
	return c
}

// DefaultState returns the first-run state: one default project, no tasks.
func DefaultState() State {
	return State{
		Projects:         []model.Project{model.DefaultProject()},
		CurrentProjectID: model.DefaultProjectID,
		Filter:           model.DefaultFilter,
		Sort:             model.DefaultSort,
		Language:         model.DefaultLanguage,
	}
}

// Store owns the canonical state. Construct one per process with New;
// there are no package-level instances, so tests can build isolated stores.
type Store struct {
	mu    sync.Mutex
	state State
	subs  []func(State)

	highlightID    int64
	highlightTimer *time.Timer
}

// New constructs a store from the given state after normalizing it so the
// engine invariants hold: at least one project, a valid current project,
// no tasks referencing missing projects, valid filter/sort modes.
// Persisted state that partially failed to load arrives here in exactly
// that shape.
func New(s State) *Store {
	return &Store{state: normalize(s.Clone())}
}

func normalize(s State) State {
	if len(s.Projects) == 0 {
		s.Projects = []model.Project{model.DefaultProject()}
	}
	if !projectExists(s.Projects, s.CurrentProjectID) {
		s.CurrentProjectID = s.Projects[0].ID
	}
	kept := s.Tasks[:0]
	for _, t := range s.Tasks {
		if projectExists(s.Projects, t.ProjectID) {
			kept = append(kept, t)
		}
	}
	s.Tasks = kept
	if !s.Filter.IsValid() {
		s.Filter = model.DefaultFilter
	}
	if !s.Sort.IsValid() {
		s.Sort = model.DefaultSort
	}
	if s.Language == "" {
		s.Language = model.DefaultLanguage
	}
	return s
}

func projectExists(projects []model.Project, id int64) bool {
	for _, p := range projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Subscribe registers fn to be called with a state snapshot after every
// committed mutation. Subscribers are invoked outside the store lock.
func (st *Store) Subscribe(fn func(State)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.subs = append(st.subs, fn)
}

// State returns a snapshot of the canonical state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.Clone()
}

// commit snapshots the state and returns the subscribers to notify.
// Callers must hold st.mu and must invoke the returned func after unlocking.
func (st *Store) commit() func() {
	snapshot := st.state.Clone()
	subs := append(([]func(State))(nil), st.subs...)
	return func() {
		for _, fn := range subs {
			fn(snapshot)
		}
	}
}

// AddTask appends a new incomplete task to the current project.
// The title is trimmed; an empty result rejects with ErrEmptyInput.
func (st *Store) AddTask(title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyInput
	}

	st.mu.Lock()
	task := model.Task{
		ID:        model.NewID(),
		Title:     title,
		Completed: false,
		CreatedAt: time.Now(),
		ProjectID: st.state.CurrentProjectID,
	}
	st.state.Tasks = append(st.state.Tasks, task)
	notify := st.commit()
	st.mu.Unlock()

	notify()
	return task, nil
}

// ToggleTask flips the completed flag of the task with the given id.
// An unknown id is a no-op: ids are internally generated, so a miss means
// a stale reference, not corruption.
func (st *Store) ToggleTask(id int64) {
	st.mu.Lock()
	found := false
	for i := range st.state.Tasks {
		if st.state.Tasks[i].ID == id {
			st.state.Tasks[i].Completed = !st.state.Tasks[i].Completed
			found = true
			break
		}
	}
	if !found {
		st.mu.Unlock()
		return
	}
	notify := st.commit()
	st.mu.Unlock()

	notify()
}

// ClearCompleted removes every completed task across all projects, not just
// the current one. This matches the observed behavior of the app this engine
// replaces; callers that want per-project scoping must filter first.
func (st *Store) ClearCompleted() {
	st.mu.Lock()
	kept := st.state.Tasks[:0]
	for _, t := range st.state.Tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	st.state.Tasks = kept
	notify := st.commit()
	st.mu.Unlock()

	notify()
}

// AddProject creates a new project and makes it current. The name is
// trimmed; empty rejects with ErrEmptyInput, and a case-insensitive
// collision with an existing name rejects with ErrDuplicateName.
// The new project is highlighted for HighlightDuration; a subsequent
// AddProject supersedes any pending highlight.
func (st *Store) AddProject(name string) (model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Project{}, ErrEmptyInput
	}

	st.mu.Lock()
	for _, p := range st.state.Projects {
		if strings.EqualFold(p.Name, name) {
			st.mu.Unlock()
			return model.Project{}, ErrDuplicateName
		}
	}
	project := model.Project{ID: model.NewID(), Name: name}
	st.state.Projects = append(st.state.Projects, project)
	st.state.CurrentProjectID = project.ID
	st.armHighlight(project.ID)
	notify := st.commit()
	st.mu.Unlock()

	notify()
	return project, nil
}

// armHighlight marks id as the freshly added project and schedules the
// expiry, cancelling any timer from a prior addition. Callers hold st.mu.
func (st *Store) armHighlight(id int64) {
	if st.highlightTimer != nil {
		st.highlightTimer.Stop()
	}
	st.highlightID = id
	st.highlightTimer = time.AfterFunc(HighlightDuration, func() {
		st.mu.Lock()
		if st.highlightID == id {
			st.highlightID = 0
		}
		st.mu.Unlock()
	})
}

// HighlightedProject reports which project, if any, was just added.
func (st *Store) HighlightedProject() (int64, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.highlightID, st.highlightID != 0
}

// DeleteProject removes a project and every task that belongs to it.
// Deleting the only remaining project rejects with ErrLastProject; an
// unknown id is a silent no-op. If the deleted project was current, the
// first remaining project (in existing relative order) becomes current.
func (st *Store) DeleteProject(id int64) error {
	st.mu.Lock()
	if len(st.state.Projects) <= 1 {
		st.mu.Unlock()
		return ErrLastProject
	}
	if !projectExists(st.state.Projects, id) {
		st.mu.Unlock()
		return nil
	}

	projects := st.state.Projects[:0]
	for _, p := range st.state.Projects {
		if p.ID != id {
			projects = append(projects, p)
		}
	}
	st.state.Projects = projects

	tasks := st.state.Tasks[:0]
	for _, t := range st.state.Tasks {
		if t.ProjectID != id {
			tasks = append(tasks, t)
		}
	}
	st.state.Tasks = tasks

	if st.state.CurrentProjectID == id {
		st.state.CurrentProjectID = st.state.Projects[0].ID
	}
	notify := st.commit()
	st.mu.Unlock()

	notify()
	return nil
}

// SetCurrentProject selects the project tasks are created in and displayed
// from. Unknown ids reject with ErrNotFound and leave the selection alone.
func (st *Store) SetCurrentProject(id int64) error {
	st.mu.Lock()
	if !projectExists(st.state.Projects, id) {
		st.mu.Unlock()
		return ErrNotFound
	}
	st.state.CurrentProjectID = id
	notify := st.commit()
	st.mu.Unlock()

	notify()
	return nil
}

// SetFilter sets the view filter mode.
func (st *Store) SetFilter(mode model.FilterMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid filter mode: %s", mode)
	}
	st.mu.Lock()
	st.state.Filter = mode
	notify := st.commit()
	st.mu.Unlock()

	notify()
	return nil
}

// SetSort sets the view sort method.
func (st *Store) SetSort(method model.SortMethod) error {
	if !method.IsValid() {
		return fmt.Errorf("invalid sort method: %s", method)
	}
	st.mu.Lock()
	st.state.Sort = method
	notify := st.commit()
	st.mu.Unlock()

	notify()
	return nil
}

// SetLanguage sets the UI locale code. The engine passes it through
// opaquely; only the presentation layer interprets it.
func (st *Store) SetLanguage(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyInput
	}
	st.mu.Lock()
	st.state.Language = code
	notify := st.commit()
	st.mu.Unlock()

	notify()
	return nil
}
