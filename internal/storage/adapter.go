package storage

import (
	"encoding/json"
	"fmt"
	"strconv"

	"tdl/internal/model"
	"tdl/internal/store"
)

// Keys for the six independently persisted state slices.
const (
	KeyTasks           = "tasks"
	KeyProjects        = "projects"
	KeyLastUsedProject = "lastUsedProject"
	KeyLanguage        = "language"
	KeySortMethod      = "sortMethod"
	KeyFilterMode      = "filterMode"
)

// Adapter serializes the canonical state into the KV store and back.
// Each slice is keyed independently so one corrupt value never takes the
// others down with it.
type Adapter struct {
	kv *KV
}

// NewAdapter wraps an open KV store.
func NewAdapter(kv *KV) *Adapter {
	return &Adapter{kv: kv}
}

// LoadState reads all six slices. A slice that is missing or fails to
// parse falls back to its documented default; the result may still need
// normalization (store.New does that), e.g. when lastUsedProject refers
// to a project that no longer exists.
func (a *Adapter) LoadState() store.State {
	s := store.DefaultState()
	s.Tasks = nil

	if value, ok := a.read(KeyTasks); ok {
		var tasks []model.Task
		if err := json.Unmarshal([]byte(value), &tasks); err == nil {
			s.Tasks = tasks
		}
	}
	if value, ok := a.read(KeyProjects); ok {
		var projects []model.Project
		if err := json.Unmarshal([]byte(value), &projects); err == nil && len(projects) > 0 {
			s.Projects = projects
		}
	}
	if value, ok := a.read(KeyLastUsedProject); ok {
		if id, err := strconv.ParseInt(value, 10, 64); err == nil {
			s.CurrentProjectID = id
		}
	}
	if value, ok := a.read(KeyLanguage); ok && value != "" {
		s.Language = value
	}
	if value, ok := a.read(KeySortMethod); ok {
		if method := model.SortMethod(value); method.IsValid() {
			s.Sort = method
		}
	}
	if value, ok := a.read(KeyFilterMode); ok {
		if mode := model.FilterMode(value); mode.IsValid() {
			s.Filter = mode
		}
	}
	return s
}

// read degrades read errors to "missing": persistence failures fall back
// to defaults rather than propagating.
func (a *Adapter) read(key string) (string, bool) {
	value, ok, err := a.kv.Get(key)
	if err != nil {
		return "", false
	}
	return value, ok
}

// SaveState re-serializes every slice and overwrites all six keys in one
// transaction. Called by the store's subscription after each committed
// mutation.
func (a *Adapter) SaveState(s store.State) error {
	tasks := s.Tasks
	if tasks == nil {
		tasks = []model.Task{}
	}
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	projectsJSON, err := json.Marshal(s.Projects)
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}

	return a.kv.SetAll(map[string]string{
		KeyTasks:           string(tasksJSON),
		KeyProjects:        string(projectsJSON),
		KeyLastUsedProject: strconv.FormatInt(s.CurrentProjectID, 10),
		KeyLanguage:        s.Language,
		KeySortMethod:      string(s.Sort),
		KeyFilterMode:      string(s.Filter),
	})
}
