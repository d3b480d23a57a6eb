// Package model defines the core data types for the tdl task system.
package model

import (
	"sync"
	"time"
)

// Task is a to-do item belonging to exactly one project.
type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	ProjectID int64     `json:"projectId"`
}

// Project is a named grouping container for tasks.
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FilterMode is a view-level predicate over task completion state.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
)

func (f FilterMode) IsValid() bool {
	return f == FilterAll || f == FilterActive || f == FilterCompleted
}

// SortMethod is a view-level ordering rule for displayed tasks.
type SortMethod string

const (
	SortAlphabetical        SortMethod = "alphabetical"
	SortReverseAlphabetical SortMethod = "reverseAlphabetical"
	SortCreationDate        SortMethod = "creationDate"
)

func (s SortMethod) IsValid() bool {
	return s == SortAlphabetical || s == SortReverseAlphabetical || s == SortCreationDate
}

// Defaults used on first run and when a persisted slice fails to load.
const (
	DefaultProjectID   int64      = 1
	DefaultProjectName string     = "Default Project"
	DefaultFilter      FilterMode = FilterActive
	DefaultSort        SortMethod = SortCreationDate
	DefaultLanguage    string     = "en"
)

// DefaultProject returns the project that exists on first run.
func DefaultProject() Project {
	return Project{ID: DefaultProjectID, Name: DefaultProjectName}
}

var (
	idMu   sync.Mutex
	lastID int64
)

// NewID returns a creation-time-derived identifier (Unix milliseconds).
// Calls landing on the same millisecond are bumped so IDs stay unique
// within the process lifetime. Not a cross-process guarantee.
func NewID() int64 {
	idMu.Lock()
	defer idMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
