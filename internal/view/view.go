// Package view derives displayable task lists and counters from a state
// snapshot. Everything here is pure: inputs are never mutated.
package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"tdl/internal/model"
	"tdl/internal/store"
)

// Tasks returns the tasks of the current project that match the filter
// mode, ordered by the sort method. The returned slice is freshly
// allocated; the snapshot's task order is left untouched.
func Tasks(s store.State) []model.Task {
	out := make([]model.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ProjectID != s.CurrentProjectID {
			continue
		}
		switch s.Filter {
		case model.FilterActive:
			if t.Completed {
				continue
			}
		case model.FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	sortTasks(out, s.Sort, s.Language)
	return out
}

// sortTasks orders tasks in place. Alphabetical orderings use locale-aware
// collation keyed by the UI language; creation-date ordering is newest
// first with insertion order breaking ties.
func sortTasks(tasks []model.Task, method model.SortMethod, lang string) {
	switch method {
	case model.SortAlphabetical:
		c := collate.New(language.Make(lang))
		sort.SliceStable(tasks, func(i, j int) bool {
			return c.CompareString(tasks[i].Title, tasks[j].Title) < 0
		})
	case model.SortReverseAlphabetical:
		c := collate.New(language.Make(lang))
		sort.SliceStable(tasks, func(i, j int) bool {
			return c.CompareString(tasks[i].Title, tasks[j].Title) > 0
		})
	case model.SortCreationDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
}

// ActiveCount is the number of incomplete tasks in the current project,
// independent of the filter mode.
func ActiveCount(s store.State) int {
	n := 0
	for _, t := range s.Tasks {
		if t.ProjectID == s.CurrentProjectID && !t.Completed {
			n++
		}
	}
	return n
}

// HasCompleted reports whether the current project has any completed task.
// The presentation layer uses it to decide whether to offer clearing.
func HasCompleted(s store.State) bool {
	for _, t := range s.Tasks {
		if t.ProjectID == s.CurrentProjectID && t.Completed {
			return true
		}
	}
	return false
}

// ProjectName resolves a project id to its display name. Unknown ids
// resolve to the empty string.
func ProjectName(s store.State, id int64) string {
	for _, p := range s.Projects {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}
