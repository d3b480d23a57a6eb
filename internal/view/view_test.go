package view

import (
	"testing"
	"time"

	"tdl/internal/model"
	"tdl/internal/store"
)

func stateWithTasks(tasks ...model.Task) store.State {
	return store.State{
		Tasks:            tasks,
		Projects:         []model.Project{{ID: 1, Name: "Default Project"}, {ID: 2, Name: "Work"}},
		CurrentProjectID: 1,
		Filter:           model.FilterAll,
		Sort:             model.SortCreationDate,
		Language:         "en",
	}
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestTasksFiltersByProject(t *testing.T) {
	s := stateWithTasks(
		model.Task{ID: 1, Title: "mine", ProjectID: 1},
		model.Task{ID: 2, Title: "other", ProjectID: 2},
	)

	got := Tasks(s)
	if len(got) != 1 || got[0].Title != "mine" {
		t.Errorf("expected only current-project tasks, got %v", titles(got))
	}
}

func TestTasksFilterModes(t *testing.T) {
	base := stateWithTasks(
		model.Task{ID: 1, Title: "active", ProjectID: 1},
		model.Task{ID: 2, Title: "done", Completed: true, ProjectID: 1},
	)

	tests := []struct {
		filter model.FilterMode
		want   []string
	}{
		{model.FilterAll, []string{"active", "done"}},
		{model.FilterActive, []string{"active"}},
		{model.FilterCompleted, []string{"done"}},
	}
	for _, tt := range tests {
		s := base
		s.Filter = tt.filter
		got := titles(Tasks(s))
		if len(got) != len(tt.want) {
			t.Errorf("filter %s: expected %v, got %v", tt.filter, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("filter %s: expected %v, got %v", tt.filter, tt.want, got)
				break
			}
		}
	}
}

func TestTasksSortAlphabetical(t *testing.T) {
	now := time.Now()
	s := stateWithTasks(
		model.Task{ID: 1, Title: "B", CreatedAt: now, ProjectID: 1},
		model.Task{ID: 2, Title: "A", CreatedAt: now.Add(time.Second), ProjectID: 1},
		model.Task{ID: 3, Title: "C", CreatedAt: now.Add(2 * time.Second), ProjectID: 1},
	)

	s.Sort = model.SortAlphabetical
	if got := titles(Tasks(s)); got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Errorf("alphabetical: expected [A B C], got %v", got)
	}

	s.Sort = model.SortReverseAlphabetical
	if got := titles(Tasks(s)); got[0] != "C" || got[1] != "B" || got[2] != "A" {
		t.Errorf("reverseAlphabetical: expected [C B A], got %v", got)
	}

	// Newest first.
	s.Sort = model.SortCreationDate
	if got := titles(Tasks(s)); got[0] != "C" || got[1] != "B" || got[2] != "A" {
		t.Errorf("creationDate: expected [C B A], got %v", got)
	}
}

func TestTasksSortCreationDateStableTies(t *testing.T) {
	now := time.Now()
	s := stateWithTasks(
		model.Task{ID: 1, Title: "first", CreatedAt: now, ProjectID: 1},
		model.Task{ID: 2, Title: "second", CreatedAt: now, ProjectID: 1},
		model.Task{ID: 3, Title: "third", CreatedAt: now, ProjectID: 1},
	)

	// Equal timestamps keep insertion order.
	got := titles(Tasks(s))
	if got[0] != "first" || got[1] != "second" || got[2] != "third" {
		t.Errorf("expected insertion order on ties, got %v", got)
	}
}

func TestTasksSortLocaleAware(t *testing.T) {
	s := stateWithTasks(
		model.Task{ID: 1, Title: "Zanahoria", ProjectID: 1},
		model.Task{ID: 2, Title: "árbol", ProjectID: 1},
		model.Task{ID: 3, Title: "banana", ProjectID: 1},
	)
	s.Sort = model.SortAlphabetical
	s.Language = "es"

	// Collation places "árbol" before "banana"; a plain byte compare
	// would sort the accented title last.
	got := titles(Tasks(s))
	if got[0] != "árbol" || got[1] != "banana" || got[2] != "Zanahoria" {
		t.Errorf("expected [árbol banana Zanahoria], got %v", got)
	}
}

func TestTasksDoesNotMutateSnapshot(t *testing.T) {
	now := time.Now()
	s := stateWithTasks(
		model.Task{ID: 1, Title: "B", CreatedAt: now, ProjectID: 1},
		model.Task{ID: 2, Title: "A", CreatedAt: now.Add(time.Second), ProjectID: 1},
	)
	s.Sort = model.SortAlphabetical

	_ = Tasks(s)

	if s.Tasks[0].Title != "B" || s.Tasks[1].Title != "A" {
		t.Error("projection must not reorder the snapshot's task slice")
	}
}

func TestActiveCountIgnoresFilter(t *testing.T) {
	s := stateWithTasks(
		model.Task{ID: 1, Title: "a1", ProjectID: 1},
		model.Task{ID: 2, Title: "a2", ProjectID: 1},
		model.Task{ID: 3, Title: "done", Completed: true, ProjectID: 1},
		model.Task{ID: 4, Title: "elsewhere", ProjectID: 2},
	)

	// Counting is filter-independent.
	for _, f := range []model.FilterMode{model.FilterAll, model.FilterActive, model.FilterCompleted} {
		s.Filter = f
		if got := ActiveCount(s); got != 2 {
			t.Errorf("filter %s: expected active count 2, got %d", f, got)
		}
	}
}

func TestHasCompleted(t *testing.T) {
	s := stateWithTasks(
		model.Task{ID: 1, Title: "active", ProjectID: 1},
		model.Task{ID: 2, Title: "done elsewhere", Completed: true, ProjectID: 2},
	)
	if HasCompleted(s) {
		t.Error("completed task in another project must not count")
	}

	s.Tasks = append(s.Tasks, model.Task{ID: 3, Title: "done here", Completed: true, ProjectID: 1})
	if !HasCompleted(s) {
		t.Error("expected completed task in current project to be seen")
	}
}

func TestProjectName(t *testing.T) {
	s := stateWithTasks()
	if got := ProjectName(s, 2); got != "Work" {
		t.Errorf("expected Work, got %q", got)
	}
	if got := ProjectName(s, 99); got != "" {
		t.Errorf("expected empty for unknown id, got %q", got)
	}
}
