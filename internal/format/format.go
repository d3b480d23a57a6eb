// Package format provides display formatting helpers for task output.
package format

import (
	"fmt"
	"time"

	"tdl/internal/model"
)

// Timestamp renders a task creation time for list output.
func Timestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// Checkbox renders the completion marker for a task.
func Checkbox(t model.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

// TasksLeft renders the active-count footer, e.g. "3 tasks left in this project".
func TasksLeft(n int, suffix string) string {
	return fmt.Sprintf("%d %s", n, suffix)
}
