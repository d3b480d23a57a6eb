package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tdl/internal/config"
	"tdl/internal/format"
	"tdl/internal/i18n"
	"tdl/internal/model"
	"tdl/internal/storage"
	"tdl/internal/store"
	"tdl/internal/tui"
	"tdl/internal/view"
)

// version is set via ldflags at build time, or read from module info
var version = "dev"

func init() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
	rootCmd.Version = version
}

var (
	flagForce      bool
	flagExportYAML bool
	flagExportOut  string
)

// openEngine opens the database, loads persisted state into a store, and
// wires the persistence adapter as a subscriber so every committed
// mutation is written back. Callers must Close the returned KV.
func openEngine() (*storage.KV, *store.Store, error) {
	path, err := config.DefaultDBPath()
	if err != nil {
		return nil, nil, err
	}
	kv, err := storage.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (try running 'tdl init' first)", err)
	}

	adapter := storage.NewAdapter(kv)
	loaded := adapter.LoadState()

	// First run: seed the language from config.toml before anything is
	// persisted. Once a language slice exists it always wins.
	if _, ok, _ := kv.Get(storage.KeyLanguage); !ok {
		dataDir, err := config.FindDataDir()
		if err == nil {
			if cfg, err := config.Load(dataDir); err == nil {
				loaded.Language = cfg.DefaultLanguage
			}
		}
	}

	st := store.New(loaded)
	st.Subscribe(func(s store.State) {
		if err := adapter.SaveState(s); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to persist state: %v\n", err)
		}
	})
	return kv, st, nil
}

var rootCmd = &cobra.Command{
	Use:   "tdl",
	Short: "Local task lists organized into projects",
	Long: `A client-side task manager: tasks grouped into named projects,
filtered and sorted views, state persisted locally across sessions.

Database: .tdl/tdl.db (found by searching upward from the current directory)

Quick start:
  tdl init
  tdl add "Buy milk"
  tdl list
  tdl done <id>
  tdl project add "Work"
  tdl ui

Use 'tdl [command] --help' for detailed help on any command.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the tdl database",
	Long:  "Creates the .tdl directory in the current directory and initializes the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.InitDataDir()
		if err != nil {
			return err
		}
		kv, err := storage.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		// Persist the first-run state so every later open round-trips it.
		if err := storage.NewAdapter(kv).SaveState(store.DefaultState()); err != nil {
			return err
		}
		fmt.Printf("Initialized tdl database at %s\n", path)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the current project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		task, err := st.AddTask(args[0])
		if errors.Is(err, store.ErrEmptyInput) {
			// Same silent no-op the store promises; nothing to report.
			return nil
		}
		if err != nil {
			return err
		}
		s := st.State()
		fmt.Printf("Added %d: %s (%s)\n", task.ID, task.Title, view.ProjectName(s, task.ProjectID))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in the current project",
	Long: `Shows the tasks of the current project through the saved filter and
sort settings, followed by the number of active tasks. The filter counts
nothing out of the active-task total; that total is always filter-independent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		s := st.State()
		fmt.Printf("%s  [%s / %s]\n", view.ProjectName(s, s.CurrentProjectID),
			i18n.T(s.Language, string(s.Filter)), i18n.T(s.Language, string(s.Sort)))
		for _, t := range view.Tasks(s) {
			fmt.Printf("%s %d  %s  %s %s\n", format.Checkbox(t), t.ID, t.Title,
				i18n.T(s.Language, i18n.MsgCreatedAt), format.Timestamp(t.CreatedAt))
		}
		fmt.Println(format.TasksLeft(view.ActiveCount(s), i18n.T(s.Language, i18n.MsgTasksLeft)))
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task's completed state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id: %s", args[0])
		}
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		st.ToggleTask(id)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete completed tasks",
	Long: `Deletes every completed task across ALL projects, not just the
current one. This mirrors the app tdl descends from; use --force to skip
the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		s := st.State()
		completed := 0
		for _, t := range s.Tasks {
			if t.Completed {
				completed++
			}
		}
		if completed == 0 {
			return nil
		}
		if !flagForce {
			fmt.Printf("Delete %d completed task(s) across all projects? [y/N] ", completed)
			var answer string
			_, _ = fmt.Scanln(&answer)
			if answer != "y" && answer != "Y" {
				return nil
			}
		}
		st.ClearCompleted()
		fmt.Printf("Deleted %d completed task(s)\n", completed)
		return nil
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project and make it current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		project, err := st.AddProject(args[0])
		if errors.Is(err, store.ErrDuplicateName) {
			s := st.State()
			return errors.New(i18n.T(s.Language, i18n.MsgDuplicateProjectError))
		}
		if errors.Is(err, store.ErrEmptyInput) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Added project %d: %s\n", project.ID, project.Name)
		return nil
	},
}

var projectRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a project and all its tasks",
	Long: `Deletes a project (the current one when no id is given) together
with every task in it. The last remaining project can never be deleted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		s := st.State()
		id := s.CurrentProjectID
		if len(args) == 1 {
			id, err = strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project id: %s", args[0])
			}
		}

		name := view.ProjectName(s, id)
		if name == "" {
			return nil
		}
		if !flagForce {
			fmt.Printf("%s %s [y/N] ", i18n.T(s.Language, i18n.MsgConfirmDeleteTitle), name)
			var answer string
			_, _ = fmt.Scanln(&answer)
			if answer != "y" && answer != "Y" {
				return nil
			}
		}

		if err := st.DeleteProject(id); errors.Is(err, store.ErrLastProject) {
			return fmt.Errorf("cannot delete the last remaining project")
		} else if err != nil {
			return err
		}
		fmt.Printf("Deleted project %s\n", name)
		return nil
	},
}

var projectUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Select the current project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project id: %s", args[0])
		}
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		if err := st.SetCurrentProject(id); errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("project not found: %d (use 'tdl project list' to see projects)", id)
		} else if err != nil {
			return err
		}
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		s := st.State()
		for _, p := range s.Projects {
			marker := " "
			if p.ID == s.CurrentProjectID {
				marker = "*"
			}
			fmt.Printf("%s %d  %s\n", marker, p.ID, p.Name)
		}
		return nil
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter <all|active|completed>",
	Short: "Set the task filter mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := model.FilterMode(args[0])
		if !mode.IsValid() {
			return fmt.Errorf("invalid filter: %s (valid: all, active, completed)", args[0])
		}
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()
		return st.SetFilter(mode)
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort <alphabetical|reverseAlphabetical|creationDate>",
	Short: "Set the task sort method",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		method := model.SortMethod(args[0])
		if !method.IsValid() {
			return fmt.Errorf("invalid sort method: %s (valid: alphabetical, reverseAlphabetical, creationDate)", args[0])
		}
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()
		return st.SetSort(method)
	},
}

var langCmd = &cobra.Command{
	Use:   "lang <code>",
	Short: "Set the UI language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		if !i18n.Supported(args[0]) {
			fmt.Fprintf(os.Stderr, "note: no translation table for %q, falling back to en strings\n", args[0])
		}
		return st.SetLanguage(args[0])
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultDBPath()
		if err != nil {
			return err
		}
		kv, err := storage.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		keep := storage.DefaultMaxBackups
		if dataDir, err := config.FindDataDir(); err == nil {
			if cfg, err := config.Load(dataDir); err == nil {
				keep = cfg.MaxBackups
			}
		}
		backupFile, err := kv.Backup(keep)
		if err != nil {
			return err
		}
		fmt.Printf("Created backup %s\n", backupFile)
		return nil
	},
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		program := tea.NewProgram(tui.New(st), tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}

func main() {
	clearCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "skip confirmation prompt")
	projectRmCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "skip confirmation prompt")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectRmCmd)
	projectCmd.AddCommand(projectUseCmd)
	projectCmd.AddCommand(projectListCmd)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(uiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
