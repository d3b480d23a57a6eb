package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tdl/internal/model"
	"tdl/internal/store"
	"tdl/internal/view"
)

// exportDoc is the full exported state: every project with its tasks plus
// the saved preferences, so an export can be inspected or re-imported by
// other tooling without knowing the storage layout.
type exportDoc struct {
	Projects    []exportProject `json:"projects" yaml:"projects"`
	Filter      string          `json:"filterMode" yaml:"filterMode"`
	Sort        string          `json:"sortMethod" yaml:"sortMethod"`
	Language    string          `json:"language" yaml:"language"`
	CurrentID   int64           `json:"currentProjectId" yaml:"currentProjectId"`
	ActiveCount int             `json:"activeTaskCount" yaml:"activeTaskCount"`
}

type exportProject struct {
	ID    int64        `json:"id" yaml:"id"`
	Name  string       `json:"name" yaml:"name"`
	Tasks []model.Task `json:"tasks" yaml:"tasks"`
}

// buildExportDoc groups tasks under their projects and carries the saved
// preferences along.
func buildExportDoc(s store.State) exportDoc {
	doc := exportDoc{
		Filter:      string(s.Filter),
		Sort:        string(s.Sort),
		Language:    s.Language,
		CurrentID:   s.CurrentProjectID,
		ActiveCount: view.ActiveCount(s),
	}
	for _, p := range s.Projects {
		ep := exportProject{ID: p.ID, Name: p.Name, Tasks: []model.Task{}}
		for _, t := range s.Tasks {
			if t.ProjectID == p.ID {
				ep.Tasks = append(ep.Tasks, t)
			}
		}
		doc.Projects = append(doc.Projects, ep)
	}
	return doc
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all projects and tasks to a single file",
	Long: `Export the full state to stdout or a file.

By default, outputs JSON. Use --yaml for YAML output.

Examples:
  tdl export                 # JSON to stdout
  tdl export -o tasks.json   # JSON to file
  tdl export --yaml          # YAML to stdout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, st, err := openEngine()
		if err != nil {
			return err
		}
		defer func() { _ = kv.Close() }()

		doc := buildExportDoc(st.State())

		var out io.Writer = os.Stdout
		if flagExportOut != "" {
			f, err := os.Create(flagExportOut)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		if flagExportYAML {
			enc := yaml.NewEncoder(out)
			defer func() { _ = enc.Close() }()
			return enc.Encode(doc)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().BoolVar(&flagExportYAML, "yaml", false, "output YAML instead of JSON")
}
