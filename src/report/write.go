package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sofmeright/hlbuild/src/badge"
	"github.com/sofmeright/hlbuild/src/output"
)

// WriteJSON writes the summary as indented JSON to path.
func WriteJSON[E Entry](path string, s Summary[E]) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// WriteJUnit writes one JUnit suite named after the run kind into dir and
// returns the file path.
func WriteJUnit[E Entry](dir string, s Summary[E]) (string, error) {
	cases := make([]output.JUnitCase, 0, len(s.Entries))
	for _, e := range s.Entries {
		cases = append(cases, e.JUnitCase())
	}
	return output.WriteJUnit(dir, s.Kind, cases, s.Elapsed)
}

// WriteBadge renders a pass-count badge for the summary into path.
func WriteBadge[E Entry](path string, s Summary[E]) error {
	metrics, err := badge.GoRegular(badge.DefaultSize)
	if err != nil {
		return err
	}
	return badge.New(metrics).WriteFile(path, badge.ForCounts(s.Kind, s.Succeeded, s.Attempted))
}

// Outputs selects the optional report files of a run.
type Outputs struct {
	JSON     string // file path
	JUnitDir string
	Badge    string // file path
}

// Emit writes every output requested in o and reports each written file
// on the console. It stops at the first error.
func Emit[E Entry](o Outputs, console *output.Console, s Summary[E]) error {
	if o.JSON != "" {
		if err := WriteJSON(o.JSON, s); err != nil {
			return err
		}
		console.Gray("Report written to %s", o.JSON)
	}
	if o.JUnitDir != "" {
		path, err := WriteJUnit(o.JUnitDir, s)
		if err != nil {
			return err
		}
		console.Gray("JUnit results written to %s", path)
	}
	if o.Badge != "" {
		if err := WriteBadge(o.Badge, s); err != nil {
			return err
		}
		console.Gray("Badge written to %s", o.Badge)
	}
	return nil
}
