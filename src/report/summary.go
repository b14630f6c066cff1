// Package report aggregates per-item results of a run into a Summary and
// writes it out as JSON, JUnit XML or an SVG badge.
package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/sofmeright/hlbuild/src/gitver"
	"github.com/sofmeright/hlbuild/src/output"
	"github.com/sofmeright/hlbuild/src/platform"
)

// Run kinds.
const (
	KindBuild = "build"
	KindTest  = "tests"
)

// Entry is one constituent result of a run: a build outcome or a test
// suite result.
type Entry interface {
	Label() string
	OK() bool
	JUnitCase() output.JUnitCase
}

// Summary is the aggregated result of one run.
type Summary[E Entry] struct {
	RunID     string        `json:"run_id"`
	Kind      string        `json:"kind"`
	Platform  platform.ID   `json:"platform"`
	Git       *gitver.Info  `json:"git,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	Entries   []E           `json:"entries"`
	Attempted int           `json:"attempted"`
	Succeeded int           `json:"succeeded"`
	Success   bool          `json:"success"`
}

// Start begins an empty summary stamped with a fresh run id.
func Start[E Entry](kind string, p platform.ID) Summary[E] {
	return Summary[E]{
		RunID:     uuid.NewString(),
		Kind:      kind,
		Platform:  p,
		StartedAt: time.Now(),
		Entries:   []E{},
		Success:   true,
	}
}

// Add records one entry. Success stays true only while every entry is OK.
func (s *Summary[E]) Add(e E) {
	s.Entries = append(s.Entries, e)
	s.Attempted++
	if e.OK() {
		s.Succeeded++
	}
	s.Success = s.Succeeded == s.Attempted
}

// Finish stamps the elapsed time.
func (s *Summary[E]) Finish() {
	s.Elapsed = time.Since(s.StartedAt)
}

// Failed returns the entries that did not succeed, in run order.
func (s *Summary[E]) Failed() []E {
	var failed []E
	for _, e := range s.Entries {
		if !e.OK() {
			failed = append(failed, e)
		}
	}
	return failed
}
