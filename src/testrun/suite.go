package testrun

import (
	"fmt"
	"time"

	"github.com/sofmeright/hlbuild/src/output"
)

// Mode selects which tests a run executes.
type Mode string

const (
	ModeBoth        Mode = "both"
	ModeUnit        Mode = "unit"
	ModeIntegration Mode = "integration"
	ModeNative      Mode = "native" // delegate to the test aggregator
)

// Failure kinds reported in JUnit output.
const (
	FailureNotFound     = "not-found"
	FailureLaunchFailed = "launch-failed"
	FailureFailed       = "failed"
)

// Suite kinds.
const (
	KindUnit        = "unit"
	KindIntegration = "integration"
	KindNative      = "native"
)

// SuiteResult is the result of one test executable, or of the aggregator
// in native mode.
type SuiteResult struct {
	Name       string        `json:"name"`
	Kind       string        `json:"kind"`
	Found      bool          `json:"found"`
	Executed   bool          `json:"executed"`
	Passed     bool          `json:"passed"`
	Path       string        `json:"path,omitempty"`
	Output     string        `json:"output,omitempty"`
	Diagnostic string        `json:"diagnostic,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

func (s SuiteResult) Label() string { return s.Name }
func (s SuiteResult) OK() bool      { return s.Passed }

// JUnitCase maps the suite to one JUnit test case.
func (s SuiteResult) JUnitCase() output.JUnitCase {
	return output.JUnitCase{
		Name:     fmt.Sprintf("%s (%s)", s.Name, s.Kind),
		Passed:   s.Passed,
		Kind:     s.failure(),
		Message:  s.Diagnostic,
		Output:   s.Output,
		Duration: s.Duration,
	}
}

// failure classifies a suite that did not pass. A suite whose file exists
// but could not be started is not reported as missing.
func (s SuiteResult) failure() string {
	switch {
	case s.Passed:
		return ""
	case !s.Found:
		return FailureNotFound
	case !s.Executed:
		return FailureLaunchFailed
	default:
		return FailureFailed
	}
}

func (s SuiteResult) detail() string {
	switch s.failure() {
	case "":
		return output.FormatElapsed(s.Duration)
	case FailureNotFound:
		return "not found"
	case FailureLaunchFailed:
		return "could not start"
	default:
		return "failed"
	}
}
