package build

import (
	"time"

	"github.com/sofmeright/hlbuild/src/output"
)

// Stage is a point in a configuration's build lifecycle.
type Stage string

const (
	StagePending         Stage = "pending"
	StageCleaned         Stage = "cleaned"
	StageConfigured      Stage = "configured"
	StageCompiled        Stage = "compiled"
	StageArtifactLocated Stage = "artifact-located"
	StageVerified        Stage = "verified"
	StageFailed          Stage = "failed"
)

// FailureKind classifies why a configuration failed.
type FailureKind string

const (
	FailureNone             FailureKind = ""
	FailureLaunch           FailureKind = "launch"
	FailureStep             FailureKind = "step"
	FailureArtifactNotFound FailureKind = "artifact-not-found"
)

// Outcome is the result of building one configuration.
type Outcome struct {
	Configuration Configuration `json:"configuration"`
	Success       bool          `json:"success"`
	ArtifactPath  string        `json:"artifact_path,omitempty"`
	ArtifactSize  int64         `json:"artifact_size,omitempty"`
	Diagnostic    string        `json:"diagnostic,omitempty"`

	// Stage is StageVerified on success and StageFailed otherwise.
	// Reached is the last stage completed; FailedStep names the step
	// that failed after it.
	Stage      Stage         `json:"stage"`
	Reached    Stage         `json:"reached"`
	FailedStep string        `json:"failed_step,omitempty"`
	Failure    FailureKind   `json:"failure,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

func (o Outcome) Label() string { return o.Configuration.Name }
func (o Outcome) OK() bool      { return o.Success }

// JUnitCase maps the outcome to one JUnit test case.
func (o Outcome) JUnitCase() output.JUnitCase {
	return output.JUnitCase{
		Name:     o.Configuration.Name,
		Passed:   o.Success,
		Kind:     string(o.Failure),
		Message:  o.Diagnostic,
		Duration: o.Duration,
	}
}
