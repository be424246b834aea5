package job

import "time"

// ExecutionResult captures the observable outcome of one child process. The
// exit status is carried as a value, never as an error: a nonzero code is
// expected, recoverable output of a scientific run, not a crash of the
// orchestrator.
type ExecutionResult struct {
	ExitCode     int           `json:"exitCode"`
	OutputPath   string        `json:"outputPath"`
	WallDuration time.Duration `json:"wallDuration"`
	OutputTail   string        `json:"outputTail,omitempty"`
}

// Succeeded returns true for a zero exit status.
func (r *ExecutionResult) Succeeded() bool {
	return r != nil && r.ExitCode == 0
}

// Outcome is what an invocation hands back to its caller.
type Outcome struct {
	RunID     string           `json:"runId"`
	JobName   string           `json:"jobName"`
	Plan      *Plan            `json:"plan"`
	Result    *ExecutionResult `json:"result,omitempty"`
	Staged    *StagedFileSet   `json:"staged,omitempty"`
	Diagnoses []*Diagnosis     `json:"diagnoses,omitempty"`
}

// ExitCode returns the child's exact exit status, or zero when the run
// completed without launching the binary (explain-only paths).
func (o *Outcome) ExitCode() int {
	if o == nil || o.Result == nil {
		return 0
	}
	return o.Result.ExitCode
}
