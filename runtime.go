package crystalrun

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/hpckit/crystalrun/model/job"
	"github.com/hpckit/crystalrun/runtime/invocation"
)

// Runtime exposes the run/explain operations over a configured orchestrator.
type Runtime struct {
	config       *Config
	orchestrator *invocation.Orchestrator
}

// RunJob runs the job described by the input path (with or without the .d12
// suffix) synchronously. The outcome carries the child's exact exit code and
// any diagnoses; the error return is reserved for pre-execution failures.
func (r *Runtime) RunJob(ctx context.Context, input string, ranks int) (*job.Outcome, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	jobName, sourceDir := splitInput(input)
	return r.orchestrator.RunJob(ctx, jobName, sourceDir, normalizeRanks(ranks))
}

// StartJob launches the job on its own goroutine and returns a Wait future.
func (r *Runtime) StartJob(ctx context.Context, input string, ranks int) (invocation.Wait, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	jobName, sourceDir := splitInput(input)
	return r.orchestrator.StartJob(ctx, jobName, sourceDir, normalizeRanks(ranks)), nil
}

// Explain renders what RunJob would do, without creating scratch or
// executing anything.
func (r *Runtime) Explain(ctx context.Context, input string, ranks int) (string, error) {
	if err := r.config.Validate(); err != nil {
		return "", err
	}
	jobName, _ := splitInput(input)
	return r.orchestrator.Explain(ctx, jobName, normalizeRanks(ranks))
}

// ScratchLocation returns the scratch directory a run of the input would use.
func (r *Runtime) ScratchLocation(input string) string {
	jobName, _ := splitInput(input)
	return r.orchestrator.ScratchLocation(jobName)
}

// normalizeRanks maps the optional rank argument: zero means unspecified and
// defaults to serial. Negative values flow through so the planner rejects
// them.
func normalizeRanks(ranks int) int {
	if ranks == 0 {
		return 1
	}
	return ranks
}

func splitInput(input string) (jobName, sourceDir string) {
	sourceDir = filepath.Dir(input)
	jobName = strings.TrimSuffix(filepath.Base(input), ".d12")
	return jobName, sourceDir
}
