package invocation

import (
	"time"

	"github.com/hpckit/crystalrun/internal/clock"
	"github.com/hpckit/crystalrun/internal/idgen"
)

// Phase constants; one invocation advances strictly forward. Failed is
// reachable only before execution starts: a nonzero child exit is a normal
// outcome and still flows through analysis and cleanup.
const (
	PhasePlanning       = "planning"
	PhaseScratchCreated = "scratchCreated"
	PhaseStaged         = "staged"
	PhaseExecuted       = "executed"
	PhaseAnalyzed       = "analyzed"
	PhaseCleanedUp      = "cleanedUp"
	PhaseFailed         = "failed"
)

// Invocation represents one run of the external binary.
type Invocation struct {
	RunID      string     `json:"runId"`
	JobName    string     `json:"jobName"`
	Ranks      int        `json:"ranks"`
	Phase      string     `json:"phase"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// newInvocation allocates an invocation record in the planning phase.
func newInvocation(jobName string, ranks int) *Invocation {
	now := clock.Now()
	return &Invocation{
		RunID:     idgen.New(),
		JobName:   jobName,
		Ranks:     ranks,
		Phase:     PhasePlanning,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (i *Invocation) advance(phase string) {
	i.Phase = phase
	i.UpdatedAt = clock.Now()
	if phase == PhaseCleanedUp {
		finished := i.UpdatedAt
		i.FinishedAt = &finished
	}
}
