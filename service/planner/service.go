package planner

import (
	"context"
	"log"
	"os"
	"path"

	"github.com/hpckit/crystalrun/model/job"
	"github.com/hpckit/crystalrun/model/types"
	"github.com/viant/afs"
)

// Service turns a requested rank count and the available binaries into an
// immutable execution plan. Planning is pure validation and arithmetic: the
// environment overlay is computed here but only applied by the runner as a
// child-process overlay, never to this process.
type Service struct {
	fs afs.Service
}

// New creates a new planner service
func New() *Service {
	return &Service{fs: afs.New()}
}

// PlanInput describes one plan request. Cores comes from hardware detection.
type PlanInput struct {
	Ranks    int    `json:"ranks" description:"requested MPI rank count; 1 selects serial execution"`
	Cores    int    `json:"cores" description:"detected core count"`
	BinDir   string `json:"binDir" description:"directory holding the fixed-name binaries"`
	Serial   string `json:"serial,omitempty" description:"serial binary name"`
	Parallel string `json:"parallel,omitempty" description:"parallel binary name"`
}

// PlanOutput carries the resolved plan.
type PlanOutput struct {
	Plan *job.Plan `json:"plan"`
}

func (i *PlanInput) Init() {
	if i.Serial == "" {
		i.Serial = "crystal"
	}
	if i.Parallel == "" {
		i.Parallel = "Pcrystal"
	}
	if i.Cores < 1 {
		i.Cores = 1
	}
}

// Plan validates the request and resolves mode, executable, thread fan-out
// and the child environment overlay.
func (s *Service) Plan(ctx context.Context, input *PlanInput, output *PlanOutput) error {
	input.Init()
	if input.Ranks < 1 {
		return types.NewConfigurationError("requested ranks must be positive, got %d", input.Ranks)
	}

	serialPath := path.Join(input.BinDir, input.Serial)
	parallelPath := path.Join(input.BinDir, input.Parallel)

	plan := &job.Plan{TotalCores: input.Cores}
	switch {
	case input.Ranks == 1:
		if !s.isExecutable(ctx, serialPath) {
			return types.NewConfigurationError("serial binary %v is missing or not executable", serialPath)
		}
		plan.Mode = job.ModeSerial
		plan.Executable = serialPath
		plan.ThreadsPerRank = input.Cores
	case s.isExecutable(ctx, parallelPath):
		plan.Mode = job.ModeHybrid
		plan.Executable = parallelPath
		plan.MPIRanks = input.Ranks
		plan.ThreadsPerRank = input.Cores / input.Ranks
		if plan.ThreadsPerRank < 1 { // clamp under oversubscription
			plan.ThreadsPerRank = 1
		}
	default:
		if !s.isExecutable(ctx, serialPath) {
			return types.NewConfigurationError("neither %v nor %v is usable", serialPath, parallelPath)
		}
		log.Printf("[WARN] parallel binary %v unavailable, degrading to serial with %d threads", parallelPath, input.Cores)
		plan.Mode = job.ModeSerial
		plan.Executable = serialPath
		plan.ThreadsPerRank = input.Cores
		plan.Degraded = true
	}
	plan.Env = environmentFor(plan)
	output.Plan = plan
	return nil
}

func (s *Service) isExecutable(ctx context.Context, location string) bool {
	object, err := s.fs.Object(ctx, location)
	if err != nil || object == nil || object.IsDir() {
		return false
	}
	return object.Mode()&0111 != 0 || object.Mode()&os.ModeSymlink != 0
}
