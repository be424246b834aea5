package runner

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/hpckit/crystalrun/internal/clock"
	"github.com/hpckit/crystalrun/model/job"
	"github.com/viant/afs"
	"github.com/viant/gosh"
	grunner "github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
)

// Service launches the planned command inside the scratch directory. The
// child inherits this process environment with the plan's overlay applied on
// top; the overlay never leaks into the host process. The child's exit
// status is captured into the result as a value: a nonzero code is expected
// output of a scientific run, so it is never returned as an error.
type Service struct {
	fs afs.Service
}

// New creates a new runner service
func New() *Service {
	return &Service{fs: afs.New()}
}

// RunInput describes one execution request.
type RunInput struct {
	Plan       *job.Plan `json:"plan" required:"true"`
	ScratchDir string    `json:"scratchDir" required:"true"`
	OutputName string    `json:"outputName,omitempty" description:"in-scratch output file name"`
	MPIRoot    string    `json:"mpiRoot,omitempty" description:"vendor MPI root; its bin/ launcher takes precedence"`
	Launcher   string    `json:"launcher,omitempty" description:"PATH-resolved launcher name"`
	TimeoutMs  int       `json:"timeoutMs,omitempty" description:"optional wall-clock limit, zero means none"`
}

// RunOutput carries the captured result.
type RunOutput struct {
	Result *job.ExecutionResult `json:"result"`
}

const (
	inputName         = "INPUT"
	defaultOutputName = "OUTPUT"
	defaultLauncher   = "mpirun"
	tailLines         = 20
)

func (i *RunInput) Init() {
	if i.OutputName == "" {
		i.OutputName = defaultOutputName
	}
	if i.Launcher == "" {
		i.Launcher = defaultLauncher
	}
}

// ResolveLauncher picks the MPI launcher: the vendor root's bin path when an
// MPI root is configured, otherwise the PATH-resolved launcher name.
func ResolveLauncher(mpiRoot, launcher string) string {
	if launcher == "" {
		launcher = defaultLauncher
	}
	if mpiRoot != "" {
		return path.Join(mpiRoot, "bin", launcher)
	}
	return launcher
}

// CommandLine renders the command a plan would execute, without redirection.
func CommandLine(plan *job.Plan, launcher string) string {
	if plan.IsHybrid() {
		return fmt.Sprintf("%v -np %d %v", quote(launcher), plan.MPIRanks, quote(plan.Executable))
	}
	return quote(plan.Executable)
}

// quote returns a shell-safe form of value; plain paths pass through
// unchanged so rendered command lines stay readable.
func quote(value string) string {
	if strings.ContainsAny(value, " \t\"'`$&;()<>|*?[]#~") {
		return strconv.Quote(value)
	}
	return value
}

// Run executes the plan synchronously and captures the exit status.
func (s *Service) Run(ctx context.Context, input *RunInput, output *RunOutput) error {
	input.Init()
	session, err := gosh.New(ctx, local.New(grunner.WithEnvironment(input.Plan.Env)))
	if err != nil {
		return fmt.Errorf("failed to open execution session: %w", err)
	}
	defer session.Close()

	if _, status, err := session.Run(ctx, fmt.Sprintf("cd %v", quote(input.ScratchDir))); err != nil || status != 0 {
		return fmt.Errorf("failed to enter scratch %v (status %d): %w", input.ScratchDir, status, err)
	}

	launcher := ResolveLauncher(input.MPIRoot, input.Launcher)
	command := fmt.Sprintf("%v < %v > %v 2>&1", CommandLine(input.Plan, launcher), inputName, quote(input.OutputName))

	var options []grunner.Option
	if input.TimeoutMs > 0 {
		options = append(options, grunner.WithTimeout(input.TimeoutMs))
	}

	started := clock.Now()
	// The status is always captured into a local value first: a failing run
	// must still flow through stage-back, analysis and cleanup.
	_, status, runErr := session.Run(ctx, command, options...)
	elapsed := clock.Since(started)
	if runErr != nil && status == 0 {
		return fmt.Errorf("failed to launch %v: %w", input.Plan.Executable, runErr)
	}

	result := &job.ExecutionResult{
		ExitCode:     status,
		OutputPath:   path.Join(input.ScratchDir, input.OutputName),
		WallDuration: elapsed,
	}
	if result.ExitCode != 0 {
		result.OutputTail = s.tail(ctx, result.OutputPath, tailLines)
	}
	output.Result = result
	return nil
}

// tail returns the last count lines of the location, best effort.
func (s *Service) tail(ctx context.Context, location string, count int) string {
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return ""
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > count {
		lines = lines[len(lines)-count:]
	}
	return strings.Join(lines, "\n")
}
