package invocation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hpckit/crystalrun/model/job"
	"github.com/hpckit/crystalrun/service/runner"
	"github.com/hpckit/crystalrun/service/scratch"
)

// Render produces a plain-text description of what a run would do: the
// resolved plan, the child environment overlay, the would-be scratch path
// and the full command line. It is pure: nothing is created or executed.
func Render(plan *job.Plan, jobName string, settings Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "job:        %v\n", jobName)
	fmt.Fprintf(&b, "mode:       %v", plan.Mode)
	if plan.Degraded {
		b.WriteString(" (degraded: parallel binary unavailable)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "executable: %v\n", plan.Executable)
	if plan.IsHybrid() {
		fmt.Fprintf(&b, "mpi ranks:  %d\n", plan.MPIRanks)
	}
	fmt.Fprintf(&b, "threads:    %d per rank (%d cores detected)\n", plan.ThreadsPerRank, plan.TotalCores)

	keys := make([]string, 0, len(plan.Env))
	for k := range plan.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("environment overlay:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  %v=%v\n", k, plan.Env[k])
	}

	fmt.Fprintf(&b, "scratch:    %v\n", scratch.Location(settings.ScratchBase, jobName))
	launcher := runner.ResolveLauncher(settings.MPIRoot, settings.Launcher)
	fmt.Fprintf(&b, "command:    %v < INPUT > OUTPUT 2>&1\n", runner.CommandLine(plan, launcher))
	return b.String()
}
