package planner

import (
	"strconv"

	"github.com/hpckit/crystalrun/model/job"
)

// ompStackSize prevents stack overflow from deep recursive integral
// evaluation inside the binary.
const ompStackSize = "256M"

// environmentFor computes the child-process environment overlay for a plan.
// Hybrid runs additionally pin OpenMP threads within their MPI rank's domain
// to preserve cache locality.
func environmentFor(plan *job.Plan) map[string]string {
	env := map[string]string{
		"OMP_NUM_THREADS": strconv.Itoa(plan.ThreadsPerRank),
		"OMP_STACKSIZE":   ompStackSize,
	}
	if plan.IsHybrid() {
		env["I_MPI_PIN_DOMAIN"] = "omp"
		env["KMP_AFFINITY"] = "compact,1,0,granularity=fine"
	}
	return env
}
