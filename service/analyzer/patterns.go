package analyzer

import (
	"strings"

	"github.com/hpckit/crystalrun/model/job"
)

// signature is one known failure fingerprint. The table is evaluated in
// order in a single linear pass over the output; adding a diagnosis means
// adding an entry here, never touching the scan logic.
type signature struct {
	substr   string
	fold     bool // case-insensitive match
	category job.Category
	message  string
	remedy   string
}

var signatures = []signature{
	{
		substr:   "DIVERGENCE",
		category: job.CategorySCFDivergence,
		message:  "calculation is unstable",
		remedy:   "check the geometry for overlapping atoms, supply a better initial guess, or increase the mixing damping (FMIXING)",
	},
	{
		substr:   "insufficient memory",
		fold:     true,
		category: job.CategoryMemoryError,
		message:  "Memory Error Detected",
		remedy:   "increase the MPI rank count to reduce the per-rank memory footprint",
	},
}

func (s *signature) matches(line string) bool {
	if s.fold {
		return strings.Contains(strings.ToLower(line), strings.ToLower(s.substr))
	}
	return strings.Contains(line, s.substr)
}
