package job

// Mode selects how the external binary is launched.
type Mode string

const (
	// ModeSerial runs the OpenMP-only binary in a single process.
	ModeSerial = Mode("serial")
	// ModeHybrid runs the MPI binary under a launcher with OpenMP threads per rank.
	ModeHybrid = Mode("hybrid")
)

// Plan describes one resolved invocation. A plan is immutable once built;
// MPIRanks is populated only for hybrid mode.
type Plan struct {
	Mode           Mode              `json:"mode" yaml:"mode"`
	Executable     string            `json:"executable" yaml:"executable"`
	MPIRanks       int               `json:"mpiRanks,omitempty" yaml:"mpiRanks,omitempty"`
	ThreadsPerRank int               `json:"threadsPerRank" yaml:"threadsPerRank"`
	TotalCores     int               `json:"totalCores" yaml:"totalCores"`
	Degraded       bool              `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Env            map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// IsHybrid returns true when the plan launches MPI ranks.
func (p *Plan) IsHybrid() bool {
	return p != nil && p.Mode == ModeHybrid
}
