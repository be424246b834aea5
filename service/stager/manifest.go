package stager

// rule maps one file outside scratch to its fixed in-scratch name. The
// binary only reads and writes fixed names, so staging is a declarative
// rename table rather than ad-hoc copy logic.
type rule struct {
	// suffix appended to the job name outside scratch, e.g. ".d12"
	suffix string
	// scratchName is the fixed name the binary expects, e.g. "INPUT"
	scratchName string
	required    bool
}

// stageIn lists the canonical input plus the optional auxiliary files copied
// into scratch before execution.
var stageIn = []rule{
	{suffix: ".d12", scratchName: "INPUT", required: true},
	{suffix: ".gui", scratchName: "fort.34"}, // external geometry
	{suffix: ".f9", scratchName: "fort.20"},  // restart wavefunction guess
	{suffix: ".optinfo", scratchName: "OPTINFO.DAT"},
	{suffix: ".freqinfo", scratchName: "FREQINFO.DAT"},
}

// stageOut lists the canonical output plus the optional result artifacts
// copied back after execution, whether it succeeded or not.
var stageOut = []rule{
	{suffix: ".out", scratchName: "OUTPUT"},
	{suffix: ".f9", scratchName: "fort.9"},   // converged wavefunction
	{suffix: ".f98", scratchName: "fort.98"}, // formatted wavefunction
	{suffix: ".gui", scratchName: "fort.34"}, // optimised geometry
	{suffix: ".optinfo", scratchName: "OPTINFO.DAT"},
}
