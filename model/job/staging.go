package job

// StagedFileSet records which files were placed into, or recovered from, a
// scratch directory. Keys are the fixed in-scratch names the binary expects,
// values the source or destination outside scratch. The set is transient and
// scoped to one invocation.
type StagedFileSet struct {
	In  map[string]string `json:"in,omitempty"`
	Out map[string]string `json:"out,omitempty"`
}

func NewStagedFileSet() *StagedFileSet {
	return &StagedFileSet{
		In:  make(map[string]string),
		Out: make(map[string]string),
	}
}
