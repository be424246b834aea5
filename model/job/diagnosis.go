package job

// Category classifies a known failure signature found in run output.
type Category string

const (
	CategorySCFDivergence = Category("SCF_DIVERGENCE")
	CategoryMemoryError   = Category("MEMORY_ERROR")
)

// Diagnosis is one structured finding produced by scanning run output.
// Zero or more are produced per failed run; rendering is left to the caller.
type Diagnosis struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Remedy   string   `json:"remedy"`
}
