package job

// ScratchHandle identifies one ephemeral working directory. The invoking
// process id is embedded in the path so that concurrent runs sharing a job
// name never collide. A handle is owned by exactly one invocation and is
// released exactly once on every exit path.
type ScratchHandle struct {
	Path     string `json:"path"`
	JobName  string `json:"jobName"`
	OwnerPID int    `json:"ownerPid"`
}
