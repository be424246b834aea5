// Package scratch manages ephemeral working directories. Creation embeds the
// owning process id in the directory name so concurrent invocations sharing a
// job name never collide; cleanup is idempotent and warn-only. Release is
// guaranteed on every orchestrated exit path, but a forcefully killed process
// can still leave a cry_* directory behind; periodic sweeping of the scratch
// base is the documented mitigation, not a contract of this package.
package scratch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"

	"github.com/hpckit/crystalrun/model/job"
	"github.com/hpckit/crystalrun/model/types"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Service creates and destroys scratch directories under a shared base.
type Service struct {
	fs afs.Service
}

// New creates a new scratch service
func New() *Service {
	return &Service{fs: afs.New()}
}

// CreateInput names the directory to allocate.
type CreateInput struct {
	JobName string `json:"jobName" description:"job name embedded in the directory name"`
	BaseDir string `json:"baseDir" description:"shared scratch base directory"`
}

// CreateOutput carries the allocated handle.
type CreateOutput struct {
	Handle *job.ScratchHandle `json:"handle"`
}

// CleanupInput releases a previously created handle.
type CleanupInput struct {
	Handle *job.ScratchHandle `json:"handle"`
}

// CleanupOutput reports whether anything was removed.
type CleanupOutput struct {
	Removed bool `json:"removed"`
}

// Location returns the directory a handle for jobName would use, without
// creating anything.
func Location(baseDir, jobName string) string {
	return path.Join(baseDir, fmt.Sprintf("cry_%v_%d", jobName, os.Getpid()))
}

// Create allocates the scratch directory, creating missing parents. Parent
// creation tolerates a race between two simultaneously starting jobs.
func (s *Service) Create(ctx context.Context, input *CreateInput, output *CreateOutput) error {
	location := Location(input.BaseDir, input.JobName)
	if ok, _ := s.fs.Exists(ctx, location); !ok {
		if err := s.fs.Create(ctx, location, file.DefaultDirOsMode, true); err != nil {
			// A concurrent invocation may have created the parents first.
			if ok, _ := s.fs.Exists(ctx, location); !ok {
				return types.NewResourceError(location, err)
			}
		}
	}
	output.Handle = &job.ScratchHandle{
		Path:     location,
		JobName:  input.JobName,
		OwnerPID: os.Getpid(),
	}
	return nil
}

// Cleanup removes the scratch directory recursively if it still exists. A
// second call, or a call on an already cleared handle, is a no-op. Removal
// errors are logged as warnings only and never fail an otherwise successful
// job.
func (s *Service) Cleanup(ctx context.Context, input *CleanupInput, output *CleanupOutput) error {
	if input.Handle == nil || input.Handle.Path == "" {
		return nil
	}
	ok, err := s.fs.Exists(ctx, input.Handle.Path)
	if err != nil || !ok {
		return nil
	}
	if err := s.fs.Delete(ctx, input.Handle.Path); err != nil {
		log.Printf("[WARN] failed to remove scratch %v: %v", input.Handle.Path, err)
		return nil
	}
	output.Removed = true
	return nil
}
