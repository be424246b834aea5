package stager

import (
	"context"
	"fmt"
	"path"

	"github.com/hpckit/crystalrun/model/job"
	"github.com/hpckit/crystalrun/model/types"
	"github.com/viant/afs"
)

// Service copies fixed-name files into and out of a scratch directory.
// Absence of an optional file is never an error; absence of the canonical
// input is fatal before execution starts.
type Service struct {
	fs afs.Service
}

// New creates a new stager service
func New() *Service {
	return &Service{fs: afs.New()}
}

// StageInput describes an inbound staging request.
type StageInput struct {
	JobName    string `json:"jobName"`
	SourceDir  string `json:"sourceDir" description:"directory holding <job>.d12 and optional auxiliaries"`
	ScratchDir string `json:"scratchDir"`
}

// StageOutput records what was copied in.
type StageOutput struct {
	Staged *job.StagedFileSet `json:"staged"`
}

// StageBackInput describes an outbound retrieval request.
type StageBackInput struct {
	JobName    string `json:"jobName"`
	ScratchDir string `json:"scratchDir"`
	OriginDir  string `json:"originDir" description:"directory receiving <job>-prefixed artifacts"`
}

// StageBackOutput records what was recovered.
type StageBackOutput struct {
	Staged *job.StagedFileSet `json:"staged"`
}

// Stage copies the canonical input and any present auxiliaries into scratch
// under the fixed names the binary expects.
func (s *Service) Stage(ctx context.Context, input *StageInput, output *StageOutput) error {
	staged := job.NewStagedFileSet()
	for _, r := range stageIn {
		source := path.Join(input.SourceDir, input.JobName+r.suffix)
		ok, _ := s.fs.Exists(ctx, source)
		if !ok {
			if r.required {
				return types.NewStagingError(source, "required input file not found")
			}
			continue
		}
		dest := path.Join(input.ScratchDir, r.scratchName)
		if err := s.fs.Copy(ctx, source, dest); err != nil {
			if r.required {
				return types.NewStagingError(source, "copy failed: %v", err)
			}
			return fmt.Errorf("failed to stage %v: %w", source, err)
		}
		staged.In[r.scratchName] = source
	}
	output.Staged = staged
	return nil
}

// StageBack copies the canonical output back as <job>.out and recovers any
// optional result artifacts that the run produced.
func (s *Service) StageBack(ctx context.Context, input *StageBackInput, output *StageBackOutput) error {
	staged := job.NewStagedFileSet()
	for _, r := range stageOut {
		source := path.Join(input.ScratchDir, r.scratchName)
		if ok, _ := s.fs.Exists(ctx, source); !ok {
			continue
		}
		dest := path.Join(input.OriginDir, input.JobName+r.suffix)
		if err := s.fs.Copy(ctx, source, dest); err != nil {
			return fmt.Errorf("failed to retrieve %v: %w", source, err)
		}
		staged.Out[r.scratchName] = dest
	}
	output.Staged = staged
	return nil
}
