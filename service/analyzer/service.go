package analyzer

import (
	"bufio"
	"context"
	"fmt"

	"github.com/hpckit/crystalrun/model/job"
	"github.com/viant/afs"
)

// Service scans run output for known failure signatures and emits structured
// diagnoses. Each signature is reported at most once per run; all matching
// signatures are reported, not just the first.
type Service struct {
	fs afs.Service
}

// New creates a new analyzer service
func New() *Service {
	return &Service{fs: afs.New()}
}

// AnalyzeInput locates the output to scan.
type AnalyzeInput struct {
	OutputLocation string `json:"outputLocation" required:"true"`
}

// AnalyzeOutput lists the findings; empty when the run succeeded or no known
// pattern matched, in which case the caller should surface the raw exit code
// plus output tail instead.
type AnalyzeOutput struct {
	Diagnoses []*job.Diagnosis `json:"diagnoses,omitempty"`
}

// Analyze performs the single-pass scan against the signature table.
func (s *Service) Analyze(ctx context.Context, input *AnalyzeInput, output *AnalyzeOutput) error {
	reader, err := s.fs.OpenURL(ctx, input.OutputLocation)
	if err != nil {
		return fmt.Errorf("failed to open output %v: %w", input.OutputLocation, err)
	}
	defer reader.Close()

	matched := make([]bool, len(signatures))
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		for i := range signatures {
			if matched[i] {
				continue
			}
			if signatures[i].matches(line) {
				matched[i] = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan output %v: %w", input.OutputLocation, err)
	}

	for i := range signatures {
		if !matched[i] {
			continue
		}
		output.Diagnoses = append(output.Diagnoses, &job.Diagnosis{
			Category: signatures[i].category,
			Message:  signatures[i].message,
			Remedy:   signatures[i].remedy,
		})
	}
	return nil
}
