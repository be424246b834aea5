package analyzer

import (
	"context"
	"reflect"
	"strings"

	"github.com/hpckit/crystalrun/model/types"
)

const Name = "analyzer"

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "analyze",
			Description: "Scans run output against the known failure signature table and returns structured diagnoses.",
			Input:       reflect.TypeOf(&AnalyzeInput{}),
			Output:      reflect.TypeOf(&AnalyzeOutput{}),
		},
	}
}

func (s *Service) analyze(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*AnalyzeInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*AnalyzeOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Analyze(ctx, input, output)
}

// Method returns method by Name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "analyze":
		return s.analyze, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}
