package stager

import (
	"context"
	"reflect"
	"strings"

	"github.com/hpckit/crystalrun/model/types"
)

const Name = "stager"

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "stage",
			Description: "Copies the canonical input and present auxiliary files into scratch under fixed names.",
			Input:       reflect.TypeOf(&StageInput{}),
			Output:      reflect.TypeOf(&StageOutput{}),
		},
		{
			Name:        "stageBack",
			Description: "Copies the output and any produced result artifacts back under <job>-prefixed names.",
			Input:       reflect.TypeOf(&StageBackInput{}),
			Output:      reflect.TypeOf(&StageBackOutput{}),
		},
	}
}

func (s *Service) stage(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*StageInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*StageOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Stage(ctx, input, output)
}

func (s *Service) stageBack(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*StageBackInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*StageBackOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.StageBack(ctx, input, output)
}

// Method returns method by Name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "stage":
		return s.stage, nil
	case "stageback":
		return s.stageBack, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}
