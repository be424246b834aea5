package planner

import (
	"context"
	"reflect"
	"strings"

	"github.com/hpckit/crystalrun/model/types"
)

const Name = "planner"

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "plan",
			Description: "Resolves serial or hybrid MPI+OpenMP execution from requested ranks, detected cores and available binaries.",
			Input:       reflect.TypeOf(&PlanInput{}),
			Output:      reflect.TypeOf(&PlanOutput{}),
		},
	}
}

func (s *Service) plan(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*PlanInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*PlanOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Plan(ctx, input, output)
}

// Method returns method by Name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "plan":
		return s.plan, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}
