package scratch

import (
	"context"
	"reflect"
	"strings"

	"github.com/hpckit/crystalrun/model/types"
)

const Name = "scratch"

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "create",
			Description: "Allocates a collision-free scratch directory named cry_<job>_<pid> under the scratch base.",
			Input:       reflect.TypeOf(&CreateInput{}),
			Output:      reflect.TypeOf(&CreateOutput{}),
		},
		{
			Name:        "cleanup",
			Description: "Removes a scratch directory; idempotent, never an error.",
			Input:       reflect.TypeOf(&CleanupInput{}),
			Output:      reflect.TypeOf(&CleanupOutput{}),
		},
	}
}

func (s *Service) create(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*CreateInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*CreateOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Create(ctx, input, output)
}

func (s *Service) cleanup(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*CleanupInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*CleanupOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Cleanup(ctx, input, output)
}

// Method returns method by Name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "create":
		return s.create, nil
	case "cleanup":
		return s.cleanup, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}
