package hardware

import (
	"context"
	"reflect"
	"strings"

	"github.com/hpckit/crystalrun/model/types"
)

const Name = "system/hardware"

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "detect",
			Description: "Detects the number of schedulable processor cores on the local host.",
			Input:       reflect.TypeOf(&DetectInput{}),
			Output:      reflect.TypeOf(&DetectOutput{}),
		},
	}
}

func (s *Service) detect(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*DetectInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*DetectOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Detect(ctx, input, output)
}

// Method returns method by Name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "detect":
		return s.detect, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}
