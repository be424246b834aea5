package extension

import (
	"sync"

	"github.com/hpckit/crystalrun/model/types"
	"github.com/viant/x"
)

// Actions provides action service lookup by name
type Actions struct {
	types    *x.Registry
	services map[string]types.Service
	mux      sync.RWMutex
}

func (s *Actions) Types() *x.Registry {
	return s.types
}

// Lookup returns a service by name
func (s *Actions) Lookup(name string) types.Service {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.services[name]
}

// Services returns the registered service names
func (s *Actions) Services() []string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	names := make([]string, 0, len(s.services))
	for name := range s.services {
		names = append(names, name)
	}
	return names
}

// Register registers a service and the reflect types of its method
// signatures so that frontends can introspect inputs and outputs.
func (s *Actions) Register(service types.Service) {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, signature := range service.Methods() {
		if signature.Input != nil {
			s.types.Register(x.NewType(signature.Input))
		}
		if signature.Output != nil {
			s.types.Register(x.NewType(signature.Output))
		}
	}
	s.services[service.Name()] = service
}

// NewActions creates a new action service registry
func NewActions(goTypes ...*x.Type) *Actions {
	ret := &Actions{
		types:    x.NewRegistry(),
		services: make(map[string]types.Service),
	}
	for _, t := range goTypes {
		if t != nil {
			ret.types.Register(t)
		}
	}
	return ret
}
