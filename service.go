package crystalrun

import (
	"github.com/hpckit/crystalrun/extension"
	"github.com/hpckit/crystalrun/model/types"
	"github.com/hpckit/crystalrun/runtime/invocation"
	"github.com/hpckit/crystalrun/service/analyzer"
	"github.com/hpckit/crystalrun/service/event"
	"github.com/hpckit/crystalrun/service/hardware"
	"github.com/hpckit/crystalrun/service/invoker"
	"github.com/hpckit/crystalrun/service/planner"
	"github.com/hpckit/crystalrun/service/runner"
	"github.com/hpckit/crystalrun/service/scratch"
	"github.com/hpckit/crystalrun/service/stager"
)

// Service is the embeddable facade: it wires the action services, the event
// fan-out and the orchestrator together under one configuration.
type Service struct {
	config            *Config
	runtime           *Runtime
	actions           *extension.Actions
	events            *event.Service
	invoker           *invoker.Service
	extensionServices []types.Service
	invokerOptions    []invoker.Option
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()

	hw := hardware.New()
	pl := planner.New()
	sc := scratch.New()
	st := stager.New()
	rn := runner.New()
	an := analyzer.New()
	for _, svc := range []types.Service{hw, pl, sc, st, rn, an} {
		s.actions.Register(svc)
	}
	for _, svc := range s.extensionServices {
		s.actions.Register(svc)
	}

	invokerOptions := append([]invoker.Option{invoker.WithEventService(s.events)}, s.invokerOptions...)
	s.invoker = invoker.New(s.actions, invokerOptions...)

	orchestrator := invocation.New(s.settings(), hw, pl, sc, st, rn, an, s.events)
	s.runtime = &Runtime{config: s.config, orchestrator: orchestrator}
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
		s.config.ApplyEnv()
	}
	if s.events == nil {
		s.events = event.New()
	}
	s.actions = extension.NewActions()
}

func (s *Service) settings() invocation.Settings {
	return invocation.Settings{
		ScratchBase: s.config.Scratch.BaseDir,
		BinDir:      s.config.Binaries.Dir,
		Serial:      s.config.Binaries.Serial,
		Parallel:    s.config.Binaries.Parallel,
		MPIRoot:     s.config.MPI.Root,
		Launcher:    s.config.MPI.Launcher,
		TimeoutMs:   int(s.config.Limits.MaxWallClock.Milliseconds()),
	}
}

// Runtime returns the run/explain surface.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Events returns the lifecycle event service.
func (s *Service) Events() *event.Service {
	return s.events
}

// Actions returns the action service registry.
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// Invoker returns the by-name invocation surface for frontends.
func (s *Service) Invoker() *invoker.Service {
	return s.invoker
}

// RegisterExtensionServices registers additional action services.
func (s *Service) RegisterExtensionServices(services ...types.Service) {
	for i := range services {
		s.actions.Register(services[i])
	}
}

// New creates a new service facade.
func New(options ...Option) *Service {
	ret := &Service{}
	ret.init(options)
	return ret
}
