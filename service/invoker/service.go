// Package invoker bridges frontends with the registered action services. It
// resolves a service method by name, converts a generic map input into the
// method's typed input and publishes a completion event. It is the integration
// surface a CLI or TUI uses without importing individual services.
package invoker

import (
	"context"
	"fmt"
	"log"
	"reflect"

	"github.com/hpckit/crystalrun/extension"
	"github.com/hpckit/crystalrun/service/event"
	"github.com/viant/structology/conv"
)

// Listener is invoked once a method completes, regardless of error.
// Implementations can log, collect metrics or perform other side effects.
type Listener func(service, method string, input, output interface{}, err error)

// Option is used to customise the invoker instance.
type Option func(*Service)

// WithListener overrides the listener invoked after every call. Passing nil
// disables the callback entirely.
func WithListener(l Listener) Option {
	return func(s *Service) {
		s.listener = l
	}
}

// WithEventService attaches an event service publishing invocation
// completions.
func WithEventService(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// Service invokes registered action services by name.
type Service struct {
	actions   *extension.Actions
	converter *conv.Converter
	listener  Listener
	events    *event.Service
}

// Invocation is published after every completed call.
type Invocation struct {
	Service string      `json:"service"`
	Method  string      `json:"method"`
	Input   interface{} `json:"input,omitempty"`
	Output  interface{} `json:"output,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Invoke resolves and calls serviceName.methodName with the supplied map
// input and returns the typed output.
func (s *Service) Invoke(ctx context.Context, serviceName, methodName string, input map[string]interface{}) (interface{}, error) {
	target := s.actions.Lookup(serviceName)
	if target == nil {
		return nil, fmt.Errorf("service %v not found", serviceName)
	}
	method, err := target.Method(methodName)
	if err != nil {
		return nil, fmt.Errorf("failed to find method %v for service %v: %w", methodName, serviceName, err)
	}
	signature := target.Methods().Lookup(methodName)
	if signature == nil {
		return nil, fmt.Errorf("method %v has no signature in service %v", methodName, serviceName)
	}

	typedInput, err := s.typedValue(signature.Input, input)
	if err != nil {
		return nil, fmt.Errorf("failed to convert input for %v.%v: %w", serviceName, methodName, err)
	}
	typedOutput, err := s.typedValue(signature.Output, map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	callErr := method(ctx, typedInput, typedOutput)
	if s.listener != nil {
		s.listener(serviceName, methodName, typedInput, typedOutput, callErr)
	}
	s.publish(ctx, serviceName, methodName, typedInput, typedOutput, callErr)
	if callErr != nil {
		return nil, callErr
	}
	return typedOutput, nil
}

func (s *Service) typedValue(aType reflect.Type, value interface{}) (interface{}, error) {
	if aType == nil {
		return nil, nil
	}
	instance := reflect.New(aType.Elem()).Interface()
	err := s.converter.Convert(value, instance)
	return instance, err
}

func (s *Service) publish(ctx context.Context, serviceName, methodName string, input, output interface{}, callErr error) {
	if s.events == nil {
		return
	}
	publisher, err := event.PublisherOf[*Invocation](s.events)
	if err != nil {
		return
	}
	data := &Invocation{Service: serviceName, Method: methodName, Input: input, Output: output}
	if callErr != nil {
		data.Error = callErr.Error()
	}
	eCtx := &event.Context{EventType: "invoked", Phase: fmt.Sprintf("%v.%v", serviceName, methodName)}
	if err = publisher.Publish(ctx, event.NewEvent(eCtx, data)); err != nil {
		log.Printf("failed to publish invocation event: %v", err)
	}
}

// New creates a new invoker over the supplied action registry.
func New(actions *extension.Actions, opts ...Option) *Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true

	s := &Service{
		actions:   actions,
		converter: conv.NewConverter(options),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
