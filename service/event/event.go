package event

import "time"

// Context identifies the invocation a lifecycle event belongs to.
type Context struct {
	RunID       string `json:"runId"`
	JobName     string `json:"jobName"`
	EventType   string `json:"eventType"`
	Phase       string `json:"phase,omitempty"`
	TimeTakenMs int    `json:"timeTakenMs,omitempty"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
