// Package progress provides a lightweight tracker that records the lifecycle
// phase of a single run. The tracker instance lives in the context, so every
// component that receives the context can update it without requiring a
// global registry, and a host can observe transitions via the onChange
// callback without blocking the run.
package progress

import (
	"context"
	"sync"
	"time"
)

// Progress keeps the current phase of one run. It is safe for concurrent use.
type Progress struct {
	// Identification, informative only, filled when the run starts.
	RunID     string
	JobName   string
	StartedAt time.Time

	Phase       string
	Transitions int

	sync.Mutex
	onChange func(Progress)
}

// Update records a phase transition. If an onChange callback has been
// registered it is invoked with a copy of the tracker outside the critical
// section so the callback can perform slow operations without blocking the
// run.
func (p *Progress) Update(phase string) {
	if p == nil {
		return
	}
	p.Lock()
	p.Phase = phase
	p.Transitions++
	snapshot := *p
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return *p
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables the callback. Only one callback can be active; subsequent calls
// overwrite the previous value.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

// ----------------------------------------------------------------------------
// Context helpers
// ----------------------------------------------------------------------------

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new Progress tracker, embeds it in a derived
// context and returns both.
func WithNewTracker(ctx context.Context, runID, jobName string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		RunID:     runID,
		JobName:   jobName,
		StartedAt: time.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext returns the tracker embedded in ctx, or nil.
func FromContext(ctx context.Context) *Progress {
	if ctx == nil {
		return nil
	}
	tracker, _ := ctx.Value(trackerKey).(*Progress)
	return tracker
}

// Track updates the tracker embedded in ctx, if any.
func Track(ctx context.Context, phase string) {
	FromContext(ctx).Update(phase)
}
