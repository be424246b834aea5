package invocation

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hpckit/crystalrun/model/job"
	"github.com/hpckit/crystalrun/progress"
	"github.com/hpckit/crystalrun/service/analyzer"
	"github.com/hpckit/crystalrun/service/event"
	"github.com/hpckit/crystalrun/service/hardware"
	"github.com/hpckit/crystalrun/service/planner"
	"github.com/hpckit/crystalrun/service/runner"
	"github.com/hpckit/crystalrun/service/scratch"
	"github.com/hpckit/crystalrun/service/stager"
	"github.com/hpckit/crystalrun/tracing"
)

// Settings carries the configuration slice the orchestrator needs.
type Settings struct {
	ScratchBase string
	BinDir      string
	Serial      string
	Parallel    string
	MPIRoot     string
	Launcher    string
	TimeoutMs   int
}

// Orchestrator sequences one job invocation: plan, create scratch, stage,
// execute, stage back, analyze, clean up. It owns the cleanup guarantee:
// once the scratch directory exists its release is registered before any
// later fallible step runs.
type Orchestrator struct {
	settings Settings
	hardware *hardware.Service
	planner  *planner.Service
	scratch  *scratch.Service
	stager   *stager.Service
	runner   *runner.Service
	analyzer *analyzer.Service
	events   *event.Service
}

// New creates an orchestrator over the supplied services.
func New(settings Settings, hw *hardware.Service, pl *planner.Service, sc *scratch.Service, st *stager.Service, rn *runner.Service, an *analyzer.Service, events *event.Service) *Orchestrator {
	return &Orchestrator{
		settings: settings,
		hardware: hw,
		planner:  pl,
		scratch:  sc,
		stager:   st,
		runner:   rn,
		analyzer: an,
		events:   events,
	}
}

// Wait blocks until the run completes, the timeout elapses or ctx is done.
type Wait func(ctx context.Context, timeout time.Duration) (*job.Outcome, error)

// RunJob executes one job synchronously. The returned outcome carries the
// child's exact exit status; a nonzero status is not an error. The error
// return is reserved for pre-execution failures (configuration, resources,
// staging) and spawn impossibility.
func (o *Orchestrator) RunJob(ctx context.Context, jobName, sourceDir string, ranks int) (outcome *job.Outcome, err error) {
	inv := newInvocation(jobName, ranks)
	ctx, span := tracing.StartSpan(ctx, "runJob")
	span.WithAttributes(map[string]string{"job": jobName, "runId": inv.RunID})
	defer func() {
		span.SetStatus(err)
		span.End()
	}()

	o.transition(ctx, inv, PhasePlanning)
	plan, err := o.plan(ctx, ranks)
	if err != nil {
		return nil, o.fail(ctx, inv, err)
	}
	outcome = &job.Outcome{RunID: inv.RunID, JobName: jobName, Plan: plan}

	created := &scratch.CreateOutput{}
	if err = o.scratch.Create(ctx, &scratch.CreateInput{JobName: jobName, BaseDir: o.settings.ScratchBase}, created); err != nil {
		return nil, o.fail(ctx, inv, err)
	}
	o.transition(ctx, inv, PhaseScratchCreated)

	// Release is registered now, before any fallible step below, so every
	// later failure still removes the scratch directory.
	cleanup := func() {
		_ = o.scratch.Cleanup(ctx, &scratch.CleanupInput{Handle: created.Handle}, &scratch.CleanupOutput{})
	}
	defer func() {
		cleanup()
		o.transition(ctx, inv, PhaseCleanedUp)
	}()
	stopSignals := o.interruptCleanup(cleanup)
	defer stopSignals()

	staged := &stager.StageOutput{}
	if err = o.stager.Stage(ctx, &stager.StageInput{JobName: jobName, SourceDir: sourceDir, ScratchDir: created.Handle.Path}, staged); err != nil {
		return nil, o.fail(ctx, inv, err)
	}
	outcome.Staged = staged.Staged
	o.transition(ctx, inv, PhaseStaged)

	ran := &runner.RunOutput{}
	if err = o.runner.Run(ctx, &runner.RunInput{
		Plan:       plan,
		ScratchDir: created.Handle.Path,
		MPIRoot:    o.settings.MPIRoot,
		Launcher:   o.settings.Launcher,
		TimeoutMs:  o.settings.TimeoutMs,
	}, ran); err != nil {
		return nil, o.fail(ctx, inv, err)
	}
	outcome.Result = ran.Result
	o.transition(ctx, inv, PhaseExecuted)

	back := &stager.StageBackOutput{}
	if stageBackErr := o.stager.StageBack(ctx, &stager.StageBackInput{JobName: jobName, ScratchDir: created.Handle.Path, OriginDir: sourceDir}, back); stageBackErr != nil {
		log.Printf("[WARN] failed to retrieve artifacts for %v: %v", jobName, stageBackErr)
	} else {
		for name, dest := range back.Staged.Out {
			outcome.Staged.Out[name] = dest
		}
	}
	// After cleanup the scratch copy is gone; point callers at the
	// retrieved output.
	if recovered, ok := outcome.Staged.Out["OUTPUT"]; ok {
		outcome.Result.OutputPath = recovered
	}

	if !ran.Result.Succeeded() {
		analyzed := &analyzer.AnalyzeOutput{}
		if analyzeErr := o.analyzer.Analyze(ctx, &analyzer.AnalyzeInput{OutputLocation: outcome.Result.OutputPath}, analyzed); analyzeErr != nil {
			log.Printf("[WARN] failed to analyze output of %v: %v", jobName, analyzeErr)
		}
		outcome.Diagnoses = analyzed.Diagnoses
	}
	o.transition(ctx, inv, PhaseAnalyzed)
	return outcome, nil
}

// StartJob launches RunJob on its own goroutine and returns a Wait future so
// hosts needing non-blocking behaviour can observe completion.
func (o *Orchestrator) StartJob(ctx context.Context, jobName, sourceDir string, ranks int) Wait {
	type response struct {
		outcome *job.Outcome
		err     error
	}
	done := make(chan response, 1)
	go func() {
		outcome, err := o.RunJob(ctx, jobName, sourceDir, ranks)
		done <- response{outcome: outcome, err: err}
	}()
	return func(waitCtx context.Context, timeout time.Duration) (*job.Outcome, error) {
		var timer <-chan time.Time
		if timeout > 0 {
			t := time.NewTimer(timeout)
			defer t.Stop()
			timer = t.C
		}
		select {
		case resp := <-done:
			return resp.outcome, resp.err
		case <-waitCtx.Done():
			return nil, waitCtx.Err()
		case <-timer:
			return nil, fmt.Errorf("timed out waiting for job %v after %v", jobName, timeout)
		}
	}
}

// Explain renders the plan, the would-be scratch path and the command line
// without creating scratch or executing anything.
func (o *Orchestrator) Explain(ctx context.Context, jobName string, ranks int) (string, error) {
	plan, err := o.plan(ctx, ranks)
	if err != nil {
		return "", err
	}
	return Render(plan, jobName, o.settings), nil
}

func (o *Orchestrator) plan(ctx context.Context, ranks int) (*job.Plan, error) {
	detected := &hardware.DetectOutput{}
	if err := o.hardware.Detect(ctx, &hardware.DetectInput{}, detected); err != nil {
		return nil, err
	}
	planned := &planner.PlanOutput{}
	if err := o.planner.Plan(ctx, &planner.PlanInput{
		Ranks:    ranks,
		Cores:    detected.Cores,
		BinDir:   o.settings.BinDir,
		Serial:   o.settings.Serial,
		Parallel: o.settings.Parallel,
	}, planned); err != nil {
		return nil, err
	}
	return planned.Plan, nil
}

// interruptCleanup attempts scratch removal when the host delivers a
// termination signal. Best effort only: a forcefully killed process may
// leave a scratch directory behind for external sweeping.
func (o *Orchestrator) interruptCleanup(cleanup func()) (stop func()) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-signals:
			cleanup()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(signals)
		close(done)
	}
}

func (o *Orchestrator) transition(ctx context.Context, inv *Invocation, phase string) {
	inv.advance(phase)
	progress.Track(ctx, phase)
	o.publish(ctx, inv)
}

func (o *Orchestrator) fail(ctx context.Context, inv *Invocation, err error) error {
	inv.Error = err.Error()
	inv.advance(PhaseFailed)
	progress.Track(ctx, PhaseFailed)
	o.publish(ctx, inv)
	return err
}

func (o *Orchestrator) publish(ctx context.Context, inv *Invocation) {
	if o.events == nil {
		return
	}
	publisher, err := event.PublisherOf[*Invocation](o.events)
	if err != nil {
		return
	}
	snapshot := *inv
	eCtx := &event.Context{RunID: inv.RunID, JobName: inv.JobName, EventType: "phase", Phase: inv.Phase}
	if err = publisher.Publish(ctx, event.NewEvent(eCtx, &snapshot)); err != nil {
		log.Printf("failed to publish phase event: %v", err)
	}
}

// ScratchLocation returns the directory a run of jobName would use.
func (o *Orchestrator) ScratchLocation(jobName string) string {
	return scratch.Location(o.settings.ScratchBase, jobName)
}
