package invocation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/hpckit/crystalrun/model/job"
	"github.com/hpckit/crystalrun/model/types"
	"github.com/hpckit/crystalrun/service/analyzer"
	"github.com/hpckit/crystalrun/service/event"
	"github.com/hpckit/crystalrun/service/hardware"
	"github.com/hpckit/crystalrun/service/planner"
	rsvc "github.com/hpckit/crystalrun/service/runner"
	"github.com/hpckit/crystalrun/service/scratch"
	"github.com/hpckit/crystalrun/service/stager"
	"github.com/stretchr/testify/assert"
)

func newTestOrchestrator(settings Settings, events *event.Service) *Orchestrator {
	return New(settings, hardware.New(), planner.New(), scratch.New(), stager.New(), rsvc.New(), analyzer.New(), events)
}

func setupRun(t *testing.T, script string) (Settings, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	binDir := t.TempDir()
	err := os.WriteFile(filepath.Join(binDir, "crystal"), []byte("#!/bin/sh\n"+script), 0o755)
	assert.NoError(t, err)
	sourceDir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(sourceDir, "mgo.d12"), []byte("MGO BULK\n"), 0o644))
	settings := Settings{ScratchBase: filepath.Join(t.TempDir(), "scratch"), BinDir: binDir}
	return settings, sourceDir
}

func TestOrchestrator_RunJob(t *testing.T) {
	settings, sourceDir := setupRun(t, "cat\necho 'SCF ENDED - CONVERGENCE ON ENERGY'\nexit 0\n")
	o := newTestOrchestrator(settings, nil)

	outcome, err := o.RunJob(context.Background(), "mgo", sourceDir, 1)
	assert.NoError(t, err)
	assert.Equal(t, 0, outcome.ExitCode())
	assert.Equal(t, job.ModeSerial, outcome.Plan.Mode)
	assert.Empty(t, outcome.Diagnoses)

	// output survives cleanup in the origin directory
	assert.Equal(t, filepath.Join(sourceDir, "mgo.out"), outcome.Result.OutputPath)
	data, err := os.ReadFile(outcome.Result.OutputPath)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "CONVERGENCE ON ENERGY")

	_, err = os.Stat(o.ScratchLocation("mgo"))
	assert.True(t, os.IsNotExist(err))
}

func TestOrchestrator_RunJob_NonZeroExit(t *testing.T) {
	settings, sourceDir := setupRun(t, "cat\necho 'DIVERGENCE IN SCF'\necho 'insufficient memory for calculation'\nexit 42\n")
	o := newTestOrchestrator(settings, nil)

	outcome, err := o.RunJob(context.Background(), "mgo", sourceDir, 1)
	assert.NoError(t, err)
	assert.Equal(t, 42, outcome.ExitCode())
	assert.False(t, outcome.Result.Succeeded())
	assert.Len(t, outcome.Diagnoses, 2)
	assert.Equal(t, job.CategorySCFDivergence, outcome.Diagnoses[0].Category)
	assert.Equal(t, job.CategoryMemoryError, outcome.Diagnoses[1].Category)
	assert.NotEmpty(t, outcome.Result.OutputTail)

	// a failed run still removes its scratch directory
	_, err = os.Stat(o.ScratchLocation("mgo"))
	assert.True(t, os.IsNotExist(err))
}

func TestOrchestrator_RunJob_MissingInput(t *testing.T) {
	settings, _ := setupRun(t, "exit 0\n")
	o := newTestOrchestrator(settings, nil)

	outcome, err := o.RunJob(context.Background(), "mgo", t.TempDir(), 1)
	assert.Nil(t, outcome)
	assert.Error(t, err)
	var stagingErr *types.StagingError
	assert.True(t, errors.As(err, &stagingErr))
	assert.True(t, types.IsPreExecution(err))

	_, err = os.Stat(o.ScratchLocation("mgo"))
	assert.True(t, os.IsNotExist(err))
}

func TestOrchestrator_RunJob_NoBinaries(t *testing.T) {
	settings := Settings{ScratchBase: filepath.Join(t.TempDir(), "scratch"), BinDir: t.TempDir()}
	o := newTestOrchestrator(settings, nil)

	_, err := o.RunJob(context.Background(), "mgo", t.TempDir(), 1)
	assert.Error(t, err)
	var configErr *types.ConfigurationError
	assert.True(t, errors.As(err, &configErr))
}

func TestOrchestrator_RunJob_PublishesPhases(t *testing.T) {
	settings, sourceDir := setupRun(t, "cat\nexit 0\n")
	events := event.New()
	var mux sync.Mutex
	var phases []string
	err := event.SetListenerOf[*Invocation](events, func(e *event.Event[*Invocation]) {
		mux.Lock()
		defer mux.Unlock()
		phases = append(phases, e.Data.Phase)
	})
	assert.NoError(t, err)
	o := newTestOrchestrator(settings, events)

	_, err = o.RunJob(context.Background(), "mgo", sourceDir, 1)
	assert.NoError(t, err)

	expected := []string{PhasePlanning, PhaseScratchCreated, PhaseStaged, PhaseExecuted, PhaseAnalyzed, PhaseCleanedUp}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mux.Lock()
		count := len(phases)
		mux.Unlock()
		if count >= len(expected) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	mux.Lock()
	defer mux.Unlock()
	assert.Equal(t, expected, phases)
}

func TestOrchestrator_StartJob(t *testing.T) {
	settings, sourceDir := setupRun(t, "cat\nexit 0\n")
	o := newTestOrchestrator(settings, nil)

	wait := o.StartJob(context.Background(), "mgo", sourceDir, 1)
	outcome, err := wait(context.Background(), 30*time.Second)
	assert.NoError(t, err)
	assert.Equal(t, 0, outcome.ExitCode())
}

func TestOrchestrator_Explain(t *testing.T) {
	settings, _ := setupRun(t, "exit 0\n")
	o := newTestOrchestrator(settings, nil)

	text, err := o.Explain(context.Background(), "mgo", 1)
	assert.NoError(t, err)
	assert.Contains(t, text, "mgo")
	assert.Contains(t, text, "serial")
	assert.Contains(t, text, "OMP_NUM_THREADS")

	// explain never creates the scratch directory
	_, err = os.Stat(settings.ScratchBase)
	assert.True(t, os.IsNotExist(err))
}

func TestInvocation_Advance(t *testing.T) {
	inv := newInvocation("mgo", 4)
	assert.Equal(t, PhasePlanning, inv.Phase)
	assert.NotEmpty(t, inv.RunID)
	assert.Nil(t, inv.FinishedAt)

	inv.advance(PhaseScratchCreated)
	assert.Equal(t, PhaseScratchCreated, inv.Phase)
	assert.Nil(t, inv.FinishedAt)

	inv.advance(PhaseCleanedUp)
	assert.NotNil(t, inv.FinishedAt)
}
