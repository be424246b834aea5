package crystalrun

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitInput(t *testing.T) {
	testCases := []struct {
		input     string
		jobName   string
		sourceDir string
	}{
		{input: "/data/jobs/mgo.d12", jobName: "mgo", sourceDir: "/data/jobs"},
		{input: "/data/jobs/mgo", jobName: "mgo", sourceDir: "/data/jobs"},
		{input: "mgo.d12", jobName: "mgo", sourceDir: "."},
		{input: "mgo", jobName: "mgo", sourceDir: "."},
	}
	for _, tc := range testCases {
		jobName, sourceDir := splitInput(tc.input)
		assert.Equal(t, tc.jobName, jobName, tc.input)
		assert.Equal(t, tc.sourceDir, sourceDir, tc.input)
	}
}

func TestNormalizeRanks(t *testing.T) {
	assert.Equal(t, 1, normalizeRanks(0))
	assert.Equal(t, 1, normalizeRanks(1))
	assert.Equal(t, 4, normalizeRanks(4))
	assert.Equal(t, -1, normalizeRanks(-1))
}

func TestRuntime_ValidatesConfig(t *testing.T) {
	service := New(WithConfig(&Config{}))
	_, err := service.Runtime().RunJob(context.Background(), "mgo.d12", 1)
	assert.Error(t, err)
	_, err = service.Runtime().Explain(context.Background(), "mgo.d12", 1)
	assert.Error(t, err)
	_, err = service.Runtime().StartJob(context.Background(), "mgo.d12", 1)
	assert.Error(t, err)
}

func TestService_RunJob(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	binDir := t.TempDir()
	err := os.WriteFile(filepath.Join(binDir, "crystal"), []byte("#!/bin/sh\ncat\nexit 0\n"), 0o755)
	assert.NoError(t, err)
	sourceDir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(sourceDir, "mgo.d12"), []byte("MGO BULK\n"), 0o644))

	cfg := DefaultConfig()
	cfg.Scratch.BaseDir = filepath.Join(t.TempDir(), "scratch")
	cfg.Binaries.Dir = binDir
	service := New(WithConfig(cfg))

	outcome, err := service.Runtime().RunJob(context.Background(), filepath.Join(sourceDir, "mgo.d12"), 1)
	assert.NoError(t, err)
	assert.Equal(t, 0, outcome.ExitCode())
	assert.Equal(t, "mgo", outcome.JobName)

	_, err = os.Stat(service.Runtime().ScratchLocation("mgo.d12"))
	assert.True(t, os.IsNotExist(err))
}

func TestService_Explain(t *testing.T) {
	binDir := t.TempDir()
	err := os.WriteFile(filepath.Join(binDir, "crystal"), []byte("#!/bin/sh\nexit 0\n"), 0o755)
	assert.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Scratch.BaseDir = filepath.Join(t.TempDir(), "scratch")
	cfg.Binaries.Dir = binDir
	service := New(WithConfig(cfg))

	text, err := service.Runtime().Explain(context.Background(), "/data/jobs/mgo.d12", 1)
	assert.NoError(t, err)
	assert.Contains(t, text, "mgo")
}
