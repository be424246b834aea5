package planner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hpckit/crystalrun/model/job"
	"github.com/hpckit/crystalrun/model/types"
	"github.com/stretchr/testify/assert"
)

func writeBinary(t *testing.T, dir, name string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755)
	assert.NoError(t, err)
}

func TestService_Plan(t *testing.T) {
	testCases := []struct {
		name           string
		ranks          int
		cores          int
		binaries       []string
		expectMode     job.Mode
		expectRanks    int
		expectThreads  int
		expectDegraded bool
		expectErr      bool
	}{
		{
			name:          "serial with all cores as threads",
			ranks:         1,
			cores:         8,
			binaries:      []string{"crystal"},
			expectMode:    job.ModeSerial,
			expectThreads: 8,
		},
		{
			name:          "hybrid splits cores across ranks",
			ranks:         4,
			cores:         16,
			binaries:      []string{"crystal", "Pcrystal"},
			expectMode:    job.ModeHybrid,
			expectRanks:   4,
			expectThreads: 4,
		},
		{
			name:          "oversubscription clamps threads to one",
			ranks:         8,
			cores:         3,
			binaries:      []string{"Pcrystal"},
			expectMode:    job.ModeHybrid,
			expectRanks:   8,
			expectThreads: 1,
		},
		{
			name:           "missing parallel binary degrades to serial",
			ranks:          4,
			cores:          16,
			binaries:       []string{"crystal"},
			expectMode:     job.ModeSerial,
			expectThreads:  16,
			expectDegraded: true,
		},
		{
			name:      "no usable binary at all",
			ranks:     4,
			cores:     16,
			binaries:  nil,
			expectErr: true,
		},
		{
			name:      "non-positive ranks are rejected",
			ranks:     -1,
			cores:     8,
			binaries:  []string{"crystal"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			binDir := t.TempDir()
			for _, name := range tc.binaries {
				writeBinary(t, binDir, name)
			}
			service := New()
			output := &PlanOutput{}
			err := service.Plan(context.Background(), &PlanInput{Ranks: tc.ranks, Cores: tc.cores, BinDir: binDir}, output)
			if tc.expectErr {
				assert.Error(t, err)
				var configErr *types.ConfigurationError
				assert.True(t, errors.As(err, &configErr))
				return
			}
			assert.NoError(t, err)
			plan := output.Plan
			assert.Equal(t, tc.expectMode, plan.Mode)
			assert.Equal(t, tc.expectRanks, plan.MPIRanks)
			assert.Equal(t, tc.expectThreads, plan.ThreadsPerRank)
			assert.Equal(t, tc.expectDegraded, plan.Degraded)
			assert.Equal(t, tc.cores, plan.TotalCores)
		})
	}
}

func TestService_Plan_Environment(t *testing.T) {
	binDir := t.TempDir()
	writeBinary(t, binDir, "crystal")
	writeBinary(t, binDir, "Pcrystal")
	service := New()

	serial := &PlanOutput{}
	err := service.Plan(context.Background(), &PlanInput{Ranks: 1, Cores: 8, BinDir: binDir}, serial)
	assert.NoError(t, err)
	assert.Equal(t, "8", serial.Plan.Env["OMP_NUM_THREADS"])
	assert.Equal(t, "256M", serial.Plan.Env["OMP_STACKSIZE"])
	_, pinned := serial.Plan.Env["I_MPI_PIN_DOMAIN"]
	assert.False(t, pinned)

	hybrid := &PlanOutput{}
	err = service.Plan(context.Background(), &PlanInput{Ranks: 4, Cores: 16, BinDir: binDir}, hybrid)
	assert.NoError(t, err)
	assert.Equal(t, "4", hybrid.Plan.Env["OMP_NUM_THREADS"])
	assert.Equal(t, "omp", hybrid.Plan.Env["I_MPI_PIN_DOMAIN"])
	assert.Equal(t, "compact,1,0,granularity=fine", hybrid.Plan.Env["KMP_AFFINITY"])
}

func TestService_Plan_NonExecutableBinary(t *testing.T) {
	binDir := t.TempDir()
	err := os.WriteFile(filepath.Join(binDir, "crystal"), []byte("not a binary"), 0o644)
	assert.NoError(t, err)
	service := New()
	err = service.Plan(context.Background(), &PlanInput{Ranks: 1, Cores: 8, BinDir: binDir}, &PlanOutput{})
	assert.Error(t, err)
}
