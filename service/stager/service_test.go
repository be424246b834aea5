package stager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hpckit/crystalrun/model/types"
	"github.com/stretchr/testify/assert"
)

func write(t *testing.T, location, content string) {
	t.Helper()
	assert.NoError(t, os.WriteFile(location, []byte(content), 0o644))
}

func TestService_Stage_RoundTrip(t *testing.T) {
	source := t.TempDir()
	scratchDir := t.TempDir()
	write(t, filepath.Join(source, "mgo.d12"), "MGO BULK\nCRYSTAL\n")
	write(t, filepath.Join(source, "mgo.f9"), "initial guess")

	service := New()
	ctx := context.Background()

	staged := &StageOutput{}
	err := service.Stage(ctx, &StageInput{JobName: "mgo", SourceDir: source, ScratchDir: scratchDir}, staged)
	assert.NoError(t, err)
	assert.Len(t, staged.Staged.In, 2)

	input, err := os.ReadFile(filepath.Join(scratchDir, "INPUT"))
	assert.NoError(t, err)
	assert.Contains(t, string(input), "MGO BULK")
	guess, err := os.ReadFile(filepath.Join(scratchDir, "fort.20"))
	assert.NoError(t, err)
	assert.Equal(t, "initial guess", string(guess))

	// emulate a finished run: output plus a fresh restart wavefunction
	write(t, filepath.Join(scratchDir, "OUTPUT"), "TOTAL ENERGY -275.2\n")
	write(t, filepath.Join(scratchDir, "fort.9"), "converged wavefunction")

	back := &StageBackOutput{}
	err = service.StageBack(ctx, &StageBackInput{JobName: "mgo", ScratchDir: scratchDir, OriginDir: source}, back)
	assert.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(source, "mgo.out"))
	assert.NoError(t, err)
	assert.Contains(t, string(out), "TOTAL ENERGY")
	restart, err := os.ReadFile(filepath.Join(source, "mgo.f9"))
	assert.NoError(t, err)
	assert.Equal(t, "converged wavefunction", string(restart))

	// absent optional artifacts were skipped without error
	_, err = os.Stat(filepath.Join(source, "mgo.f98"))
	assert.True(t, os.IsNotExist(err))
}

func TestService_Stage_MissingInput(t *testing.T) {
	service := New()
	err := service.Stage(context.Background(), &StageInput{JobName: "mgo", SourceDir: t.TempDir(), ScratchDir: t.TempDir()}, &StageOutput{})
	assert.Error(t, err)
	var stagingErr *types.StagingError
	assert.True(t, errors.As(err, &stagingErr))
}

func TestService_Stage_OptionalFilesAreOptional(t *testing.T) {
	source := t.TempDir()
	scratchDir := t.TempDir()
	write(t, filepath.Join(source, "mgo.d12"), "MGO BULK\n")

	service := New()
	staged := &StageOutput{}
	err := service.Stage(context.Background(), &StageInput{JobName: "mgo", SourceDir: source, ScratchDir: scratchDir}, staged)
	assert.NoError(t, err)
	assert.Len(t, staged.Staged.In, 1)
}
