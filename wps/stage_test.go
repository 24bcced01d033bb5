package wps

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sytse47/wrfpy/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeExe(t *testing.T, dir, name, body string) fsutil.Path {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return fsutil.Path(path)
}

func TestResolveMethod(t *testing.T) {
	assert.Equal(t, Background, ResolveMethod(""))
	assert.Equal(t, BatchQueue, ResolveMethod("/home/wrf/slurm/geogrid.slurm"))

	assert.Equal(t, "background", Background.String())
	assert.Equal(t, "slurm", BatchQueue.String())
}

func TestNewStageBatchWinsOverExe(t *testing.T) {
	st := NewStage("geogrid", "/opt/WPS/geogrid/geogrid.exe", "/home/wrf/geogrid.slurm", "/tmp/wps")
	assert.Equal(t, BatchQueue, st.Method)
	assert.Equal(t, "/home/wrf/geogrid.slurm", st.BatchScript)

	st = NewStage("geogrid", "/opt/WPS/geogrid/geogrid.exe", "", "/tmp/wps")
	assert.Equal(t, Background, st.Method)
	assert.Equal(t, fsutil.Path("/opt/WPS/geogrid/geogrid.exe"), st.Exe)
}

func TestRunStageMissingExecutable(t *testing.T) {
	st := NewStage("geogrid", fsutil.Path(filepath.Join(t.TempDir(), "geogrid.exe")), "", fsutil.Path(t.TempDir()))

	err := RunStage(testLogger(), st)
	assert.ErrorIs(t, err, ErrMissingExecutable)
}

func TestRunStageMissingBatchScript(t *testing.T) {
	st := NewStage("ungrib", "", filepath.Join(t.TempDir(), "ungrib.slurm"), fsutil.Path(t.TempDir()))

	err := RunStage(testLogger(), st)
	assert.ErrorIs(t, err, ErrMissingExecutable)
}

func TestRunStageFailure(t *testing.T) {
	exe := fakeExe(t, t.TempDir(), "metgrid.exe", "exit 1")
	st := NewStage("metgrid", exe, "", fsutil.Path(t.TempDir()))

	err := RunStage(testLogger(), st)
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "metgrid", stageErr.Stage)
}

func TestRunStageSuccessInWorkDir(t *testing.T) {
	workDir := t.TempDir()
	// the stage must execute with the working directory as its cwd
	exe := fakeExe(t, t.TempDir(), "geogrid.exe", "pwd > ran.txt")
	st := NewStage("geogrid", exe, "", fsutil.Path(workDir))

	require.NoError(t, RunStage(testLogger(), st))

	content, err := os.ReadFile(filepath.Join(workDir, "ran.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(content), filepath.Base(workDir))
}
