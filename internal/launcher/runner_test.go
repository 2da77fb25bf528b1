package launcher

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/specialistvlad/segprep/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner(t *testing.T) {
	requireShell(t)

	testCases := []struct {
		name     string
		cmd      Command
		wantCode int
		wantOut  string
	}{
		{
			name:     "success streams stdout",
			cmd:      Command{Args: []string{"sh", "-c", "echo hello"}},
			wantCode: 0,
			wantOut:  "hello\n",
		},
		{
			name:     "non-zero exit is reported as a code",
			cmd:      Command{Args: []string{"sh", "-c", "exit 3"}},
			wantCode: 3,
		},
		{
			name:     "extra environment is visible to the child",
			cmd:      Command{Args: []string{"sh", "-c", "printf %s \"$SEGPREP_TEST_VAR\""}, Env: map[string]string{"SEGPREP_TEST_VAR": "abc"}},
			wantCode: 0,
			wantOut:  "abc",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			r := NewExecRunner(stdout, &bytes.Buffer{})

			code, err := r.Run(context.Background(), tc.cmd)

			require.NoError(t, err)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantOut, stdout.String())
		})
	}
}

func TestExecRunner_WorkingDirectory(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	stdout := &bytes.Buffer{}

	code, err := NewExecRunner(stdout, &bytes.Buffer{}).Run(context.Background(), Command{
		Args: []string{"sh", "-c", "touch marker && ls"},
		Dir:  dir,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.FileExists(t, dir+"/marker")
}

func TestExecRunner_ContextDeadline(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	code, err := NewExecRunner(&bytes.Buffer{}, &bytes.Buffer{}).Run(ctx, Command{Args: []string{"sleep", "5"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, -1, code)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestLauncher_DeadlineStopsRunningExperiment(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	p := config.NewPlan()
	p.Models = []string{"m"}
	p.ModelParams["m"] = config.ModelParams{BatchSize: 1, LearningRate: 0.1}
	p.Datasets = []config.DatasetPrompts{{Name: "d", Prompts: []string{"p0", "p1"}}}
	p.Command = []string{"sleep", "5"}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	out := &bytes.Buffer{}
	l, err := New(p, NewExecRunner(out, &bytes.Buffer{}), out)
	require.NoError(t, err)

	result, err := l.Run(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrCommandFailed)
	assert.Empty(t, result.Completed)
	assert.NotContains(t, out.String(), "COMMAND FAILED")
}

func TestExecRunner_StartFailure(t *testing.T) {
	r := NewExecRunner(&bytes.Buffer{}, &bytes.Buffer{})

	code, err := r.Run(context.Background(), Command{Args: []string{"segprep-no-such-binary-xyz"}})

	require.Error(t, err)
	assert.Equal(t, -1, code)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestExecRunner_EmptyCommand(t *testing.T) {
	_, err := NewExecRunner(nil, nil).Run(context.Background(), Command{})
	assert.EqualError(t, err, "empty command")
}

func TestMergeEnv(t *testing.T) {
	got := mergeEnv(
		[]string{"PATH=/bin", "HOME=/root", "BROKEN"},
		map[string]string{"HOME": "/tmp", "WANDB_MODE": "offline"},
	)
	assert.Equal(t, []string{"HOME=/tmp", "PATH=/bin", "WANDB_MODE=offline"}, got)
}

func TestDryRunner(t *testing.T) {
	code, err := DryRunner{}.Run(context.Background(), Command{Args: []string{"rm", "-rf", "/"}})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}
