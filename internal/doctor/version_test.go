package doctor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hbjs97/multi-setup/internal/doctor"
	"github.com/hbjs97/multi-setup/internal/env"
	"github.com/hbjs97/multi-setup/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckVersions(t *testing.T) {
	t.Parallel()

	snap := &env.Snapshot{Path: testutil.ToolDir(t, "tmux", "git", "fzf")}
	fc := testutil.NewFakeCommander()
	fc.Register("tmux -V", "tmux 3.4\n", nil)
	fc.Register("git --version", "git version 2.45.0\n", nil)

	results := doctor.NewProber(fc).CheckVersions(context.Background(), snap, []string{"tmux", "git", "fzf"})
	require.Len(t, results, 2)
	assert.Equal(t, doctor.DiagResult{Name: "tmux_version", Status: doctor.StatusOK, Message: "tmux 3.4"}, results[0])
	assert.Equal(t, "git version 2.45.0", results[1].Message)
	assert.False(t, fc.Called("fzf"), "tools without a known version flag are not run")
}

func TestCheckVersions_FailureIsWarning(t *testing.T) {
	t.Parallel()

	snap := &env.Snapshot{Path: testutil.ToolDir(t, "tmux")}
	fc := testutil.NewFakeCommander()
	fc.Register("tmux -V", "", errors.New("exit status 1"))

	results := doctor.NewProber(fc).CheckVersions(context.Background(), snap, []string{"tmux", "git"})
	require.Len(t, results, 1)
	assert.Equal(t, doctor.StatusWarn, results[0].Status)
	assert.Empty(t, fc.Calls[1:], "missing git is not run")
}
