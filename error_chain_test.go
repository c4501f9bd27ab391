package logging

import (
	"fmt"
	"strings"
	"testing"

	smerrors "github.com/Station-Manager/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildErrorChain_WithDetailedAndStd(t *testing.T) {
	inner := smerrors.New("harness.Connect").Msg("dial tcp 127.0.0.1:8080: connect: connection refused")
	middle := smerrors.New("harness.Spawn").Err(inner).Msg("failed to spawn user")
	outer := smerrors.New("harness.Start").Err(middle).Msg("load test failed")

	chain, ops, root, rootOp := buildErrorChain(outer)
	assert.Equal(t, []string{
		"load test failed",
		"failed to spawn user",
		"dial tcp 127.0.0.1:8080: connect: connection refused",
	}, chain)
	assert.Equal(t, []string{"harness.Start", "harness.Spawn", "harness.Connect"}, ops)
	assert.Equal(t, "dial tcp 127.0.0.1:8080: connect: connection refused", root)
	assert.Equal(t, "harness.Connect", rootOp)

	wrapped := fmt.Errorf("wrap: %w", outer)
	chain2, _, root2, _ := buildErrorChain(wrapped)
	assert.True(t, strings.HasPrefix(chain2[0], "wrap:"))
	assert.Equal(t, root, root2)
}

func TestBuildErrorChain_StdWrapperAboveDetailed(t *testing.T) {
	inner := smerrors.New("harness.Connect").Msg("connection refused")
	outer := smerrors.New("harness.Start").Err(inner).Msg("startup failed")
	wrapped := fmt.Errorf("run harness: %w", outer)

	chain, ops, root, rootOp := buildErrorChain(wrapped)
	assert.Equal(t, []string{"run harness: startup failed", "startup failed", "connection refused"}, chain)
	assert.Equal(t, []string{"", "harness.Start", "harness.Connect"}, ops)
	assert.Equal(t, "connection refused", root)
	assert.Equal(t, "harness.Connect", rootOp)

	r, buf := newBufferedRegistry(t)
	r.Logger("harness").ErrorWith().Err(wrapped).Msg("boom")
	out := buf.String()
	assert.Contains(t, out, "run harness: startup failed -> startup failed -> connection refused")
	assert.Contains(t, out, "harness.Connect")
}

func TestBuildErrorChain_StdOnly(t *testing.T) {
	base := fmt.Errorf("disk full")
	err := fmt.Errorf("write log: %w", base)

	chain, ops, root, rootOp := buildErrorChain(err)
	assert.Equal(t, []string{"write log: disk full", "disk full"}, chain)
	assert.Equal(t, []string{"", ""}, ops)
	assert.Equal(t, "disk full", root)
	assert.Empty(t, rootOp)
	assert.Equal(t, "write log: disk full -> disk full", joinChain(chain))
}

func TestBuildErrorChain_Nil(t *testing.T) {
	chain, ops, root, rootOp := buildErrorChain(nil)
	assert.Nil(t, chain)
	assert.Nil(t, ops)
	assert.Empty(t, root)
	assert.Empty(t, rootOp)
	assert.Empty(t, joinChain(nil))
}

func TestEventErr_EmitsChainFields(t *testing.T) {
	r, buf := newBufferedRegistry(t)

	inner := smerrors.New("harness.Connect").Msg("connection refused")
	outer := smerrors.New("harness.Start").Err(inner).Msg("startup failed")

	r.Logger("harness").ErrorWith().Err(outer).Msg("boom")

	line := buf.String()
	require.Contains(t, line, "[ERROR] harness : boom")
	assert.Contains(t, line, "error_history=")
	assert.Contains(t, line, "startup failed -> connection refused")
	assert.Contains(t, line, "error_root_op=harness.Connect")
}

func TestEventErr_PlainErrorHasNoHistory(t *testing.T) {
	r, buf := newBufferedRegistry(t)

	r.Logger("harness").ErrorWith().Err(fmt.Errorf("flat")).Msg("boom")
	r.Logger("harness").ErrorWith().Err(nil).Msg("no error")

	out := buf.String()
	assert.Contains(t, out, "error=flat")
	assert.NotContains(t, out, "error_history")
	assert.NotContains(t, out, "error_root_op")
}
