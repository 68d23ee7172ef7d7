//go:build unix

package execution

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookhand/hookhand/internal/log"
)

func TestMain(m *testing.M) {
	log.Setup("error", "json")
	os.Exit(m.Run())
}

func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func start(t *testing.T, path string, args ...string) *Session {
	t.Helper()

	s, err := Start(Spec{
		Path:          path,
		Args:          args,
		Env:           []string{"PATH=/usr/bin:/bin", "GREETING=hello"},
		TimeoutNotice: "---\nTimed out after 1 seconds!\n",
	}, WithGracePeriod(200*time.Millisecond))
	require.NoError(t, err)
	return s
}

func TestRun_Success(t *testing.T) {
	s := start(t, writeScript(t, `echo "$GREETING $@"`), "a", "b")

	res := s.Run(context.Background(), 5*time.Second)

	assert.True(t, res.Success)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, "hello a b\n", res.Output)
	assert.Equal(t, StateClosed, s.State())
}

func TestRun_NonZeroExit(t *testing.T) {
	s := start(t, writeScript(t, "echo failing\nexit 3"))

	res := s.Run(context.Background(), 5*time.Second)

	assert.False(t, res.Success)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "failing\n", res.Output)
}

func TestRun_MergesStderr(t *testing.T) {
	s := start(t, writeScript(t, "echo out\necho err >&2"))

	res := s.Run(context.Background(), 5*time.Second)

	assert.True(t, res.Success)
	assert.Contains(t, res.Output, "out\n")
	assert.Contains(t, res.Output, "err\n")
}

func TestRun_Timeout(t *testing.T) {
	s := start(t, writeScript(t, "echo started\nsleep 10\necho never"))

	began := time.Now()
	res := s.Run(context.Background(), 500*time.Millisecond)

	assert.Less(t, time.Since(began), 3*time.Second)
	assert.False(t, res.Success)
	assert.Equal(t, StateTimedOut, res.State)
	assert.True(t, strings.HasPrefix(res.Output, "started\n"), res.Output)
	assert.True(t, strings.HasSuffix(res.Output, "Timed out after 1 seconds!\n"), res.Output)
	assert.NotContains(t, res.Output, "never")
}

func TestWait_NonPositiveTimeoutExpiresImmediately(t *testing.T) {
	s := start(t, writeScript(t, "sleep 10"))

	state := s.Wait(context.Background(), 0)
	assert.Equal(t, StateTimedOut, state)

	s.Terminate()
	res := s.Close()
	assert.False(t, res.Success)
	assert.Contains(t, res.Output, "Timed out")
}

func TestWait_ContextCancelled(t *testing.T) {
	s := start(t, writeScript(t, "sleep 10"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	res := s.Run(ctx, 5*time.Second)
	assert.Equal(t, StateCancelled, res.State)
	assert.False(t, res.Success)
	assert.NotContains(t, res.Output, "Timed out")
}

func TestCancel(t *testing.T) {
	s := start(t, writeScript(t, "sleep 10"))
	s.Cancel()
	s.Cancel()

	res := s.Run(context.Background(), 5*time.Second)
	assert.Equal(t, StateCancelled, res.State)
	assert.False(t, res.Success)
}

func TestTerminate_ReachesProcessGroup(t *testing.T) {
	// The shell ignores SIGINT; SIGTERM after the grace period still has to
	// take down the shell and its sleeping child.
	s := start(t, writeScript(t, "trap '' INT\nsleep 10 &\nwait"))

	began := time.Now()
	res := s.Run(context.Background(), 200*time.Millisecond)

	assert.False(t, res.Success)
	assert.Less(t, time.Since(began), 3*time.Second)
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("process group was not torn down")
	}
}

func TestDetach(t *testing.T) {
	s := start(t, writeScript(t, "sleep 0.3\necho late"))

	state := s.Wait(context.Background(), 50*time.Millisecond)
	assert.Equal(t, StateTimedOut, state)

	s.Detach()
	assert.Equal(t, StateDetached, s.State())

	select {
	case <-s.Reaped():
	case <-time.After(3 * time.Second):
		t.Fatal("detached process was not reaped")
	}
	assert.NotContains(t, s.Output(), "late")
}

func TestOutputTruncated(t *testing.T) {
	path := writeScript(t, "i=0\nwhile [ $i -lt 200 ]; do echo 0123456789; i=$((i+1)); done")
	s, err := Start(Spec{Path: path, MaxOutputBytes: 64}, WithGracePeriod(200*time.Millisecond))
	require.NoError(t, err)

	res := s.Run(context.Background(), 5*time.Second)

	assert.True(t, res.Success)
	assert.Equal(t, 64+len(truncatedNotice), len(res.Output))
	assert.True(t, strings.HasSuffix(res.Output, truncatedNotice))
}

func TestStart_MissingProgram(t *testing.T) {
	_, err := Start(Spec{Path: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestOutputBuffer(t *testing.T) {
	b := newOutputBuffer(5)

	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = b.Write([]byte("defg"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcde"+truncatedNotice, b.String())

	_, _ = b.Write([]byte("more"))
	assert.Equal(t, "abcde"+truncatedNotice, b.String())

	b.appendNote("!")
	assert.Equal(t, "abcde"+truncatedNotice+"!", b.String())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "timed_out", StateTimedOut.String())
	assert.Equal(t, "detached", StateDetached.String())
	assert.Equal(t, "unknown", State(99).String())
}
