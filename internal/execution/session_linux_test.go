package execution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func requireUnreaped(t *testing.T, s *Session) {
	t.Helper()

	select {
	case <-s.Reaped():
		t.Fatal("process was reaped before Close")
	default:
	}
	// A zombie still owns its pid, so signal 0 succeeds.
	require.NoError(t, unix.Kill(s.Pid(), 0))
}

func TestExitedProcessStaysUnreapedUntilClose(t *testing.T) {
	s := start(t, "/bin/true")

	state := s.Wait(context.Background(), 5*time.Second)
	require.Equal(t, StateCompleted, state)
	requireUnreaped(t, s)

	s.Terminate()
	requireUnreaped(t, s)

	res := s.Close()
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.ExitCode)

	select {
	case <-s.Reaped():
	default:
		t.Fatal("Close returned without reaping")
	}
}

func TestDetachReapsExitedProcess(t *testing.T) {
	s := start(t, "/bin/true")

	<-s.Done()
	requireUnreaped(t, s)

	s.Detach()
	select {
	case <-s.Reaped():
	case <-time.After(3 * time.Second):
		t.Fatal("detached process was not reaped")
	}
}
