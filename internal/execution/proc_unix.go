//go:build unix

package execution

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

var (
	sigInterrupt os.Signal = unix.SIGINT
	sigTerminate os.Signal = unix.SIGTERM
)

// isolate puts the child in its own process group so that signals reach any
// helpers it spawned.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalGroup signals the whole process group led by pid. A group that no
// longer exists is not an error.
func signalGroup(pid int, sig os.Signal) error {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return errors.New("unsupported signal")
	}
	err := unix.Kill(-pid, s)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}
