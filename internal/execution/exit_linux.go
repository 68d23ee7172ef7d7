//go:build linux

package execution

import (
	"errors"

	"golang.org/x/sys/unix"
)

// waitExited blocks until pid has exited but leaves it unreaped. The zombie
// keeps the pid and its process group id reserved until cmd.Wait runs.
func waitExited(pid int) error {
	for {
		var info unix.Siginfo
		err := unix.Waitid(unix.P_PID, pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
