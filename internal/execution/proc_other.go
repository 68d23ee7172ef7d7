//go:build !unix

package execution

import (
	"errors"
	"os"
	"os/exec"
)

var (
	sigInterrupt os.Signal = os.Interrupt
	sigTerminate os.Signal = os.Kill
)

func isolate(*exec.Cmd) {}

func signalGroup(pid int, sig os.Signal) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	if sig == os.Interrupt {
		// Interrupt is not deliverable on every platform; the kill that
		// follows the grace period still tears the process down.
		_ = p.Signal(sig)
		return nil
	}
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
