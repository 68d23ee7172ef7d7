//go:build !linux

package execution

import "errors"

var errNoExitWatch = errors.New("waiting without reaping is not supported on this platform")

// waitExited always fails here, so the collector reaps the process as soon as
// its output ends and Terminate skips signalling a reaped group.
func waitExited(int) error {
	return errNoExitWatch
}
