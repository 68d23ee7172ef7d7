// Package execution runs a single script as a supervised subprocess.
//
// A Session spawns the script directly (no shell), merges stdout and stderr
// into one pipe, and collects the stream in the background. The foreground
// sequence is:
//
//   - Wait for exit, a deadline, or cancellation
//   - Terminate: SIGINT to the process group, grace period, then SIGTERM
//   - Close: reap within one grace period and classify the exit status
//
// On Linux an exited script stays unreaped until Close, so its process group
// id cannot be recycled while Terminate is still signalling it.
//
// A timed-out or cancelled session is always a failure, even when the process
// later exits 0. On timeout the output is frozen and a notice appended.
//
// Background sessions are detached instead: output is discarded and the
// process is reaped whenever it exits.
//
// Captured output is capped (4MB by default); anything beyond the cap is
// dropped and replaced by a single truncation marker.
package execution
