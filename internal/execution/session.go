package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hookhand/hookhand/internal/log"
)

const (
	// DefaultGracePeriod is the wait between SIGINT and SIGTERM.
	DefaultGracePeriod = 1 * time.Second

	// DefaultMaxOutputBytes caps captured output per session.
	DefaultMaxOutputBytes = 4 * 1024 * 1024
)

// Spec describes the process a session runs.
type Spec struct {
	// Path is the program; it is executed directly, never through a shell.
	Path string
	Args []string
	// Env is the complete environment of the child.
	Env []string
	// TimeoutNotice is appended to the output when the wait deadline passes.
	TimeoutNotice  string
	MaxOutputBytes int64
}

// Result is the outcome of a closed session.
type Result struct {
	State    State
	Success  bool
	ExitCode int
	Output   string
	Duration time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithGracePeriod overrides DefaultGracePeriod.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.grace = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session owns one subprocess and its merged output stream. Every session must
// end in Close or Detach, otherwise the exited process is never reaped.
type Session struct {
	ID string

	spec   Spec
	cmd    *exec.Cmd
	grace  time.Duration
	logger *slog.Logger

	out       *outputBuffer
	pipe      *os.File
	closePipe sync.Once

	mu      sync.Mutex
	state   State
	outcome State
	exited  bool
	waitErr error

	done     chan struct{}
	cancel   chan struct{}
	cancelMu sync.Once

	release     chan struct{}
	releaseOnce sync.Once
	reaped      chan struct{}

	startedAt time.Time
}

// Start spawns spec.Path with spec.Args. Stdout and stderr share one pipe and
// the child gets its own process group.
func Start(spec Spec, opts ...Option) (*Session, error) {
	id := uuid.NewString()
	s := &Session{
		ID:     id,
		spec:   spec,
		grace:  DefaultGracePeriod,
		logger: log.WithSession(id),
		state:  StateSpawned,
		done:    make(chan struct{}),
		cancel:  make(chan struct{}),
		release: make(chan struct{}),
		reaped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	limit := spec.MaxOutputBytes
	if limit <= 0 {
		limit = DefaultMaxOutputBytes
	}
	s.out = newOutputBuffer(limit)

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create output pipe: %w", err)
	}

	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Env = spec.Env
	cmd.Stdout = pw
	cmd.Stderr = pw
	isolate(cmd)

	s.logger.Debug("spawning script", "path", spec.Path, "args", spec.Args)

	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, fmt.Errorf("start %s: %w", spec.Path, err)
	}
	// The child holds its own copy of the write end; EOF arrives once every
	// process sharing it has exited.
	_ = pw.Close()

	s.cmd = cmd
	s.pipe = pr
	s.startedAt = time.Now()
	s.setState(StateRunning)

	go s.collect()

	return s, nil
}

// collect drains the output stream and waits for the process to exit. The
// exited process stays a zombie until Close or Detach allows reaping, so the
// termination signals can never reach a recycled process group.
func (s *Session) collect() {
	_, _ = io.Copy(s.out, s.pipe)
	s.closeOutput()

	if err := waitExited(s.cmd.Process.Pid); err != nil {
		s.logger.Debug("reaping script on exit", "reason", err.Error())
		s.reap()
		close(s.done)
		return
	}
	close(s.done)

	<-s.release
	s.reap()
}

func (s *Session) reap() {
	err := s.cmd.Wait()

	s.mu.Lock()
	s.exited = true
	s.waitErr = err
	detached := s.state == StateDetached
	s.mu.Unlock()
	close(s.reaped)

	if detached {
		s.logger.Info("background script exited",
			"path", s.spec.Path,
			"exit_code", s.cmd.ProcessState.ExitCode(),
			"duration_ms", time.Since(s.startedAt).Milliseconds(),
		)
	}
}

// Pid returns the process id of the script.
func (s *Session) Pid() int {
	return s.cmd.Process.Pid
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once the output stream hit EOF and the process exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Reaped is closed once the exit status has been collected.
func (s *Session) Reaped() <-chan struct{} {
	return s.reaped
}

// Output returns what has been captured so far.
func (s *Session) Output() string {
	return s.out.String()
}

// Cancel makes a pending or future Wait return StateCancelled.
func (s *Session) Cancel() {
	s.cancelMu.Do(func() { close(s.cancel) })
}

// Wait blocks until the process exits, timeout elapses, or the session is
// cancelled through ctx or Cancel. A non-positive timeout expires immediately
// without reading. On timeout the captured output is frozen and the timeout
// notice appended; on cancellation the output is frozen.
func (s *Session) Wait(ctx context.Context, timeout time.Duration) State {
	if timeout <= 0 {
		return s.expire()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.done:
		return s.finish(StateCompleted)
	case <-timer.C:
		return s.expire()
	case <-ctx.Done():
		s.out.freeze()
		return s.finish(StateCancelled)
	case <-s.cancel:
		s.out.freeze()
		return s.finish(StateCancelled)
	}
}

func (s *Session) expire() State {
	s.out.freeze()
	if s.spec.TimeoutNotice != "" {
		s.out.appendNote(s.spec.TimeoutNotice)
	}
	s.logger.Debug("wait deadline passed", "path", s.spec.Path)
	return s.finish(StateTimedOut)
}

func (s *Session) finish(outcome State) State {
	s.mu.Lock()
	s.outcome = outcome
	s.state = outcome
	s.mu.Unlock()
	return outcome
}

// Terminate sends SIGINT to the process group, allows the grace period for a
// clean exit, then sends SIGTERM whether or not the process is still alive.
// It runs after every foreground wait, including successful ones.
func (s *Session) Terminate() {
	s.setState(StateTerminating)

	select {
	case <-s.reaped:
		s.logger.Debug("script already reaped, not signalling", "pid", s.Pid())
		return
	default:
	}

	pid := s.Pid()
	if err := signalGroup(pid, sigInterrupt); err != nil {
		s.logger.Error("failed to send SIGINT", "pid", pid, "error", err)
	}

	grace := time.NewTimer(s.grace)
	defer grace.Stop()

	select {
	case <-s.done:
	case <-grace.C:
		s.logger.Warn("script still running after SIGINT, sending SIGTERM", "pid", pid)
	}

	if err := signalGroup(pid, sigTerminate); err != nil {
		s.logger.Error("failed to send SIGTERM", "pid", pid, "error", err)
	}
}

// Close releases the output stream, reaps the process and classifies the exit
// status. It waits at most one further grace period for the reap; a process
// that ignores both signals is reported as a failure and reaped in the
// background whenever it finally exits.
func (s *Session) Close() Result {
	s.closeOutput()
	s.allowReap()

	reap := time.NewTimer(s.grace)
	defer reap.Stop()

	select {
	case <-s.reaped:
	case <-reap.C:
		s.logger.Warn("script ignored termination signals, leaving it to be reaped later", "pid", s.Pid())
	}

	s.mu.Lock()
	s.state = StateClosed
	outcome, exited, waitErr := s.outcome, s.exited, s.waitErr
	s.mu.Unlock()

	res := Result{
		State:    outcome,
		ExitCode: -1,
		Output:   s.out.String(),
		Duration: time.Since(s.startedAt),
	}

	if exited {
		var exitErr *exec.ExitError
		switch {
		case waitErr == nil:
			res.ExitCode = 0
		case errors.As(waitErr, &exitErr):
			res.ExitCode = exitErr.ExitCode()
		default:
			s.logger.Error("wait for script failed", "error", waitErr)
		}
	}
	res.Success = outcome == StateCompleted && exited && res.ExitCode == 0

	s.logger.Info("script session closed",
		"path", s.spec.Path,
		"outcome", outcome.String(),
		"exit_code", res.ExitCode,
		"success", res.Success,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res
}

// Run is the foreground sequence: Wait, Terminate, Close.
func (s *Session) Run(ctx context.Context, timeout time.Duration) Result {
	s.Wait(ctx, timeout)
	s.Terminate()
	return s.Close()
}

// Detach hands the process off: its output is discarded from now on and the
// process is reaped as soon as it exits. Terminate and Close must not be
// called afterwards.
func (s *Session) Detach() {
	s.out.freeze()
	s.setState(StateDetached)
	s.logger.Info("script detached to background", "path", s.spec.Path, "pid", s.Pid())
	s.allowReap()
}

func (s *Session) allowReap() {
	s.releaseOnce.Do(func() { close(s.release) })
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) closeOutput() {
	s.closePipe.Do(func() {
		_ = s.pipe.Close()
	})
}
