package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"github.com/hookhand/hookhand/internal/config"
	"github.com/hookhand/hookhand/internal/lock"
	"github.com/hookhand/hookhand/internal/log"
	"github.com/hookhand/hookhand/internal/script"
)

var (
	// ErrCloneFailed means git clone exited non-zero.
	ErrCloneFailed = errors.New("cloning scripts repository failed")

	// ErrPullFailed means git pull in an existing clone exited non-zero.
	ErrPullFailed = errors.New("updating scripts repository failed")
)

// Action is what a sync did to the scripts directory.
type Action string

const (
	ActionSkipped Action = "skipped"
	ActionCloned  Action = "cloned"
	ActionPulled  Action = "pulled"
)

// SyncResult describes one provisioning run.
type SyncResult struct {
	ID          string
	Repository  string
	Action      Action
	Reason      string
	Revision    string
	Fingerprint string
	Scripts     int
	Duration    time.Duration
	SyncedAt    time.Time
}

// Syncer provisions the scripts directory from a git repository.
type Syncer struct {
	repo     config.RepositoryConfig
	dir      string
	lockPath string
	ledger   *Ledger
	git      gitRunner
	logger   *slog.Logger
}

// NewSyncer creates a Syncer. ledger may be nil, in which case results are
// not recorded.
func NewSyncer(cfg *config.Config, ledger *Ledger) *Syncer {
	logger := log.WithComponent("provision")
	return &Syncer{
		repo:     cfg.Repository,
		dir:      cfg.Scripts.Dir,
		lockPath: cfg.State.LockPath,
		ledger:   ledger,
		git:      execGit{binary: "git", logger: logger},
		logger:   logger,
	}
}

// Sync brings the scripts directory up to date with the repository.
func (s *Syncer) Sync(ctx context.Context) (*SyncResult, error) {
	started := time.Now()
	res := &SyncResult{
		ID:         uuid.NewString(),
		Repository: s.repo.URL,
		Action:     ActionSkipped,
		SyncedAt:   started,
	}

	if s.repo.URL == "" {
		res.Reason = "no repository configured"
		return res, nil
	}

	fl, err := lock.Acquire(s.lockPath)
	if errors.Is(err, lock.ErrLocked) {
		s.logger.Info("another instance is provisioning, skipping sync", "lock", s.lockPath)
		res.Reason = "provisioning lock held"
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = fl.Release() }()

	if s.repo.Username != "" {
		if err := s.writeCredentials(); err != nil {
			return nil, err
		}
	}

	if err := s.update(ctx, res); err != nil {
		return nil, err
	}

	res.Revision, err = s.git.Run(ctx, s.dir, "rev-parse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("read revision: %w", err)
	}
	res.Fingerprint, err = Fingerprint(s.dir)
	if err != nil {
		return nil, err
	}
	scripts, err := script.NewResolver(s.dir).List()
	if err != nil {
		return nil, err
	}
	res.Scripts = len(scripts)
	res.Duration = time.Since(started)

	s.logger.Info("scripts synced",
		"sync_id", res.ID,
		"action", string(res.Action),
		"revision", res.Revision,
		"scripts", res.Scripts,
		"duration_ms", res.Duration.Milliseconds(),
	)

	if s.ledger != nil {
		if err := s.ledger.Record(ctx, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// update pulls an existing clone of the repository, or replaces whatever is
// in the directory with a fresh clone.
func (s *Syncer) update(ctx context.Context, res *SyncResult) error {
	if _, err := os.Stat(s.dir); err == nil {
		origin, _ := s.git.Run(ctx, s.dir, "config", "--local", "remote.origin.url")
		if origin == s.repo.URL {
			if _, err := s.git.Run(ctx, s.dir, "pull", "--quiet"); err != nil {
				return fmt.Errorf("%w: %v", ErrPullFailed, err)
			}
			res.Action = ActionPulled
			return nil
		}

		s.logger.Warn("scripts directory is not a clone of the repository, replacing it", "dir", s.dir)
		if err := os.RemoveAll(s.dir); err != nil {
			return fmt.Errorf("remove stale scripts directory: %w", err)
		}
	}

	if _, err := s.git.Run(ctx, "", "clone", "--quiet", s.repo.URL, s.dir); err != nil {
		return fmt.Errorf("%w: %v", ErrCloneFailed, err)
	}
	res.Action = ActionCloned
	return nil
}

func (s *Syncer) writeCredentials() error {
	host, err := repositoryHost(s.repo.URL)
	if err != nil {
		return err
	}

	path := s.repo.NetrcPath
	if path == "" {
		if path, err = defaultNetrcPath(); err != nil {
			return err
		}
	}

	changed, err := ensureNetrc(path, netrcLine(host, s.repo.Username, s.repo.Password))
	if err != nil {
		return err
	}
	if changed {
		s.logger.Info("repository credentials written", "netrc", path, "host", host)
	}
	return nil
}

// GitAvailable reports whether a git binary is on PATH.
func GitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}
