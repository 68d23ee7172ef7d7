package provision

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// gitRunner runs git with a fixed argument list.
type gitRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

type execGit struct {
	binary string
	logger *slog.Logger
}

func (g execGit) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// stderr can echo the repository URL, which may embed credentials.
		g.logger.Debug("git failed", "args", args[:1], "stderr", strings.TrimSpace(stderr.String()))
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
