package provision

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// netrcLine is the credential entry git's HTTP transport reads for host.
func netrcLine(host, username, password string) string {
	return fmt.Sprintf("machine %s login %s password %s\n", host, username, password)
}

// repositoryHost returns the host of an http(s) or ssh:// repository URL.
func repositoryHost(repo string) (string, error) {
	u, err := url.Parse(repo)
	if err != nil {
		return "", fmt.Errorf("parse repository url: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("repository url %q has no host", repo)
	}
	return u.Hostname(), nil
}

// ensureNetrc appends line to the netrc file at path unless it is already
// there. A new file is created with mode 0600. It reports whether the file
// changed.
func ensureNetrc(path, line string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read netrc: %w", err)
	}
	if strings.Contains(string(existing), line) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("create netrc directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return false, fmt.Errorf("open netrc: %w", err)
	}
	defer f.Close()

	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		line = "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		return false, fmt.Errorf("write netrc: %w", err)
	}
	return true, nil
}

// defaultNetrcPath is $HOME/.netrc.
func defaultNetrcPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".netrc"), nil
}
