package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (and creates if needed) the SQLite database at path and
// ensures required tables exist. The path must be on a local filesystem.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := requireLocalDisk(path, filesystemType); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.ExecContext(pctx, "PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal_mode: %w", err)
	}
	if err := BootstrapSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// BootstrapSQLite creates tables/indexes if missing.
func BootstrapSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sync_log (
  id          TEXT PRIMARY KEY,
  repository  TEXT NOT NULL,
  action      TEXT NOT NULL,
  revision    TEXT,
  fingerprint TEXT,
  scripts     INTEGER NOT NULL DEFAULT 0,
  duration_ms INTEGER NOT NULL DEFAULT 0,
  synced_at   TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS sync_log_synced_at_idx ON sync_log(synced_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap sqlite: %w", err)
		}
	}
	return nil
}

// remoteFilesystems break SQLite's file locking.
var remoteFilesystems = []string{"afpfs", "cifs", "nfs", "smb2", "smbfs", "webdav"}

// requireLocalDisk rejects a database path on a remote filesystem. The path
// itself may not exist yet, so its closest existing ancestor is inspected.
func requireLocalDisk(path string, fsType func(string) (string, error)) error {
	dir, err := existingAncestor(path)
	if err != nil {
		return err
	}
	kind, err := fsType(dir)
	if err != nil {
		return fmt.Errorf("inspect filesystem of %s: %w", dir, err)
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	for _, remote := range remoteFilesystems {
		if kind == remote {
			return fmt.Errorf("sync ledger %s is on a %s mount; SQLite needs local disk, set state.path to a local file", path, kind)
		}
	}
	return nil
}

func existingAncestor(path string) (string, error) {
	p, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	for {
		_, err := os.Stat(p)
		switch {
		case err == nil:
			return p, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", fmt.Errorf("no existing directory above %s", path)
		}
		p = parent
	}
}
