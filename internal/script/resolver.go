package script

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Descriptor identifies a dispatchable script.
type Descriptor struct {
	Name string
	// Path is absolute and lies inside the scripts directory.
	Path string
	// Rel is Path relative to the symlink-resolved scripts directory.
	Rel string
}

func describe(name, path, root string) Descriptor {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return Descriptor{Name: name, Path: path, Rel: rel}
}

// Resolver finds scripts by basename inside a single directory tree.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	dir string
}

// NewResolver creates a resolver rooted at dir.
func NewResolver(dir string) *Resolver {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &Resolver{dir: dir}
}

// Dir returns the absolute scripts directory.
func (r *Resolver) Dir() string {
	return r.dir
}

// Exists reports whether the scripts directory is present.
func (r *Resolver) Exists() bool {
	info, err := os.Stat(r.dir)
	return err == nil && info.IsDir()
}

// Resolve returns the first executable regular file in the tree whose basename
// equals name. The name is only ever compared against walked entries; it is
// never joined into a path. The walk starts at the symlink-resolved directory,
// so returned paths are relative to that root.
func (r *Resolver) Resolve(name string) (*Descriptor, bool) {
	if !validName(name) {
		return nil, false
	}

	root, err := filepath.EvalSymlinks(r.dir)
	if err != nil {
		return nil, false
	}

	var found *Descriptor
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are skipped rather than failing the lookup.
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() != name {
			return nil
		}
		if err := checkCandidate(path, root); err != nil {
			return nil
		}
		desc := describe(name, path, root)
		found = &desc
		return fs.SkipAll
	})
	if err != nil {
		return nil, false
	}
	return found, found != nil
}

// List returns every dispatchable script in walk order. Names shadowed by an
// earlier match are omitted since Resolve would never return them.
func (r *Resolver) List() ([]Descriptor, error) {
	if !r.Exists() {
		return nil, fmt.Errorf("scripts directory does not exist: %s", r.dir)
	}
	root, err := filepath.EvalSymlinks(r.dir)
	if err != nil {
		return nil, fmt.Errorf("resolve scripts directory: %w", err)
	}

	var scripts []Descriptor
	seen := make(map[string]struct{})
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}
		if _, dup := seen[d.Name()]; dup {
			return nil
		}
		if err := checkCandidate(path, root); err != nil {
			return nil
		}
		seen[d.Name()] = struct{}{}
		scripts = append(scripts, describe(d.Name(), path, root))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan scripts directory %s: %w", r.dir, err)
	}
	return scripts, nil
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

// checkCandidate enforces the trust rules for a walked entry: it must resolve
// to a regular file inside root that the real user may execute.
func checkCandidate(path, root string) error {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("resolve symlink: %w", err)
	}
	if !strings.HasPrefix(resolved, root+string(os.PathSeparator)) {
		return fmt.Errorf("%s is not under scripts directory %s", resolved, root)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", resolved)
	}
	if !executable(resolved, info) {
		return fmt.Errorf("%s is not executable", resolved)
	}
	return nil
}
