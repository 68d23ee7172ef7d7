//go:build darwin

package storage

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func filesystemType(dir string) (string, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return "", fmt.Errorf("statfs %s: %w", dir, err)
	}
	return unix.ByteSliceToString(st.Fstypename[:]), nil
}
