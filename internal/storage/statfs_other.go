//go:build !darwin && !linux

package storage

// filesystemType cannot tell here; the ledger is assumed to be local.
func filesystemType(string) (string, error) {
	return "", nil
}
