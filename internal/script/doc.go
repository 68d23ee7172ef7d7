// Package script locates dispatchable scripts.
//
// Lookup is a whitelist walk: the scripts directory is scanned and the first
// executable regular file whose basename equals the requested name is used.
// Request input is never turned into a filesystem path, so names such as
// "../../bin/sh" simply fail to match.
//
// Trust rules for a candidate:
//   - it resolves (after symlinks) to a location inside the scripts directory
//   - it is a regular file, never a directory
//   - the real user of the process may execute it
//   - it is not inside a .git directory
package script
