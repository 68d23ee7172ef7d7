// Package provision keeps the scripts directory in sync with a git repository.
//
// A sync runs once per process start (or on demand via `hookhand sync`):
//
//  1. Skip when no repository is configured
//  2. Take the provisioning lock; skip if another instance holds it
//  3. Make sure the netrc file carries the repository credentials
//  4. Pull when the directory is already a clone of the repository,
//     otherwise delete it
//  5. Clone when the directory is missing
//  6. Record revision and tree fingerprint in the sync ledger
//
// Git is invoked directly with fixed argument lists and terminal prompts
// disabled, so a bad credential fails fast instead of hanging.
package provision
