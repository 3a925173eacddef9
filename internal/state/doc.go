// Package state persists per-file processing results in SQLite so repeated
// runs skip files that were already processed with identical content and
// options. Identity is the pair (content SHA-256, options fingerprint); a
// flock-guarded writer lock keeps concurrent invocations from clobbering the
// database.
package state
