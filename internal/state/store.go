// Package state persists the per-environment "do not mutate" flag. Two
// encodings implement the same Store contract: a sentinel file inside the
// environment, and a shared ledger file in the user data dir. Reads never
// mutate, and every call hits the filesystem; there is no cache and no
// locking, so concurrent toggles are last-writer-wins.
package state

// Store is the flag persistence contract shared by both encodings.
type Store interface {
	// IsFlagged reports whether the environment at prefix carries the flag.
	IsFlagged(prefix string) (bool, error)

	// Set flags the environment. Flagging an already-flagged environment is
	// a no-op.
	Set(prefix string) error

	// Clear removes the flag. Clearing an unflagged environment is an
	// IOFailure for the sentinel encoding and a no-op for the ledger.
	Clear(prefix string) error

	// Toggle flips the flag and returns the new state.
	Toggle(prefix string) (bool, error)

	// Flagged enumerates every flagged prefix the store can see on its own,
	// or nil when the encoding cannot enumerate beyond known environments.
	Flagged() ([]string, error)
}
