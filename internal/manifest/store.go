package manifest

import "context"

// Store persists snapshots.
type Store interface {
	// Save records s. Saving the same build id twice replaces the record.
	Save(ctx context.Context, s *Snapshot) error

	// Latest returns the most recent snapshot for the given render mode.
	Latest(ctx context.Context, ssr bool) (*Snapshot, error)

	// Get returns the snapshot of one pass.
	Get(ctx context.Context, buildID string) (*Snapshot, error)

	// List returns up to limit snapshots, newest first.
	List(ctx context.Context, limit int) ([]*Snapshot, error)

	// Prune keeps the newest keep snapshots per render mode and removes the rest.
	Prune(ctx context.Context, keep int) (int, error)

	Close() error
}
