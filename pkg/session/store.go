package session

import "context"

// Store is the cache adapter interface. Implementations must keep the
// record and the per-user set in step on every mutation; transient drift
// between the two is repaired by DeleteExpired.
type Store interface {
	// Save writes the record with a TTL derived from its ExpiresAt and
	// adds the ID to the owner's session set. Used for both creation
	// and sliding-expiration refresh.
	Save(ctx context.Context, sess *Session) error

	// Get retrieves a record by ID. Returns ErrNotFound for absent
	// records. Corrupt records are purged and reported as ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes the record and its set membership. Idempotent.
	Delete(ctx context.Context, id string, userID string) error

	// UserSessions returns the live sessions for a user, pruning
	// dangling set entries whose records have already expired.
	UserSessions(ctx context.Context, userID string) ([]*Session, error)

	// DeleteExpired sweeps expired and corrupt records, pruning set
	// memberships, and returns the number of sessions removed.
	DeleteExpired(ctx context.Context) (int, error)
}
