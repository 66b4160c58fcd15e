package receipt

import "context"

// Store defines the interface for record persistence. It is the sole owner
// of the receipt and user tables; everything else goes through it.
type Store interface {
	// InsertReceipt appends one record and populates its ID. No validation
	// is performed; caller-supplied values pass through unchecked.
	InsertReceipt(ctx context.Context, r *Receipt) error

	// ListReceipts returns all of a user's records in insertion order.
	ListReceipts(ctx context.Context, userID string) ([]Receipt, error)

	// CountReceipts returns the number of records a user has.
	CountReceipts(ctx context.Context, userID string) (int, error)

	// FindUser reports whether a user row matches the exact username and
	// password pair.
	FindUser(ctx context.Context, username, password string) (bool, error)

	// EnsureSeedUser inserts the user unless the username already exists.
	// Reports whether the user was already present.
	EnsureSeedUser(ctx context.Context, username, password string) (bool, error)

	// SeedDemoData generates n synthetic records for the user.
	SeedDemoData(ctx context.Context, userID string, n int) error

	// Close releases the underlying database.
	Close() error
}
