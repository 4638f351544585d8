package core

import "context"

// Ports define interfaces for external dependencies. Services receive
// the port they need as a constructor argument; nothing reaches for
// process-wide state.

// AccountStorage defines account-related database operations.
//
// There is deliberately no whole-record save: the password hash column
// has exactly one writer (UpdatePassword), so re-saving an account can
// never re-hash an already-hashed value.
type AccountStorage interface {
	// CreateAccount persists a new account and fills in ID and
	// timestamps. Returns *DuplicateError when identity or email is
	// already taken.
	CreateAccount(ctx context.Context, a *Account) error

	GetAccountByID(ctx context.Context, id string) (*Account, error)
	GetAccountByIdentity(ctx context.Context, identity string) (*Account, error)
	// GetAccountByTokenHash resolves an active session by exact match
	// on the stored token hash. Logged-out accounts never match.
	GetAccountByTokenHash(ctx context.Context, tokenHash string) (*Account, error)

	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateSession(ctx context.Context, id string, s Session) error
}

// WatchlistStorage defines the watchlist ledger operations.
type WatchlistStorage interface {
	// UpsertEntry atomically creates or updates the entry for
	// (e.AccountID, e.MovieID), refreshing e in place. The storage
	// layer must make the check-then-write indivisible; racing writes
	// for the same pair must collapse into one row. created reports
	// whether a new row was inserted.
	UpsertEntry(ctx context.Context, e *WatchlistEntry) (created bool, err error)

	// ListWanted returns the entries with Wanted set, in an order that
	// is stable within a single read.
	ListWanted(ctx context.Context, accountID string) ([]WatchlistEntry, error)
}

// CommentStorage defines the comment ledger operations.
type CommentStorage interface {
	// EnsureThread returns the movie's thread, creating it atomically
	// if absent. Racing creates for the same movie must yield the same
	// thread.
	EnsureThread(ctx context.Context, movieID string) (*CommentThread, error)

	// AppendComment adds c to its movie's thread, filling in ID and
	// PostedAt.
	AppendComment(ctx context.Context, c *Comment) error

	// ListComments flattens the movie's thread across owners, newest
	// first; comments with identical timestamps keep insertion order.
	ListComments(ctx context.Context, movieID string) ([]Comment, error)

	// DeleteComment removes the comment matching id scoped to
	// (movieID, accountID). removed reports whether a row actually
	// went away.
	DeleteComment(ctx context.Context, movieID, accountID, commentID string) (removed bool, err error)
}

// Storage is the full persistence surface handed to New.
type Storage interface {
	AccountStorage
	WatchlistStorage
	CommentStorage
}
