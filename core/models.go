package core

import "time"

// Account is a registered user of the service.
//
// This is both the "identity" (who someone is) and the "credential"
// (how they prove it): with a single credential provider the two live
// on one record.
type Account struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // argon2id encoded hash, never exposed
	Session   Session   `json:"-"` // current session state, never exposed
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Session is the account's current session credential. It is a tagged
// state: either no active session, or an active session identified by
// the SHA-256 hash of the bearer token. Keeping "no session" outside
// the token-hash value space means a stale sentinel can never
// authenticate.
type Session struct {
	tokenHash string
	active    bool
}

// NoSession is the logged-out state.
func NoSession() Session {
	return Session{}
}

// ActiveSession wraps a stored token hash.
func ActiveSession(tokenHash string) Session {
	return Session{tokenHash: tokenHash, active: true}
}

// Active reports whether the account holds a live session.
func (s Session) Active() bool {
	return s.active
}

// TokenHash returns the stored token hash. The second return value is
// false in the logged-out state.
func (s Session) TokenHash() (string, bool) {
	return s.tokenHash, s.active
}

// WatchlistEntry maps (account, movie) to the account's last known
// "wants to watch" preference. The ledger is a mapping, not a log:
// at most one entry exists per pair.
type WatchlistEntry struct {
	AccountID string    `json:"-"`
	MovieID   string    `json:"movieId"`
	Wanted    bool      `json:"wanted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentThread is the per-movie container for comments. A thread with
// zero comments is valid state; removing the last comment does not
// delete the thread.
type CommentThread struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movieId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a single entry in a movie's thread.
type Comment struct {
	ID          string    `json:"id"`
	MovieID     string    `json:"movieId"`
	AccountID   string    `json:"-"`
	DisplayName string    `json:"displayName"`
	Body        string    `json:"body"`
	PostedAt    time.Time `json:"postedAt"`
}
