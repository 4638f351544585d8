// Package marquee wires the movie-state backend together: a credential
// store with session-token authentication, a per-account watchlist
// ledger, and per-movie comment threads.
package marquee

import (
	"errors"

	"github.com/lborres/marquee/core"
	"github.com/lborres/marquee/pkg/crypto"
	"github.com/lborres/marquee/services"
)

// interfaces
type (
	Storage         = core.Storage
	AccountStorage  = core.AccountStorage
	PasswordHandler = crypto.PasswordHandler
)

// domain types
type (
	Account        = core.Account
	Session        = core.Session
	WatchlistEntry = core.WatchlistEntry
	CommentThread  = core.CommentThread
	Comment        = core.Comment
)

// error kinds
type (
	ValidationError = core.ValidationError
	DuplicateError  = core.DuplicateError
	StoreError      = core.StoreError
)

var (
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrInvalidToken       = core.ErrInvalidToken
	ErrNotFound           = core.ErrNotFound
)

// Config errors (server-side configuration)
var (
	ErrDBAdapterRequired   = errors.New("database adapter is required")
	ErrHTTPAdapterRequired = errors.New("http adapter is required")
)

// Constructors & helpers (convenience re-exports)
var (
	NewArgon2 = crypto.NewArgon2
	NoSession = core.NoSession
)

const defaultBasePath = "/api"

// HTTPAdapter binds the service surface onto a transport.
type HTTPAdapter interface {
	RegisterRoutes(m *Marquee) error
}

type Config struct {
	Database Storage

	HTTP HTTPAdapter

	// Optional config
	PasswordHasher crypto.PasswordHandler
	BasePath       string
	TokenBytes     int
}

// Marquee is the assembled application: one service per concern,
// each holding only the storage port it needs.
type Marquee struct {
	Accounts  *services.AccountService
	Sessions  *services.SessionService
	Watchlist *services.WatchlistService
	Comments  *services.CommentService
	BasePath  string
}

func New(config Config) (*Marquee, error) {
	if config.Database == nil {
		return nil, ErrDBAdapterRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewArgon2()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	sessions := services.NewSessionService(config.Database, passwordHasher).
		WithTokenLength(config.TokenBytes)

	m := &Marquee{
		Accounts:  services.NewAccountService(config.Database, passwordHasher, sessions),
		Sessions:  sessions,
		Watchlist: services.NewWatchlistService(config.Database),
		Comments:  services.NewCommentService(config.Database),
		BasePath:  basePath,
	}

	if err := config.HTTP.RegisterRoutes(m); err != nil {
		return nil, err
	}

	return m, nil
}
