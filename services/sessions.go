package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lborres/marquee/core"
	"github.com/lborres/marquee/pkg/crypto"
)

// SessionService issues, verifies, and revokes session tokens. An
// account holds at most one active session: issuing a new token
// replaces (and thereby invalidates) the previous one.
type SessionService struct {
	store       core.AccountStorage
	passwords   crypto.PasswordHandler
	tokenLength int
}

func NewSessionService(store core.AccountStorage, passwords crypto.PasswordHandler) *SessionService {
	return &SessionService{
		store:       store,
		passwords:   passwords,
		tokenLength: crypto.DefaultTokenLength,
	}
}

// WithTokenLength overrides the number of random bytes per token.
// Values below the 128-byte default are ignored.
func (s *SessionService) WithTokenLength(n int) *SessionService {
	if n > crypto.DefaultTokenLength {
		s.tokenLength = n
	}
	return s
}

// Issue mints a fresh token for account, persists its hash as the
// account's session state, and returns the raw token. Any previously
// issued token stops authenticating the moment the new hash lands.
func (s *SessionService) Issue(ctx context.Context, account *core.Account) (string, error) {
	pair, err := crypto.GenerateHashedToken(s.tokenLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	session := core.ActiveSession(pair.Hash)
	if err := s.store.UpdateSession(ctx, account.ID, session); err != nil {
		return "", err
	}
	account.Session = session

	return pair.Token, nil
}

// Login verifies the credentials and rotates the account's session
// token. Unknown identity and wrong password are indistinguishable to
// the caller.
func (s *SessionService) Login(ctx context.Context, identity, password string) (*core.Account, string, error) {
	account, err := s.store.GetAccountByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, "", core.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find account: %w", err)
	}

	valid, err := s.passwords.Verify(password, account.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, "", core.ErrInvalidCredentials
	}

	token, err := s.Issue(ctx, account)
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

// Authenticate resolves a presented token to its account. This is the
// single authorization gate for every protected operation; there is no
// role distinction beyond "is this a valid active session".
func (s *SessionService) Authenticate(ctx context.Context, token string) (*core.Account, error) {
	if token == "" {
		return nil, core.ErrInvalidToken
	}

	account, err := s.store.GetAccountByTokenHash(ctx, crypto.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	// Re-check the returned record in constant time; a storage
	// backend with loose string matching must not widen the gate.
	hash, active := account.Session.TokenHash()
	if !active {
		return nil, core.ErrInvalidToken
	}
	if ok, err := crypto.VerifyToken(token, hash); err != nil || !ok {
		return nil, core.ErrInvalidToken
	}

	return account, nil
}

// Logout authenticates the token and moves the account to the
// logged-out state, invalidating the token for all future calls.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	account, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	if err := s.store.UpdateSession(ctx, account.ID, core.NoSession()); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}
