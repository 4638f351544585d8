package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lborres/marquee/core"
	"github.com/lborres/marquee/pkg/crypto"
)

const (
	identityMinLen = 2
	identityMaxLen = 50
)

// AccountService is the credential store: it owns account creation and
// the explicit password-change path.
type AccountService struct {
	store     core.AccountStorage
	passwords crypto.PasswordHandler
	sessions  *SessionService
}

func NewAccountService(store core.AccountStorage, passwords crypto.PasswordHandler, sessions *SessionService) *AccountService {
	return &AccountService{
		store:     store,
		passwords: passwords,
		sessions:  sessions,
	}
}

// CreateAccountResult is returned from Create. Accounts are born
// logged-in: the fresh session token ships with the account.
type CreateAccountResult struct {
	Account *core.Account `json:"account"`
	Token   string        `json:"token"`
}

// Create registers a new account. The plaintext password is hashed
// exactly once, here, and discarded; identity and email uniqueness is
// enforced by the storage layer.
func (s *AccountService) Create(ctx context.Context, identity, email, password string) (*CreateAccountResult, error) {
	identity = strings.TrimSpace(identity)
	email = strings.TrimSpace(email)

	if err := validateIdentity(identity); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, &core.ValidationError{Field: "email", Message: "is required"}
	}
	if password == "" {
		return nil, &core.ValidationError{Field: "password", Message: "is required"}
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &core.Account{
		Identity: identity,
		Email:    email,
		Password: hash,
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &CreateAccountResult{Account: account, Token: token}, nil
}

// Get returns the account by id.
func (s *AccountService) Get(ctx context.Context, id string) (*core.Account, error) {
	return s.store.GetAccountByID(ctx, id)
}

// UpdateAccountInput carries the optional mutable fields. A nil
// Password means "untouched": the stored hash is recomputed only when
// a new plaintext is actually supplied, never on a plain re-save.
type UpdateAccountInput struct {
	Email    *string
	Password *string
}

// Update applies the supplied fields to the account.
func (s *AccountService) Update(ctx context.Context, id string, in UpdateAccountInput) (*core.Account, error) {
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, &core.ValidationError{Field: "email", Message: "is required"}
		}
		if err := s.store.UpdateEmail(ctx, id, email); err != nil {
			return nil, err
		}
	}

	if in.Password != nil {
		if *in.Password == "" {
			return nil, &core.ValidationError{Field: "password", Message: "is required"}
		}
		hash, err := s.passwords.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.store.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
	}

	return s.store.GetAccountByID(ctx, id)
}

func validateIdentity(identity string) error {
	if identity == "" {
		return &core.ValidationError{Field: "identity", Message: "is required"}
	}
	if n := utf8.RuneCountInString(identity); n < identityMinLen || n > identityMaxLen {
		return &core.ValidationError{
			Field:   "identity",
			Message: fmt.Sprintf("must be between %d and %d characters", identityMinLen, identityMaxLen),
		}
	}
	return nil
}
