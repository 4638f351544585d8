package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/marquee/core"
)

func (a *Adapter) CreateAccount(ctx context.Context, acct *core.Account) error {
	query := `INSERT INTO accounts (identity, email, password_hash)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at, updated_at`

	err := a.pool.QueryRow(ctx, query, acct.Identity, acct.Email, acct.Password).
		Scan(&acct.ID, &acct.CreatedAt, &acct.UpdatedAt)
	if err != nil {
		return mapError("create account", err)
	}
	return nil
}

const accountColumns = `id, identity, email, password_hash, session_token_hash, created_at, updated_at`

func scanAccount(row pgx.Row) (*core.Account, error) {
	acct := &core.Account{}
	var tokenHash *string
	err := row.Scan(&acct.ID, &acct.Identity, &acct.Email, &acct.Password, &tokenHash, &acct.CreatedAt, &acct.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tokenHash != nil {
		acct.Session = core.ActiveSession(*tokenHash)
	} else {
		acct.Session = core.NoSession()
	}
	return acct, nil
}

func (a *Adapter) GetAccountByID(ctx context.Context, id string) (*core.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE id::text = $1`

	acct, err := scanAccount(a.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, mapError("get account by id", err)
	}
	return acct, nil
}

func (a *Adapter) GetAccountByIdentity(ctx context.Context, identity string) (*core.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE identity = $1`

	acct, err := scanAccount(a.pool.QueryRow(ctx, q, identity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, mapError("get account by identity", err)
	}
	return acct, nil
}

// GetAccountByTokenHash matches the stored hash exactly. Logged-out
// accounts hold a SQL NULL there, which no presented hash can equal.
func (a *Adapter) GetAccountByTokenHash(ctx context.Context, tokenHash string) (*core.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE session_token_hash = $1`

	acct, err := scanAccount(a.pool.QueryRow(ctx, q, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, mapError("get account by token", err)
	}
	return acct, nil
}

func (a *Adapter) UpdateEmail(ctx context.Context, id, email string) error {
	q := `UPDATE accounts SET email = $1, updated_at = now() WHERE id::text = $2`

	tag, err := a.pool.Exec(ctx, q, email, id)
	if err != nil {
		return mapError("update email", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// UpdatePassword is the only write that touches the hash column.
func (a *Adapter) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	q := `UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id::text = $2`

	tag, err := a.pool.Exec(ctx, q, passwordHash, id)
	if err != nil {
		return mapError("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (a *Adapter) UpdateSession(ctx context.Context, id string, s core.Session) error {
	var tokenHash *string
	if hash, active := s.TokenHash(); active {
		tokenHash = &hash
	}

	q := `UPDATE accounts SET session_token_hash = $1, updated_at = now() WHERE id::text = $2`

	tag, err := a.pool.Exec(ctx, q, tokenHash, id)
	if err != nil {
		return mapError("update session", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
