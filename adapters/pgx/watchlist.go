package pgx

import (
	"context"

	"github.com/lborres/marquee/core"
)

// UpsertEntry performs the check-then-create-or-update as one
// statement. ON CONFLICT on the (account_id, movie_id) primary key
// turns a racing double-create into an update; xmax = 0 distinguishes
// a fresh insert from a toggled row.
func (a *Adapter) UpsertEntry(ctx context.Context, e *core.WatchlistEntry) (bool, error) {
	query := `INSERT INTO watchlist_entries (account_id, movie_id, wanted)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (account_id, movie_id)
	          DO UPDATE SET wanted = EXCLUDED.wanted, updated_at = now()
	          RETURNING created_at, updated_at, (xmax = 0) AS inserted`

	var created bool
	err := a.pool.QueryRow(ctx, query, e.AccountID, e.MovieID, e.Wanted).
		Scan(&e.CreatedAt, &e.UpdatedAt, &created)
	if err != nil {
		return false, mapError("upsert watchlist entry", err)
	}
	return created, nil
}

func (a *Adapter) ListWanted(ctx context.Context, accountID string) ([]core.WatchlistEntry, error) {
	query := `SELECT account_id, movie_id, wanted, created_at, updated_at
	          FROM watchlist_entries
	          WHERE account_id::text = $1 AND wanted
	          ORDER BY movie_id`

	rows, err := a.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, mapError("list watchlist", err)
	}
	defer rows.Close()

	var entries []core.WatchlistEntry
	for rows.Next() {
		var e core.WatchlistEntry
		if err := rows.Scan(&e.AccountID, &e.MovieID, &e.Wanted, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, mapError("scan watchlist entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list watchlist", err)
	}
	return entries, nil
}
