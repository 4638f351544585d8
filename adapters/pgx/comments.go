package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/marquee/core"
)

// EnsureThread creates the movie's thread if absent. The conflict arm
// is a self-assignment rather than DO NOTHING so the statement always
// returns a row, even when a racing insert commits mid-statement;
// concurrent first comments on the same movie land in the single
// surviving thread.
func (a *Adapter) EnsureThread(ctx context.Context, movieID string) (*core.CommentThread, error) {
	query := `INSERT INTO comment_threads (movie_id)
	          VALUES ($1)
	          ON CONFLICT (movie_id) DO UPDATE SET movie_id = EXCLUDED.movie_id
	          RETURNING id, movie_id, created_at`

	t := &core.CommentThread{}
	err := a.pool.QueryRow(ctx, query, movieID).Scan(&t.ID, &t.MovieID, &t.CreatedAt)
	if err != nil {
		return nil, mapError("ensure thread", err)
	}
	return t, nil
}

func (a *Adapter) AppendComment(ctx context.Context, c *core.Comment) error {
	query := `INSERT INTO comments (thread_id, account_id, display_name, body)
	          SELECT t.id, $2, $3, $4
	          FROM comment_threads t
	          WHERE t.movie_id = $1
	          RETURNING id, posted_at`

	err := a.pool.QueryRow(ctx, query, c.MovieID, c.AccountID, c.DisplayName, c.Body).
		Scan(&c.ID, &c.PostedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrNotFound
		}
		return mapError("append comment", err)
	}
	return nil
}

// ListComments orders by posted_at descending; the monotonically
// increasing seq column breaks ties in insertion order.
func (a *Adapter) ListComments(ctx context.Context, movieID string) ([]core.Comment, error) {
	query := `SELECT c.id, t.movie_id, c.account_id, c.display_name, c.body, c.posted_at
	          FROM comments c
	          JOIN comment_threads t ON t.id = c.thread_id
	          WHERE t.movie_id = $1
	          ORDER BY c.posted_at DESC, c.seq ASC`

	rows, err := a.pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, mapError("list comments", err)
	}
	defer rows.Close()

	var comments []core.Comment
	for rows.Next() {
		var c core.Comment
		if err := rows.Scan(&c.ID, &c.MovieID, &c.AccountID, &c.DisplayName, &c.Body, &c.PostedAt); err != nil {
			return nil, mapError("scan comment", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list comments", err)
	}
	return comments, nil
}

func (a *Adapter) DeleteComment(ctx context.Context, movieID, accountID, commentID string) (bool, error) {
	query := `DELETE FROM comments c
	          USING comment_threads t
	          WHERE c.thread_id = t.id
	            AND t.movie_id = $1
	            AND c.account_id::text = $2
	            AND c.id::text = $3`

	tag, err := a.pool.Exec(ctx, query, movieID, accountID, commentID)
	if err != nil {
		return false, mapError("delete comment", err)
	}
	return tag.RowsAffected() > 0, nil
}
