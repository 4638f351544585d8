package services

import (
	"context"
	"strings"

	"github.com/lborres/marquee/core"
)

// CommentService maintains per-movie comment threads.
type CommentService struct {
	store core.CommentStorage
}

func NewCommentService(store core.CommentStorage) *CommentService {
	return &CommentService{store: store}
}

// Add appends a comment to the movie's thread, creating the thread on
// first use. The timestamp is assigned at acceptance, never taken from
// the client. If the append fails after the thread was created, the
// empty thread is left behind as valid state.
func (s *CommentService) Add(ctx context.Context, movieID, accountID, displayName, body string) (*core.Comment, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return nil, &core.ValidationError{Field: "movieId", Message: "is required"}
	}
	if strings.TrimSpace(body) == "" {
		return nil, &core.ValidationError{Field: "body", Message: "is required"}
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, &core.ValidationError{Field: "displayName", Message: "is required"}
	}

	if _, err := s.store.EnsureThread(ctx, movieID); err != nil {
		return nil, err
	}

	comment := &core.Comment{
		MovieID:     movieID,
		AccountID:   accountID,
		DisplayName: displayName,
		Body:        body,
	}

	if err := s.store.AppendComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// List returns every comment under the movie across owners, most
// recent first. Ties on the timestamp keep insertion order.
func (s *CommentService) List(ctx context.Context, movieID string) ([]core.Comment, error) {
	return s.store.ListComments(ctx, movieID)
}

// Remove deletes exactly the comment matching commentID scoped to
// (movieID, accountID). Returns core.ErrNotFound when no comment
// matched; the transport layer may choose to report that as a no-op
// success.
func (s *CommentService) Remove(ctx context.Context, movieID, accountID, commentID string) error {
	removed, err := s.store.DeleteComment(ctx, movieID, accountID, commentID)
	if err != nil {
		return err
	}
	if !removed {
		return core.ErrNotFound
	}
	return nil
}
