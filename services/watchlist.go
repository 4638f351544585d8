package services

import (
	"context"
	"strings"

	"github.com/lborres/marquee/core"
)

// WatchlistService maintains the per-account movie preference ledger.
type WatchlistService struct {
	store core.WatchlistStorage
}

func NewWatchlistService(store core.WatchlistStorage) *WatchlistService {
	return &WatchlistService{store: store}
}

// SetWanted records the account's preference for a movie. The write is
// an idempotent upsert: the first write for a pair creates the entry
// even when wanted is false, since the ledger models last known
// preference rather than opt-ins; later writes toggle it in place. created
// reports which case occurred, for status-code selection upstream.
func (s *WatchlistService) SetWanted(ctx context.Context, accountID, movieID string, wanted bool) (*core.WatchlistEntry, bool, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return nil, false, &core.ValidationError{Field: "movieId", Message: "is required"}
	}

	entry := &core.WatchlistEntry{
		AccountID: accountID,
		MovieID:   movieID,
		Wanted:    wanted,
	}

	created, err := s.store.UpsertEntry(ctx, entry)
	if err != nil {
		return nil, false, err
	}

	return entry, created, nil
}

// ListWanted returns the account's entries with the flag set.
func (s *WatchlistService) ListWanted(ctx context.Context, accountID string) ([]core.WatchlistEntry, error) {
	return s.store.ListWanted(ctx, accountID)
}
