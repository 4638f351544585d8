package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lborres/marquee/core"
)

// FakeStore is a test-only, mutex-guarded implementation of
// core.Storage. It enforces the same uniqueness rules as the Postgres
// adapter and exposes error fields for behavior injection.
type FakeStore struct {
	mu       sync.RWMutex
	accounts map[string]*core.Account        // by id
	entries  map[string]*core.WatchlistEntry // by accountID + "/" + movieID
	threads  map[string]*core.CommentThread  // by movieID
	comments []*core.Comment                 // insertion order preserved

	// error injection
	CreateErr error
	GetErr    error
	UpdateErr error
	UpsertErr error

	// Now overrides the clock used for comment timestamps, so tests
	// can force ties.
	Now func() time.Time
}

var _ core.Storage = (*FakeStore)(nil)

func NewFakeStore() *FakeStore {
	return &FakeStore{
		accounts: make(map[string]*core.Account),
		entries:  make(map[string]*core.WatchlistEntry),
		threads:  make(map[string]*core.CommentThread),
		Now:      time.Now,
	}
}

func (f *FakeStore) CreateAccount(ctx context.Context, a *core.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateErr != nil {
		return f.CreateErr
	}

	for _, existing := range f.accounts {
		if existing.Identity == a.Identity {
			return &core.DuplicateError{Field: "identity"}
		}
		if existing.Email == a.Email {
			return &core.DuplicateError{Field: "email"}
		}
	}

	now := f.Now()
	a.ID = uuid.New().String()
	a.CreatedAt = now
	a.UpdatedAt = now

	stored := *a
	f.accounts[a.ID] = &stored
	return nil
}

func (f *FakeStore) GetAccountByID(ctx context.Context, id string) (*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}

	a, ok := f.accounts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *FakeStore) GetAccountByIdentity(ctx context.Context, identity string) (*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}

	for _, a := range f.accounts {
		if a.Identity == identity {
			copied := *a
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *FakeStore) GetAccountByTokenHash(ctx context.Context, tokenHash string) (*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}

	for _, a := range f.accounts {
		if hash, active := a.Session.TokenHash(); active && hash == tokenHash {
			copied := *a
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *FakeStore) UpdateEmail(ctx context.Context, id, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UpdateErr != nil {
		return f.UpdateErr
	}

	a, ok := f.accounts[id]
	if !ok {
		return core.ErrNotFound
	}
	for otherID, other := range f.accounts {
		if otherID != id && other.Email == email {
			return &core.DuplicateError{Field: "email"}
		}
	}
	a.Email = email
	a.UpdatedAt = f.Now()
	return nil
}

func (f *FakeStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UpdateErr != nil {
		return f.UpdateErr
	}

	a, ok := f.accounts[id]
	if !ok {
		return core.ErrNotFound
	}
	a.Password = passwordHash
	a.UpdatedAt = f.Now()
	return nil
}

func (f *FakeStore) UpdateSession(ctx context.Context, id string, s core.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UpdateErr != nil {
		return f.UpdateErr
	}

	a, ok := f.accounts[id]
	if !ok {
		return core.ErrNotFound
	}
	a.Session = s
	a.UpdatedAt = f.Now()
	return nil
}

func (f *FakeStore) UpsertEntry(ctx context.Context, e *core.WatchlistEntry) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UpsertErr != nil {
		return false, f.UpsertErr
	}

	key := e.AccountID + "/" + e.MovieID
	now := f.Now()

	if existing, ok := f.entries[key]; ok {
		existing.Wanted = e.Wanted
		existing.UpdatedAt = now
		*e = *existing
		return false, nil
	}

	e.CreatedAt = now
	e.UpdatedAt = now
	stored := *e
	f.entries[key] = &stored
	return true, nil
}

func (f *FakeStore) ListWanted(ctx context.Context, accountID string) ([]core.WatchlistEntry, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}

	var result []core.WatchlistEntry
	for _, e := range f.entries {
		if e.AccountID == accountID && e.Wanted {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MovieID < result[j].MovieID })
	return result, nil
}

func (f *FakeStore) EnsureThread(ctx context.Context, movieID string) (*core.CommentThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UpsertErr != nil {
		return nil, f.UpsertErr
	}

	if t, ok := f.threads[movieID]; ok {
		copied := *t
		return &copied, nil
	}

	t := &core.CommentThread{
		ID:        uuid.New().String(),
		MovieID:   movieID,
		CreatedAt: f.Now(),
	}
	f.threads[movieID] = t
	copied := *t
	return &copied, nil
}

func (f *FakeStore) AppendComment(ctx context.Context, c *core.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateErr != nil {
		return f.CreateErr
	}

	if _, ok := f.threads[c.MovieID]; !ok {
		return core.ErrNotFound
	}

	c.ID = uuid.New().String()
	c.PostedAt = f.Now()
	stored := *c
	f.comments = append(f.comments, &stored)
	return nil
}

func (f *FakeStore) ListComments(ctx context.Context, movieID string) ([]core.Comment, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}

	var result []core.Comment
	for _, c := range f.comments {
		if c.MovieID == movieID {
			result = append(result, *c)
		}
	}
	// Stable: equal timestamps keep insertion order.
	sort.SliceStable(result, func(i, j int) bool { return result[i].PostedAt.After(result[j].PostedAt) })
	return result, nil
}

func (f *FakeStore) DeleteComment(ctx context.Context, movieID, accountID, commentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UpdateErr != nil {
		return false, f.UpdateErr
	}

	for i, c := range f.comments {
		if c.ID == commentID && c.MovieID == movieID && c.AccountID == accountID {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ThreadCount reports how many threads exist; used to assert that
// removing the last comment does not delete its thread.
func (f *FakeStore) ThreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.threads)
}
