package service

// In-memory fakes for the session-service interfaces. The refresh store
// mirrors the real one's single-record-per-user behavior so the
// session-replacement tests exercise the same semantics.

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/vertramos/eco-reporte/internal/auth"
	"github.com/vertramos/eco-reporte/internal/model"
)

type fakeUserStore struct {
	users  map[uint64]model.User
	nextID uint64
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uint64]model.User), nextID: 1}
	for _, u := range users {
		s.users[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return model.User{}, sql.ErrNoRows
}

func (s *fakeUserStore) FindOrCreateByEmail(ctx context.Context, email, name, picture string) (model.User, error) {
	email = strings.ToLower(email)
	if u, err := s.GetByUsername(ctx, email); err == nil {
		return u, nil
	}
	u := model.User{
		ID:       s.nextID,
		Username: email,
		Name:     name,
		Profile:  picture,
		RoleID:   model.RoleIDUser,
		Role:     model.RoleUser,
		Active:   true,
	}
	s.users[u.ID] = u
	s.nextID++
	return u, nil
}

type fakeRefreshStore struct {
	records map[uint64]model.RefreshToken // one record per user
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{records: make(map[uint64]model.RefreshToken)}
}

func (s *fakeRefreshStore) Replace(_ context.Context, userID uint64, tokenID, ip, userAgent string, expiresAt time.Time) error {
	s.records[userID] = model.RefreshToken{
		TokenID:   tokenID,
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		ExpiresAt: expiresAt,
	}
	return nil
}

func (s *fakeRefreshStore) Find(_ context.Context, tokenID string, userID uint64) (model.RefreshToken, error) {
	if rec, ok := s.records[userID]; ok && rec.TokenID == tokenID {
		return rec, nil
	}
	return model.RefreshToken{}, sql.ErrNoRows
}

func (s *fakeRefreshStore) DeleteByTokenID(_ context.Context, tokenID string) (bool, error) {
	for userID, rec := range s.records {
		if rec.TokenID == tokenID {
			delete(s.records, userID)
			return true, nil
		}
	}
	return false, nil
}

type fakeVerifier struct {
	identity auth.GoogleIdentity
	err      error
}

func (f *fakeVerifier) Verify(context.Context, string) (auth.GoogleIdentity, error) {
	return f.identity, f.err
}
