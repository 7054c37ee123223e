// Package memstore provides in-memory UserStore and AnnouncementStore
// doubles for tests. It is not wired into cmd/server.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/stemsi/campusboard/internal/model"
	"github.com/stemsi/campusboard/internal/repository"
)

// Users is an in-memory UserStore keyed by id.
type Users struct {
	mu    sync.RWMutex
	users map[string]*model.User

	// Err, when set, is returned by every lookup.
	Err error
}

// NewUsers creates an empty user store.
func NewUsers() *Users {
	return &Users{users: make(map[string]*model.User)}
}

// Add stores u, assigning an id when it has none.
func (s *Users) Add(u *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.ID] = u
	return u
}

// Delete removes the user with id.
func (s *Users) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *Users) GetByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Users) GetByAccount(_ context.Context, acc model.Account) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		// Account values compare by variant and id, so a teacher id never
		// matches a student account.
		if u.Account == acc {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// Announcements is an in-memory AnnouncementStore.
type Announcements struct {
	mu    sync.Mutex
	items []model.Announcement

	// CreateErr, when set, is returned by Create.
	CreateErr error
	// LastLimit records the limit of the most recent ListRecent call.
	LastLimit int
}

// NewAnnouncements creates an empty announcement store.
func NewAnnouncements() *Announcements {
	return &Announcements{}
}

// Seed stores a without stamping anything.
func (s *Announcements) Seed(a model.Announcement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.items = append(s.items, a)
}

// Len returns the number of stored announcements.
func (s *Announcements) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Announcements) ListRecent(_ context.Context, limit int) ([]model.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastLimit = limit

	out := make([]model.Announcement, len(s.items))
	copy(out, s.items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Announcements) Create(_ context.Context, a *model.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	a.ID = uuid.NewString()
	if a.Attachments == nil {
		a.Attachments = []model.Attachment{}
	}
	s.items = append(s.items, *a)
	return nil
}
