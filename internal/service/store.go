package service

import (
	"context"

	"github.com/stemsi/campusboard/internal/model"
)

// UserStore is the credential store consulted by login and identity
// resolution. Implementations return repository.ErrUserNotFound for lookups
// that match nothing.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByAccount(ctx context.Context, acc model.Account) (*model.User, error)
}

// AnnouncementStore persists announcements.
type AnnouncementStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.Announcement, error)
	Create(ctx context.Context, a *model.Announcement) error
}

// Notifier is told about announcements after they are stored.
type Notifier interface {
	Publish(ctx context.Context, a *model.Announcement) error
}
