package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/campusboard/internal/model"
	"github.com/stemsi/campusboard/internal/validator"
)

// dueDateLayouts are tried in order when parsing an optional due date.
var dueDateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// AnnouncementService applies the read/create rules for announcements.
type AnnouncementService struct {
	store    AnnouncementStore
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewAnnouncementService creates a new AnnouncementService. notifier may be
// nil, in which case created announcements are not broadcast.
func NewAnnouncementService(store AnnouncementStore, notifier Notifier, log zerolog.Logger) *AnnouncementService {
	return &AnnouncementService{
		store:    store,
		notifier: notifier,
		log:      log.With().Str("component", "announcement_service").Logger(),
		now:      time.Now,
	}
}

// List returns up to model.MaxAnnouncementList announcements, newest first.
// Anything beyond the cap is not returned.
func (s *AnnouncementService) List(ctx context.Context) ([]model.Announcement, error) {
	items, err := s.store.ListRecent(ctx, model.MaxAnnouncementList)
	if err != nil {
		return nil, err
	}
	if len(items) > model.MaxAnnouncementList {
		items = items[:model.MaxAnnouncementList]
	}

	out := make([]model.Announcement, len(items))
	for i, a := range items {
		out[i] = a.Public()
	}
	return out, nil
}

// Create validates req and stores an announcement authored by author.
// Authorship is taken from author only; the request cannot set it.
func (s *AnnouncementService) Create(ctx context.Context, author *model.Identity, req *model.CreateAnnouncementRequest) (*model.Announcement, error) {
	if author == nil {
		return nil, ErrUnauthenticated
	}
	if author.Role != model.RoleTeacher {
		return nil, ErrForbidden
	}

	a, verr := buildAnnouncement(req)
	if verr != nil {
		return nil, verr
	}

	a.CreatedAt = s.now().UTC()
	a.Author = author.FullName
	a.AuthorRole = author.AuthorTitle()
	a.CreatedBy = author.ID

	if err := s.store.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	s.log.Info().
		Str("announcement_id", a.ID).
		Str("created_by", a.CreatedBy).
		Str("category", string(a.Category)).
		Msg("Announcement created")

	if s.notifier != nil {
		if err := s.notifier.Publish(context.WithoutCancel(ctx), a); err != nil {
			s.log.Warn().Err(err).Str("announcement_id", a.ID).Msg("Feed publish failed")
		}
	}

	return a, nil
}

// buildAnnouncement checks the required fields and normalizes the optional
// ones. Malformed optional fields are dropped rather than rejected.
func buildAnnouncement(req *model.CreateAnnouncementRequest) (*model.Announcement, *ValidationError) {
	fields := map[string]string{}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		fields["title"] = "title is required"
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		fields["content"] = "content is required"
	}
	category := model.Category(req.Category)
	if !category.Valid() {
		fields["category"] = "category must be one of [announcement assignment event urgent]"
	}
	department := strings.TrimSpace(req.Department)
	if department == "" {
		fields["department"] = "department is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return &model.Announcement{
		Title:       title,
		Content:     content,
		Category:    category,
		Department:  department,
		DueDate:     parseDueDate(req.DueDate),
		Attachments: parseAttachments(req.Attachments),
		Image:       parseImage(req.Image),
	}, nil
}

func parseDueDate(raw json.RawMessage) *time.Time {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// parseAttachments keeps the list only when every element is well formed.
func parseAttachments(raw json.RawMessage) []model.Attachment {
	var list []model.Attachment
	if len(raw) == 0 || json.Unmarshal(raw, &list) != nil {
		return []model.Attachment{}
	}
	for i := range list {
		if validator.Struct(&list[i]) != nil {
			return []model.Attachment{}
		}
	}
	if list == nil {
		return []model.Attachment{}
	}
	return list
}

func parseImage(raw json.RawMessage) *string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil || s == "" {
		return nil
	}
	return &s
}
