package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/campusboard/internal/model"
)

// AnnouncementRepository handles announcement data access.
type AnnouncementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository creates a new AnnouncementRepository.
func NewAnnouncementRepository(pool *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{pool: pool}
}

// ListRecent returns at most limit announcements, newest first.
func (r *AnnouncementRepository) ListRecent(ctx context.Context, limit int) ([]model.Announcement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, content, category, department, created_at, due_date, attachments, image, author, author_role, created_by
		 FROM announcements
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	announcements := make([]model.Announcement, 0, limit)
	for rows.Next() {
		var (
			a         model.Announcement
			id, owner uuid.UUID
		)
		if err := rows.Scan(&id, &a.Title, &a.Content, &a.Category, &a.Department, &a.CreatedAt,
			&a.DueDate, &a.Attachments, &a.Image, &a.Author, &a.AuthorRole, &owner); err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		a.ID = id.String()
		a.CreatedBy = owner.String()
		if a.Attachments == nil {
			a.Attachments = []model.Attachment{}
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

// Create inserts a fully stamped announcement in a single statement and
// assigns its ID.
func (r *AnnouncementRepository) Create(ctx context.Context, a *model.Announcement) error {
	owner, err := uuid.Parse(a.CreatedBy)
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}
	attachments := a.Attachments
	if attachments == nil {
		attachments = []model.Attachment{}
	}

	id := uuid.New()
	_, err = r.pool.Exec(ctx,
		`INSERT INTO announcements (id, title, content, category, department, created_at, due_date, attachments, image, author, author_role, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, a.Title, a.Content, string(a.Category), a.Department, a.CreatedAt, a.DueDate,
		attachments, a.Image, a.Author, a.AuthorRole, owner,
	)
	if err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}
	a.ID = id.String()
	a.Attachments = attachments
	return nil
}
