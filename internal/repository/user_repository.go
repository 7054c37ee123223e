package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/campusboard/internal/model"
)

// ErrUserNotFound is returned when no user matches a lookup.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, role, teacher_id, student_id, password_hash, full_name, role_title, department, created_at, updated_at`

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by ID. Malformed ids are reported as not found.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uid)
	return scanUser(row)
}

// GetByAccount retrieves a user by role and role-scoped login id. A teacher id
// is only ever compared against teacher_id, and a student id against
// student_id.
func (r *UserRepository) GetByAccount(ctx context.Context, acc model.Account) (*model.User, error) {
	var query string
	switch acc.(type) {
	case model.TeacherAccount:
		query = `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND teacher_id = $2`
	case model.StudentAccount:
		query = `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND student_id = $2`
	default:
		return nil, ErrUserNotFound
	}
	row := r.pool.QueryRow(ctx, query, string(acc.Role()), acc.LoginID())
	return scanUser(row)
}

// Upsert creates or replaces the user identified by its account. On insert a
// new id is assigned; on conflict the existing id is kept.
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) error {
	teacherID, studentID := model.AccountColumns(u.Account)

	conflict := "teacher_id"
	if studentID != nil {
		conflict = "student_id"
	}

	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, role, teacher_id, student_id, password_hash, full_name, role_title, department)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (`+conflict+`) DO UPDATE SET
		   password_hash = EXCLUDED.password_hash,
		   full_name     = EXCLUDED.full_name,
		   role_title    = EXCLUDED.role_title,
		   department    = EXCLUDED.department,
		   updated_at    = NOW()
		 RETURNING id, created_at, updated_at`,
		uuid.New(), string(u.Role()), teacherID, studentID, u.PasswordHash, u.FullName,
		nullable(u.RoleTitle), nullable(u.Department),
	).Scan(&id, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	u.ID = id.String()
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u                    model.User
		id                   uuid.UUID
		role                 string
		teacherID, studentID *string
		roleTitle, dept      *string
	)
	err := row.Scan(&id, &role, &teacherID, &studentID, &u.PasswordHash, &u.FullName, &roleTitle, &dept, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	acc, err := model.AccountFromColumns(role, teacherID, studentID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, err)
	}

	u.ID = id.String()
	u.Account = acc
	u.RoleTitle = deref(roleTitle)
	u.Department = deref(dept)
	return &u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
