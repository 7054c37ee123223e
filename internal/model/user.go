package model

import "time"

// DefaultTeacherTitle is stamped as authorRole when a teacher has no title.
const DefaultTeacherTitle = "Teacher"

// User represents a principal able to authenticate.
type User struct {
	ID           string
	Account      Account
	PasswordHash string
	FullName     string
	RoleTitle    string
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role returns the role carried by the user's account.
func (u *User) Role() Role {
	return u.Account.Role()
}

// Identity is the request-scoped view of an authenticated user.
type Identity struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	TeacherID  string `json:"teacherId,omitempty"`
	StudentID  string `json:"studentId,omitempty"`
	FullName   string `json:"fullName"`
	RoleTitle  string `json:"roleTitle,omitempty"`
	Department string `json:"department,omitempty"`
}

// Identity projects the user into its request-scoped form.
func (u *User) Identity() *Identity {
	id := &Identity{
		ID:         u.ID,
		Role:       u.Role(),
		FullName:   u.FullName,
		RoleTitle:  u.RoleTitle,
		Department: u.Department,
	}
	switch a := u.Account.(type) {
	case TeacherAccount:
		id.TeacherID = a.TeacherID
	case StudentAccount:
		id.StudentID = a.StudentID
	}
	return id
}

// AuthorTitle is the display title stamped on content the identity creates.
func (i *Identity) AuthorTitle() string {
	if i.RoleTitle != "" {
		return i.RoleTitle
	}
	return DefaultTeacherTitle
}

// UserProfile is the display-safe projection returned on login.
type UserProfile struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	LoginID    string `json:"loginId"`
	FullName   string `json:"fullName"`
	RoleTitle  string `json:"roleTitle,omitempty"`
	Department string `json:"department,omitempty"`
}

// Profile returns the login projection of the user.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:         u.ID,
		Role:       u.Role(),
		LoginID:    u.Account.LoginID(),
		FullName:   u.FullName,
		RoleTitle:  u.RoleTitle,
		Department: u.Department,
	}
}

// LoginRequest is the payload for authentication. Only the id field matching
// role is read.
type LoginRequest struct {
	Role      string `json:"role" binding:"required,oneof=teacher student"`
	TeacherID string `json:"teacherId" binding:"omitempty,max=64"`
	StudentID string `json:"studentId" binding:"omitempty,max=64"`
	Password  string `json:"password" binding:"required,max=128"`
}

// Account resolves the role-scoped account named by the request.
func (r *LoginRequest) Account() (Account, error) {
	role, err := ParseRole(r.Role)
	if err != nil {
		return nil, err
	}
	if role == RoleTeacher {
		return NewTeacherAccount(r.TeacherID)
	}
	return NewStudentAccount(r.StudentID)
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}
