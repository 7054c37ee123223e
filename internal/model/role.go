package model

import (
	"errors"
	"fmt"
)

// Role is one of the two fixed principal kinds.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole converts a raw string into a known Role.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleTeacher, RoleStudent:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// LoginField is the JSON name of the role-scoped login id.
func (r Role) LoginField() string {
	if r == RoleTeacher {
		return "teacherId"
	}
	return "studentId"
}

var (
	ErrEmptyLoginID    = errors.New("login id is empty")
	ErrAccountMismatch = errors.New("exactly one of teacher_id/student_id must be set and match the role")
)

// Account is the role-scoped login identity of a user. It has exactly two
// implementations, so a user always carries one id that matches its role.
type Account interface {
	Role() Role
	LoginID() string
	account()
}

// TeacherAccount identifies a teacher by teacher id.
type TeacherAccount struct {
	TeacherID string
}

func (TeacherAccount) Role() Role        { return RoleTeacher }
func (a TeacherAccount) LoginID() string { return a.TeacherID }
func (TeacherAccount) account()          {}

// StudentAccount identifies a student by student id.
type StudentAccount struct {
	StudentID string
}

func (StudentAccount) Role() Role        { return RoleStudent }
func (a StudentAccount) LoginID() string { return a.StudentID }
func (StudentAccount) account()          {}

// NewTeacherAccount builds a teacher account.
func NewTeacherAccount(teacherID string) (Account, error) {
	if teacherID == "" {
		return nil, ErrEmptyLoginID
	}
	return TeacherAccount{TeacherID: teacherID}, nil
}

// NewStudentAccount builds a student account.
func NewStudentAccount(studentID string) (Account, error) {
	if studentID == "" {
		return nil, ErrEmptyLoginID
	}
	return StudentAccount{StudentID: studentID}, nil
}

// NewAccount builds the account variant for role.
func NewAccount(role Role, loginID string) (Account, error) {
	switch role {
	case RoleTeacher:
		return NewTeacherAccount(loginID)
	case RoleStudent:
		return NewStudentAccount(loginID)
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// AccountFromColumns rebuilds an account from its stored columns. Both id
// columns are nullable; exactly the one matching role must be set.
func AccountFromColumns(role string, teacherID, studentID *string) (Account, error) {
	r, err := ParseRole(role)
	if err != nil {
		return nil, err
	}
	switch r {
	case RoleTeacher:
		if teacherID == nil || studentID != nil {
			return nil, ErrAccountMismatch
		}
		return NewTeacherAccount(*teacherID)
	default:
		if studentID == nil || teacherID != nil {
			return nil, ErrAccountMismatch
		}
		return NewStudentAccount(*studentID)
	}
}

// AccountColumns is the inverse of AccountFromColumns.
func AccountColumns(a Account) (teacherID, studentID *string) {
	switch v := a.(type) {
	case TeacherAccount:
		id := v.TeacherID
		return &id, nil
	case StudentAccount:
		id := v.StudentID
		return nil, &id
	}
	return nil, nil
}
