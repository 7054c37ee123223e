package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/campusboard/internal/config"
	"github.com/stemsi/campusboard/internal/memstore"
	"github.com/stemsi/campusboard/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTestAuth(t *testing.T) (*AuthService, *memstore.Users) {
	t.Helper()
	users := memstore.NewUsers()
	svc, err := NewAuthService(&config.Config{
		JWTSecret:  testSecret,
		JWTExpiry:  7 * 24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, users, zerolog.Nop())
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc, users
}

func addUser(t *testing.T, svc *AuthService, users *memstore.Users, acc model.Account, password, name, title string) *model.User {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return users.Add(&model.User{Account: acc, PasswordHash: hash, FullName: name, RoleTitle: title})
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService(&config.Config{}, memstore.NewUsers(), zerolog.Nop())
	if !errors.Is(err, config.ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	svc, _ := newTestAuth(t)
	hash, err := svc.HashPassword("teacher123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !svc.VerifyPassword("teacher123", hash) {
		t.Fatal("expected password to match")
	}
	if svc.VerifyPassword("wrong", hash) {
		t.Fatal("expected mismatch")
	}
	if svc.VerifyPassword("teacher123", "not-a-hash") {
		t.Fatal("expected malformed hash to mismatch")
	}
}

func TestLoginSuccessEmbedsStoredRole(t *testing.T) {
	svc, users := newTestAuth(t)
	teacher := addUser(t, svc, users, model.TeacherAccount{TeacherID: "T-1001"}, "teacher123", "Dr. Sarah Mitchell", "Dean of Academics")
	student := addUser(t, svc, users, model.StudentAccount{StudentID: "S-2001"}, "student123", "Alex Johnson", "")

	cases := []struct {
		acc      model.Account
		password string
		want     *model.User
	}{
		{model.TeacherAccount{TeacherID: "T-1001"}, "teacher123", teacher},
		{model.StudentAccount{StudentID: "S-2001"}, "student123", student},
	}
	for _, tc := range cases {
		res, err := svc.Login(context.Background(), tc.acc, tc.password)
		if err != nil {
			t.Fatalf("login %s: %v", tc.acc.LoginID(), err)
		}
		claims, err := svc.ValidateToken(res.Token)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if claims.Role != tc.want.Role() || claims.Subject != tc.want.ID {
			t.Fatalf("claims %s/%s, want %s/%s", claims.Subject, claims.Role, tc.want.ID, tc.want.Role())
		}
		if res.User.LoginID != tc.acc.LoginID() || res.User.ID != tc.want.ID {
			t.Fatalf("unexpected profile: %+v", res.User)
		}
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, users := newTestAuth(t)
	addUser(t, svc, users, model.TeacherAccount{TeacherID: "T-1001"}, "teacher123", "Dr. Sarah Mitchell", "")

	_, wrongPassword := svc.Login(context.Background(), model.TeacherAccount{TeacherID: "T-1001"}, "wrong")
	_, unknownID := svc.Login(context.Background(), model.TeacherAccount{TeacherID: "T-9999"}, "teacher123")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) || !errors.Is(unknownID, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials twice, got %v / %v", wrongPassword, unknownID)
	}
	if wrongPassword.Error() != unknownID.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPassword, unknownID)
	}
}

func TestLoginIsRoleScoped(t *testing.T) {
	svc, users := newTestAuth(t)
	addUser(t, svc, users, model.TeacherAccount{TeacherID: "X-1"}, "pw", "Teacher", "")

	_, err := svc.Login(context.Background(), model.StudentAccount{StudentID: "X-1"}, "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("teacher id must not match a student login, got %v", err)
	}
}

func TestLoginPropagatesStoreErrors(t *testing.T) {
	svc, users := newTestAuth(t)
	users.Err = errors.New("connection refused")

	_, err := svc.Login(context.Background(), model.TeacherAccount{TeacherID: "T-1"}, "pw")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc, users := newTestAuth(t)
	u := addUser(t, svc, users, model.StudentAccount{StudentID: "S-1"}, "pw", "Student", "")

	svc.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	token, err := svc.IssueToken(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	svc.now = time.Now

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected expired token to be invalid, got %v", err)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, users := newTestAuth(t)
	u := addUser(t, svc, users, model.StudentAccount{StudentID: "S-1"}, "pw", "Student", "")
	token, err := svc.IssueToken(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other, err := NewAuthService(&config.Config{JWTSecret: "other-secret", BcryptCost: bcrypt.MinCost}, users, zerolog.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected foreign signature to be invalid, got %v", err)
	}

	parts := strings.Split(token, ".")
	forged := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := svc.ValidateToken(forged); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected modified payload to be invalid, got %v", err)
	}

	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected malformed token to be invalid, got %v", err)
	}
}

func TestValidateTokenRejectsNoneAlgorithm(t *testing.T) {
	svc, _ := newTestAuth(t)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "someone",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: model.RoleTeacher,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected alg=none token to be invalid, got %v", err)
	}
}

func TestValidateTokenRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestAuth(t)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "someone",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected unknown role to be invalid, got %v", err)
	}
}

func TestAuthenticateDeletedUser(t *testing.T) {
	svc, users := newTestAuth(t)
	u := addUser(t, svc, users, model.TeacherAccount{TeacherID: "T-1"}, "pw", "Teacher", "")
	token, err := svc.IssueToken(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id.ID != u.ID || id.Role != model.RoleTeacher || id.TeacherID != "T-1" || id.StudentID != "" {
		t.Fatalf("unexpected identity: %+v", id)
	}

	users.Delete(u.ID)
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after delete, got %v", err)
	}
}

func TestConcurrentLogins(t *testing.T) {
	svc, users := newTestAuth(t)
	addUser(t, svc, users, model.TeacherAccount{TeacherID: "T-1"}, "teacher", "Teacher", "")
	addUser(t, svc, users, model.StudentAccount{StudentID: "S-1"}, "student", "Student", "")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Login(context.Background(), model.TeacherAccount{TeacherID: "T-1"}, "teacher")
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Login(context.Background(), model.StudentAccount{StudentID: "S-1"}, "wrong")
			if errors.Is(err, ErrInvalidCredentials) {
				err = nil
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}
