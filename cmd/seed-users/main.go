package main

import (
	"context"
	"fmt"
	"time"

	zlog "github.com/rs/zerolog/log"
	"github.com/stemsi/campusboard/internal/config"
	"github.com/stemsi/campusboard/internal/database"
	"github.com/stemsi/campusboard/internal/logger"
	"github.com/stemsi/campusboard/internal/model"
	"github.com/stemsi/campusboard/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	account    model.Account
	password   string
	fullName   string
	roleTitle  string
	department string
}

var demoUsers = []demoUser{
	{
		account:    model.TeacherAccount{TeacherID: "T-1001"},
		password:   "teacher123",
		fullName:   "Dr. Sarah Mitchell",
		roleTitle:  "Dean of Academics",
		department: "Academic Affairs",
	},
	{
		account:    model.StudentAccount{StudentID: "S-2001"},
		password:   "student123",
		fullName:   "Alex Johnson",
		department: "Computer Science",
	},
}

func main() {
	cfg, err := config.LoadCLI()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	fmt.Println("=== Seeding demo users ===")

	for _, d := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), cfg.BcryptCost)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash password")
		}

		u := &model.User{
			Account:      d.account,
			PasswordHash: string(hash),
			FullName:     d.fullName,
			RoleTitle:    d.roleTitle,
			Department:   d.department,
		}
		if err := userRepo.Upsert(ctx, u); err != nil {
			log.Fatal().Err(err).Str("login_id", d.account.LoginID()).Msg("Failed to seed user")
		}

		fmt.Printf("  %-7s %-7s %s\n", u.Role(), d.account.LoginID(), u.FullName)
	}

	fmt.Println("Done. Demo credentials: T-1001 / teacher123, S-2001 / student123")
}
