package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	zlog "github.com/rs/zerolog/log"
	"github.com/stemsi/campusboard/internal/config"
	"github.com/stemsi/campusboard/internal/database"
	"github.com/stemsi/campusboard/internal/logger"
	"github.com/stemsi/campusboard/internal/model"
	"github.com/stemsi/campusboard/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.LoadCLI()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Invalid configuration")
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	fmt.Println("=== Create or Update User ===")

	role, err := model.ParseRole(prompt("Role (teacher/student): "))
	if err != nil {
		fmt.Println("Error: role must be teacher or student")
		return
	}

	acc, err := model.NewAccount(role, prompt("Enter "+role.LoginField()+": "))
	if err != nil {
		fmt.Println("Error: " + role.LoginField() + " is required")
		return
	}

	name := prompt("Enter Full Name: ")
	if name == "" {
		fmt.Println("Error: Full name is required")
		return
	}

	var title string
	if role == model.RoleTeacher {
		title = prompt("Enter Role Title (default " + model.DefaultTeacherTitle + "): ")
	}
	department := prompt("Enter Department (optional): ")

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	password := string(bytePassword)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	u := &model.User{
		Account:      acc,
		PasswordHash: string(hashedPassword),
		FullName:     name,
		RoleTitle:    title,
		Department:   department,
	}
	if err := userRepo.Upsert(ctx, u); err != nil {
		log.Fatal().Err(err).Msg("Failed to save user")
	}

	fmt.Printf("\nSuccess! %s '%s' (%s) saved with ID: %s\n", role, u.FullName, acc.LoginID(), u.ID)
}
