package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/config"
	"github.com/noah-isme/lms-go-api/internal/database"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/security"
	"github.com/noah-isme/lms-go-api/internal/service"
)

// Bootstraps an administrator account. Safe to re-run: an existing username is
// promoted instead of recreated.
func main() {
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	fullName := flag.String("full-name", "Administrator", "admin display name")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	hasher := security.NewHasher()
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	users := repository.NewUserRepository(db)
	auth := service.NewAuthService(users, hasher, tokens, nil, validate, logger)

	ctx := context.Background()

	_, err = auth.Register(ctx, dto.RegisterRequest{
		Username:        *username,
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *password,
		FullName:        *fullName,
		Role:            models.RoleTeacher,
	})
	switch {
	case err == nil:
		log.Printf("created account %q", *username)
	case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
		log.Printf("account %q already exists, promoting", *username)
	default:
		log.Fatalf("failed to create account: %v", err)
	}

	if err := auth.PromoteToAdmin(ctx, *username); err != nil {
		log.Fatalf("failed to promote account: %v", err)
	}

	log.Printf("account %q has admin privileges", *username)
}
