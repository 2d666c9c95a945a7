package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/stockroomlabs/stockroom-backend/internal/auth"
	"github.com/stockroomlabs/stockroom-backend/pkg/config"
	"github.com/stockroomlabs/stockroom-backend/pkg/db"
	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
	"github.com/stockroomlabs/stockroom-backend/pkg/security"
)

// Seeds the initial admin user from SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD.
// Safe to re-run: an existing admin with the same email is left untouched.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	email := strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL"))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		logg.Error(ctx, "SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required", errors.New("missing seed credentials"))
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	repo := auth.NewRepository(dbClient.DB())

	if existing, err := repo.FindByEmail(ctx, email); err == nil {
		logg.Info(logg.WithAdminEmail(ctx, existing.Email), "admin already seeded")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logg.Error(ctx, "failed to check existing admin", err)
		os.Exit(1)
	}

	hash, err := security.HashPassword(password, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to hash password", err)
		os.Exit(1)
	}

	admin, err := repo.Create(ctx, &models.AdminUser{Email: email, PasswordHash: hash})
	if err != nil {
		logg.Error(ctx, "failed to create admin", err)
		os.Exit(1)
	}

	logg.Info(logg.WithAdminEmail(ctx, admin.Email), "admin seeded")
}
