// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/piwpisz/bip-go/internal/auth"
)

// Default admin credentials, meant to be changed right after first login.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
)

// Seed creates the initial admin account and baseline site settings. It is
// idempotent: an existing admin user short-circuits the whole routine.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		FirstName:    "Administrator",
		LastName:     "BIP",
		Role:         "admin",
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	settings := []UpsertSettingParams{
		{Key: SettingSiteName, Value: "Biuletyn Informacji Publicznej"},
	}
	for _, s := range settings {
		s.UpdatedBy = sql.NullInt64{Int64: user.ID, Valid: true}
		if err := queries.UpsertSetting(ctx, s); err != nil {
			return fmt.Errorf("seeding setting %s: %w", s.Key, err)
		}
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)

	return nil
}
