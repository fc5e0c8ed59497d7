package config

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"houseshow-backend/models"
	"houseshow-backend/services"
)

type demoUser struct {
	name     string
	email    string
	password string
	role     models.Role
}

var demoUsers = []demoUser{
	{"Admin User", "admin@houseshow.local", "admin12345", models.RoleAdmin},
	{"Demo Artist", "artist@houseshow.local", "artist12345", models.RoleArtist},
	{"Demo Host", "host@houseshow.local", "host12345", models.RoleHost},
}

// SeedDemoUsers creates the demo accounts that don't exist yet.
func SeedDemoUsers(ctx context.Context, users services.UserStore, log *zap.SugaredLogger) error {
	for _, d := range demoUsers {
		_, err := users.GetByEmail(ctx, d.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, services.ErrUserNotFound) {
			return err
		}

		u, err := services.NewUser(d.name, d.email, d.password, d.role)
		if err != nil {
			log.Warnw("failed to hash demo password", "email", d.email, "error", err)
			continue
		}
		if err := users.Create(ctx, u); err != nil && !errors.Is(err, services.ErrEmailTaken) {
			return err
		}
		log.Infow("demo user seeded", "email", d.email, "role", d.role)
	}
	return nil
}
