package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"bearcat-ticketing/internal/apperr"
	"bearcat-ticketing/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// GetUserByID reads the current persisted identity record. Privilege checks
// go through here on every call so a revoked role takes effect immediately.
func (d *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to load user", err)
	}
	return &user, nil
}

func (d *DB) CreateUser(ctx context.Context, user *models.User) error {
	_, err := d.Bun.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindTransientStore, "Failed to create user", err)
	}
	return nil
}
