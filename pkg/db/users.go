package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of *pgxpool.Pool used by the lookups in this package.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Users reads local account data.
type Users struct {
	db Querier
}

// NewUsers returns a user lookup backed by the "user" table.
func NewUsers(db Querier) *Users {
	return &Users{db: db}
}

// Language returns the preferred language of the local user uid.
func (u *Users) Language(ctx context.Context, uid string) (string, error) {
	if u == nil || u.db == nil {
		return "", ErrUserNotFound
	}

	var lang string
	err := u.db.QueryRow(ctx, `SELECT language FROM "user" WHERE uid = $1`, uid).Scan(&lang)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", errors.Join(ErrQueryFailed, err)
	}
	return lang, nil
}

// ByNickname returns the uid of the local user with the given nickname.
func (u *Users) ByNickname(ctx context.Context, nickname string) (string, error) {
	if u == nil || u.db == nil || nickname == "" {
		return "", ErrUserNotFound
	}

	var uid string
	err := u.db.QueryRow(ctx, `SELECT uid::text FROM "user" WHERE nickname = $1`, nickname).Scan(&uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", errors.Join(ErrQueryFailed, err)
	}
	return uid, nil
}
