package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
)

const userColumns = `id, login, password_hash, role, COALESCE(artist_status, ''), commission_rate::text,
        street, city, state, zip_code, country, mobile, created_at`

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	row := r.storage.pool.QueryRow(ctx, `
        INSERT INTO users (login, password_hash, role, artist_status)
        VALUES ($1, $2, $3, NULLIF($4, ''))
        RETURNING id, created_at
    `, user.Login, user.PasswordHash, string(user.Role), string(user.ArtistStatus))

	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE login = $1`, login)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*model.User, error) {
	user, err := scanUser(r.storage.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, profile model.Profile) error {
	tag, err := r.storage.pool.Exec(ctx, `
        UPDATE users
        SET street = $1, city = $2, state = $3, zip_code = $4, country = $5, mobile = $6
        WHERE id = $7
    `, profile.Street, profile.City, profile.State, profile.ZipCode, profile.Country, profile.Mobile, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user   model.User
		role   string
		status string
		rate   *string
	)
	if err := row.Scan(
		&user.ID,
		&user.Login,
		&user.PasswordHash,
		&role,
		&status,
		&rate,
		&user.Profile.Street,
		&user.Profile.City,
		&user.Profile.State,
		&user.Profile.ZipCode,
		&user.Profile.Country,
		&user.Profile.Mobile,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := parseRate(rate)
	if err != nil {
		return nil, err
	}
	user.Role = model.Role(role)
	user.ArtistStatus = model.ArtistStatus(status)
	user.CommissionRate = parsed
	return &user, nil
}
