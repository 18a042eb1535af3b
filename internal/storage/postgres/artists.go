package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
)

const artistColumns = `id, login, COALESCE(artist_status, ''), commission_rate::text`

type artistStatusPayload struct {
	ArtistID int64              `json:"artist_id"`
	From     model.ArtistStatus `json:"from"`
	To       model.ArtistStatus `json:"to"`
}

func (r *artistRepository) Get(ctx context.Context, artistID int64) (*model.Artist, error) {
	artist, err := scanArtist(r.storage.pool.QueryRow(ctx,
		`SELECT `+artistColumns+` FROM users WHERE id = $1 AND role = 'artist'`, artistID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrArtistNotFound
		}
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return artist, nil
}

func (r *artistRepository) List(ctx context.Context) ([]model.Artist, error) {
	rows, err := r.storage.pool.Query(ctx,
		`SELECT `+artistColumns+` FROM users WHERE role = 'artist' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var artists []model.Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, *artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return artists, nil
}

// UpdateStatus moves the artist to change.Next if the stored status still
// equals change.Expected. Rejection delists every product of the artist.
func (r *artistRepository) UpdateStatus(ctx context.Context, change model.ArtistStatusChange) (*model.Artist, error) {
	var updated *model.Artist
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		artist, err := scanArtist(tx.QueryRow(ctx, `
            UPDATE users SET artist_status = $1
            WHERE id = $2 AND role = 'artist' AND artist_status = $3
            RETURNING `+artistColumns,
			string(change.Next), change.ArtistID, string(change.Expected)))
		if errors.Is(err, pgx.ErrNoRows) {
			return currentArtistStatus(ctx, tx, change.ArtistID)
		}
		if err != nil {
			return fmt.Errorf("update artist status: %w", err)
		}

		if change.Next == model.ArtistStatusRejected {
			if _, err := tx.Exec(ctx, `UPDATE products SET listed = FALSE WHERE artist_id = $1`, change.ArtistID); err != nil {
				return fmt.Errorf("delist products: %w", err)
			}
		}

		if err := enqueue(ctx, tx, model.EventArtistStatusChanged, strconv.FormatInt(change.ArtistID, 10), artistStatusPayload{
			ArtistID: change.ArtistID,
			From:     change.Expected,
			To:       change.Next,
		}); err != nil {
			return err
		}

		updated = artist
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func currentArtistStatus(ctx context.Context, tx pgx.Tx, artistID int64) error {
	var current string
	err := tx.QueryRow(ctx,
		`SELECT COALESCE(artist_status, '') FROM users WHERE id = $1 AND role = 'artist'`, artistID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrArtistNotFound
	}
	if err != nil {
		return fmt.Errorf("read artist status: %w", err)
	}
	return domainErrors.NewConflict(domainErrors.ErrInvalidStatusTransition, current)
}

func (r *artistRepository) SetCommissionRate(ctx context.Context, artistID int64, rate decimal.Decimal) (*model.Artist, error) {
	artist, err := scanArtist(r.storage.pool.QueryRow(ctx, `
        UPDATE users SET commission_rate = $1
        WHERE id = $2 AND role = 'artist'
        RETURNING `+artistColumns, rate.String(), artistID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrArtistNotFound
		}
		return nil, fmt.Errorf("set commission rate: %w", err)
	}
	return artist, nil
}

func scanArtist(row pgx.Row) (*model.Artist, error) {
	var (
		artist model.Artist
		status string
		rate   *string
	)
	if err := row.Scan(&artist.ID, &artist.Login, &status, &rate); err != nil {
		return nil, err
	}
	parsed, err := parseRate(rate)
	if err != nil {
		return nil, err
	}
	artist.Status = model.ArtistStatus(status)
	artist.CommissionRate = parsed
	return &artist, nil
}
