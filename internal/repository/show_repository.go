// Package repository contains data access logic for Show domain operations.
// A Show joins one artist and one venue at a start time; reads always join
// both names so views never issue per-row lookups.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/fyyur/internal/model"
)

const showSelect = `SELECT s.id, s.artist_id, s.venue_id, s.start_time,
	a.name, a.image_link, v.name, v.image_link
	FROM shows s
	JOIN artists a ON a.id = s.artist_id
	JOIN venues v  ON v.id = s.venue_id`

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db   *sql.DB
	fold string // SQL function folding names for search
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db, fold: foldExpr(db)}
}


// CreateTx inserts a new show using the provided transaction.  It does not
// commit.  A missing artist or venue surfaces as a constraint violation
// from the store.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error {
	const q = `INSERT INTO shows (artist_id, venue_id, start_time) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.ArtistID, s.VenueID, timeArg(s.StartTime))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// ListAll returns every show ordered by start time.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.Show, error) {
	return r.list(ctx, "")
}

// ListByVenue returns the shows hosted by a venue ordered by start time.
func (r *ShowRepo) ListByVenue(ctx context.Context, venueID int64) ([]model.Show, error) {
	return r.list(ctx, "WHERE s.venue_id = ?", venueID)
}

// ListByArtist returns the shows played by an artist ordered by start time.
func (r *ShowRepo) ListByArtist(ctx context.Context, artistID int64) ([]model.Show, error) {
	return r.list(ctx, "WHERE s.artist_id = ?", artistID)
}

func (r *ShowRepo) list(ctx context.Context, where string, args ...any) ([]model.Show, error) {
	rows, err := r.db.QueryContext(ctx, showSelect+" "+where+" ORDER BY s.start_time ASC, s.id ASC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Show{}
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(
			&s.ID, &s.ArtistID, &s.VenueID, dbTime{&s.StartTime},
			&s.ArtistName, &s.ArtistImageLink, &s.VenueName, &s.VenueImageLink,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
