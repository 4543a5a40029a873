// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for venues. A Venue owns its shows;
// deleting one removes them in the same transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fyyur/internal/model"
)

const venueColumns = `id, name, city, state, address, phone, genres, image_link,
	facebook_link, website, seeking_talent, seeking_description`

// VenueRepo encapsulates all database queries related to venues.  It
// depends on a sql.DB connection which should be configured elsewhere.
type VenueRepo struct {
	db   *sql.DB
	fold string // SQL function folding names for search
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db, fold: foldExpr(db)}
}


func scanVenue(row interface{ Scan(...any) error }) (*model.Venue, error) {
	var (
		v      model.Venue
		genres string
	)
	if err := row.Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Address, &v.Phone, &genres,
		&v.ImageLink, &v.FacebookLink, &v.Website, &v.SeekingTalent, &v.SeekingDescription); err != nil {
		return nil, err
	}
	g, err := decodeGenres(genres)
	if err != nil {
		return nil, err
	}
	v.Genres = g
	return &v, nil
}

func getVenue(ctx context.Context, q Querier, id int64) (*model.Venue, error) {
	row := q.QueryRowContext(ctx, "SELECT "+venueColumns+" FROM venues WHERE id = ?", id)
	v, err := scanVenue(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func listVenues(ctx context.Context, q Querier, where string, args ...any) ([]model.Venue, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+venueColumns+" FROM venues "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a venue by its id.  It returns ErrNotFound if no row is
// found.
func (r *VenueRepo) GetByID(ctx context.Context, id int64) (*model.Venue, error) {
	return getVenue(ctx, r.db, id)
}

// GetByIDTx is GetByID inside the caller's transaction.
func (r *VenueRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Venue, error) {
	return getVenue(ctx, tx, id)
}

// ListAll returns every venue ordered by id.
func (r *VenueRepo) ListAll(ctx context.Context) ([]model.Venue, error) {
	return listVenues(ctx, r.db, "")
}

// SearchByName returns venues whose name contains term, ignoring case.  An
// empty term matches every venue.
func (r *VenueRepo) SearchByName(ctx context.Context, term string) ([]model.Venue, error) {
	return listVenues(ctx, r.db, "WHERE "+nameMatch(r.fold, "name"), containsPattern(term))
}

// CreateTx inserts v using the provided transaction and assigns the
// generated id back to v.  The caller must commit or roll back.
func (r *VenueRepo) CreateTx(ctx context.Context, tx *sql.Tx, v *model.Venue) error {
	genres, err := encodeGenres(v.Genres)
	if err != nil {
		return err
	}
	const q = `INSERT INTO venues (name, city, state, address, phone, genres, image_link,
		facebook_link, website, seeking_talent, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, genres,
		v.ImageLink, v.FacebookLink, v.Website, v.SeekingTalent, v.SeekingDescription)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = id
	return nil
}

// UpdateTx rewrites every column of the venue identified by v.ID.  The row
// must exist; callers load it with GetByIDTx first because MySQL reports
// zero affected rows for an unchanged update.
func (r *VenueRepo) UpdateTx(ctx context.Context, tx *sql.Tx, v *model.Venue) error {
	genres, err := encodeGenres(v.Genres)
	if err != nil {
		return err
	}
	const q = `UPDATE venues SET name = ?, city = ?, state = ?, address = ?, phone = ?, genres = ?,
		image_link = ?, facebook_link = ?, website = ?, seeking_talent = ?, seeking_description = ?
		WHERE id = ?`
	_, err = tx.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, genres,
		v.ImageLink, v.FacebookLink, v.Website, v.SeekingTalent, v.SeekingDescription, v.ID)
	return err
}

// DeleteTx removes a venue and its shows.  If the venue does not exist,
// ErrNotFound is returned and nothing is deleted.
func (r *VenueRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := getVenue(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE venue_id = ?`, id); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	return err
}
