package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fyyur/internal/model"
)

const artistColumns = `id, name, city, state, phone, genres, image_link,
	facebook_link, website, seeking_venue, seeking_description`

// ArtistRepo manages persistence for artists.
type ArtistRepo struct {
	db   *sql.DB
	fold string // SQL function folding names for search
}

// NewArtistRepo constructs an ArtistRepo with the given DB handle.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db, fold: foldExpr(db)}
}


func scanArtist(row interface{ Scan(...any) error }) (*model.Artist, error) {
	var (
		a      model.Artist
		genres string
	)
	if err := row.Scan(&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &genres,
		&a.ImageLink, &a.FacebookLink, &a.Website, &a.SeekingVenue, &a.SeekingDescription); err != nil {
		return nil, err
	}
	g, err := decodeGenres(genres)
	if err != nil {
		return nil, err
	}
	a.Genres = g
	return &a, nil
}

func getArtist(ctx context.Context, q Querier, id int64) (*model.Artist, error) {
	a, err := scanArtist(q.QueryRowContext(ctx, "SELECT "+artistColumns+" FROM artists WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func listArtists(ctx context.Context, q Querier, where string, args ...any) ([]model.Artist, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+artistColumns+" FROM artists "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Artist{}
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves an artist by id.  It returns ErrNotFound if there is no
// matching row.
func (r *ArtistRepo) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	return getArtist(ctx, r.db, id)
}

// GetByIDTx is GetByID inside the caller's transaction.
func (r *ArtistRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Artist, error) {
	return getArtist(ctx, tx, id)
}

// ListAll returns every artist ordered by id.
func (r *ArtistRepo) ListAll(ctx context.Context) ([]model.Artist, error) {
	return listArtists(ctx, r.db, "")
}

// SearchByName returns artists whose name contains term, ignoring case.
func (r *ArtistRepo) SearchByName(ctx context.Context, term string) ([]model.Artist, error) {
	return listArtists(ctx, r.db, "WHERE "+nameMatch(r.fold, "name"), containsPattern(term))
}

// CreateTx inserts a using the provided transaction and assigns the
// generated id.
func (r *ArtistRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Artist) error {
	genres, err := encodeGenres(a.Genres)
	if err != nil {
		return err
	}
	const q = `INSERT INTO artists (name, city, state, phone, genres, image_link,
		facebook_link, website, seeking_venue, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, genres,
		a.ImageLink, a.FacebookLink, a.Website, a.SeekingVenue, a.SeekingDescription)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// UpdateTx rewrites every column of the artist identified by a.ID.
func (r *ArtistRepo) UpdateTx(ctx context.Context, tx *sql.Tx, a *model.Artist) error {
	genres, err := encodeGenres(a.Genres)
	if err != nil {
		return err
	}
	const q = `UPDATE artists SET name = ?, city = ?, state = ?, phone = ?, genres = ?,
		image_link = ?, facebook_link = ?, website = ?, seeking_venue = ?, seeking_description = ?
		WHERE id = ?`
	_, err = tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, genres,
		a.ImageLink, a.FacebookLink, a.Website, a.SeekingVenue, a.SeekingDescription, a.ID)
	return err
}

// DeleteTx removes an artist and every show the artist plays.
func (r *ArtistRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := getArtist(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE artist_id = ?`, id); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	return err
}
