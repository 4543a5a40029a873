package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/testutil"
)

type fixture struct {
	db      *sql.DB
	venues  *VenueRepo
	artists *ArtistRepo
	shows   *ShowRepo
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewDB(t)
	return fixture{db: db, venues: NewVenueRepo(db), artists: NewArtistRepo(db), shows: NewShowRepo(db)}
}

func (f fixture) inTx(t *testing.T, fn func(tx *sql.Tx) error) {
	t.Helper()
	tx, err := f.db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit())
}

func (f fixture) venue(t *testing.T, name, city, state string) model.Venue {
	v := model.Venue{Name: name, City: city, State: state, Address: "1015 Folsom Street",
		Genres: []string{"Jazz", "Reggae"}, SeekingTalent: true, SeekingDescription: "We are on the lookout"}
	f.inTx(t, func(tx *sql.Tx) error { return f.venues.CreateTx(context.Background(), tx, &v) })
	return v
}

func (f fixture) artist(t *testing.T, name string) model.Artist {
	a := model.Artist{Name: name, City: "San Francisco", State: "CA", Genres: []string{"Rock n Roll"}}
	f.inTx(t, func(tx *sql.Tx) error { return f.artists.CreateTx(context.Background(), tx, &a) })
	return a
}

func (f fixture) show(t *testing.T, artistID, venueID int64, start time.Time) model.Show {
	s := model.Show{ArtistID: artistID, VenueID: venueID, StartTime: start}
	f.inTx(t, func(tx *sql.Tx) error { return f.shows.CreateTx(context.Background(), tx, &s) })
	return s
}

func TestVenueCreateAndGet(t *testing.T) {
	f := newFixture(t)
	created := f.venue(t, "The Musical Hop", "San Francisco", "CA")
	require.NotZero(t, created.ID)

	got, err := f.venues.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, *got)
}

func TestGetByIDNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.venues.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.artists.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchByNameIsCaseInsensitiveSubstring(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.venue(t, "Moe's Tavern", "Springfield", "OR")
	f.venue(t, "The Dueling Pianos Bar", "New York", "NY")
	f.venue(t, "100% Club", "Austin", "TX")

	got, err := f.venues.SearchByName(ctx, "moe's")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Moe's Tavern", got[0].Name)

	all, err := f.venues.SearchByName(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pct, err := f.venues.SearchByName(ctx, "0%")
	require.NoError(t, err)
	require.Len(t, pct, 1, "wildcards in the term are literal")
	assert.Equal(t, "100% Club", pct[0].Name)

	f.artist(t, "Guns N Petals")
	f.artist(t, "Matt Quevedo")
	artists, err := f.artists.SearchByName(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, artists, 2)
}

func TestSearchFoldsNonASCIINames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.venue(t, "CAFÉ ÜBER", "Zürich", "NY")
	a := f.artist(t, "ÉDITH")
	f.show(t, a.ID, v.ID, time.Date(2035, 5, 21, 21, 30, 0, 0, time.UTC))

	venues, err := f.venues.SearchByName(ctx, "café über")
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, v.ID, venues[0].ID)

	artists, err := f.artists.SearchByName(ctx, "édith")
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, a.ID, artists[0].ID)

	shows, err := f.shows.Search(ctx, ShowSearchQuery{Term: "über"})
	require.NoError(t, err)
	assert.Len(t, shows, 1)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "café über", fold("CAFÉ ÜBER"))
	assert.Equal(t, "%100!% club%", containsPattern("100% CLUB"))
	assert.Equal(t, foldFunc, foldExpr(testutil.NewDB(t)))
}

func TestUpdateOverwritesEveryField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.artist(t, "Guns N Petals")

	a.Name = "The Wild Sax Band"
	a.Genres = []string{"Jazz", "Classical"}
	a.SeekingVenue = true
	a.SeekingDescription = ""
	f.inTx(t, func(tx *sql.Tx) error { return f.artists.UpdateTx(ctx, tx, &a) })

	got, err := f.artists.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, *got)
}

func TestDeleteVenueCascadesShows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.venue(t, "The Musical Hop", "San Francisco", "CA")
	other := f.venue(t, "Park Square Live Music & Coffee", "San Francisco", "CA")
	a := f.artist(t, "Guns N Petals")
	start := time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)
	f.show(t, a.ID, v.ID, start)
	f.show(t, a.ID, v.ID, start.Add(24*time.Hour))
	f.show(t, a.ID, other.ID, start)

	f.inTx(t, func(tx *sql.Tx) error { return f.venues.DeleteTx(ctx, tx, v.ID) })

	shows, err := f.shows.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, other.ID, shows[0].VenueID)
	_, err = f.venues.GetByID(ctx, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteArtistCascadesShows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.venue(t, "The Musical Hop", "San Francisco", "CA")
	a := f.artist(t, "Guns N Petals")
	f.show(t, a.ID, v.ID, time.Now().UTC())

	f.inTx(t, func(tx *sql.Tx) error { return f.artists.DeleteTx(ctx, tx, a.ID) })

	shows, err := f.shows.ListByVenue(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, shows)
}

func TestDeleteUnknownReturnsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tx, err := f.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	assert.ErrorIs(t, f.venues.DeleteTx(ctx, tx, 42), ErrNotFound)
	assert.ErrorIs(t, f.artists.DeleteTx(ctx, tx, 42), ErrNotFound)
}

func TestShowsJoinNamesAndKeepTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.venue(t, "The Musical Hop", "San Francisco", "CA")
	a := f.artist(t, "Guns N Petals")
	start := time.Date(2019, 5, 21, 21, 30, 0, 0, time.UTC)
	f.show(t, a.ID, v.ID, start)

	shows, err := f.shows.ListByArtist(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	s := shows[0]
	assert.True(t, start.Equal(s.StartTime))
	assert.Equal(t, "Guns N Petals", s.ArtistName)
	assert.Equal(t, "The Musical Hop", s.VenueName)
}

func TestCreateShowWithUnknownArtistIsConstraintViolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.venue(t, "The Musical Hop", "San Francisco", "CA")

	tx, err := f.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	err = f.shows.CreateTx(ctx, tx, &model.Show{ArtistID: 999, VenueID: v.ID, StartTime: time.Now()})

	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
	assert.False(t, IsUnavailable(err))
}

func TestShowSearchMatchesArtistOrVenue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hop := f.venue(t, "The Musical Hop", "San Francisco", "CA")
	pianos := f.venue(t, "The Dueling Pianos Bar", "New York", "NY")
	petals := f.artist(t, "Guns N Petals")
	sax := f.artist(t, "The Wild Sax Band")
	now := time.Now().UTC()
	f.show(t, petals.ID, hop.ID, now)
	f.show(t, sax.ID, pianos.ID, now)

	byArtist, err := f.shows.Search(ctx, ShowSearchQuery{Term: "petals"})
	require.NoError(t, err)
	require.Len(t, byArtist, 1)
	assert.Equal(t, petals.ID, byArtist[0].ArtistID)

	byVenue, err := f.shows.Search(ctx, ShowSearchQuery{Term: "PIANOS"})
	require.NoError(t, err)
	require.Len(t, byVenue, 1)
	assert.Equal(t, pianos.ID, byVenue[0].VenueID)

	all, err := f.shows.Search(ctx, ShowSearchQuery{Term: "  "})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestClassifiersIgnoreOtherErrors(t *testing.T) {
	assert.False(t, IsConstraintViolation(nil))
	assert.False(t, IsConstraintViolation(ErrNotFound))
	assert.False(t, IsUnavailable(ErrNotFound))
	assert.True(t, IsUnavailable(sql.ErrConnDone))
}
