package service

import (
	"context"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/repository"
)

// Directory answers the read-only pages: venue areas, searches, detail
// pages and the show listing.
type Directory struct {
	Venues  *repository.VenueRepo
	Artists *repository.ArtistRepo
	Shows   *repository.ShowRepo

	// Location is used to print show times.  Nil means UTC.
	Location *time.Location
	// CountUpcoming fills num_upcoming_shows with real counts instead of 0.
	CountUpcoming bool
	// Now is the past/upcoming boundary.  Nil means time.Now.
	Now func() time.Time
	// Language drives the collation of city and state names.
	Language language.Tag
}

// NewDirectory wires a Directory over db-backed repositories.
func NewDirectory(venues *repository.VenueRepo, artists *repository.ArtistRepo, shows *repository.ShowRepo) *Directory {
	return &Directory{Venues: venues, Artists: artists, Shows: shows, Location: time.UTC, Language: language.English}
}

func (d *Directory) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// upcomingCounts returns the number of upcoming shows per venue and per
// artist, or nil maps when counting is disabled.
func (d *Directory) upcomingCounts(ctx context.Context) (byVenue, byArtist map[int64]int, err error) {
	if !d.CountUpcoming {
		return nil, nil, nil
	}
	shows, err := d.Shows.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	_, upcoming := model.PartitionShows(shows, d.now())
	byVenue = make(map[int64]int)
	byArtist = make(map[int64]int)
	for _, s := range upcoming {
		byVenue[s.VenueID]++
		byArtist[s.ArtistID]++
	}
	return byVenue, byArtist, nil
}

// Areas groups every venue by city and state.  Groups are ordered by city
// then state using the directory's collation; venues keep id order.
func (d *Directory) Areas(ctx context.Context) ([]Area, error) {
	const op = "list venues"
	venues, err := d.Venues.ListAll(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	counts, _, err := d.upcomingCounts(ctx)
	if err != nil {
		return nil, classify(op, err)
	}

	type key struct{ city, state string }
	index := make(map[key]int)
	var areas []Area
	for _, v := range venues {
		k := key{v.City, v.State}
		i, ok := index[k]
		if !ok {
			i = len(areas)
			index[k] = i
			areas = append(areas, Area{City: v.City, State: v.State})
		}
		areas[i].Venues = append(areas[i].Venues, Summary{ID: v.ID, Name: v.Name, NumUpcomingShows: counts[v.ID]})
	}

	col := collate.New(d.Language, collate.IgnoreCase)
	sort.SliceStable(areas, func(i, j int) bool {
		if c := col.CompareString(areas[i].City, areas[j].City); c != 0 {
			return c < 0
		}
		return col.CompareString(areas[i].State, areas[j].State) < 0
	})
	return areas, nil
}

// SearchVenues matches term against venue names, ignoring case.
func (d *Directory) SearchVenues(ctx context.Context, term string) (SearchResult, error) {
	const op = "search venues"
	venues, err := d.Venues.SearchByName(ctx, term)
	if err != nil {
		return SearchResult{}, classify(op, err)
	}
	counts, _, err := d.upcomingCounts(ctx)
	if err != nil {
		return SearchResult{}, classify(op, err)
	}
	res := SearchResult{Count: len(venues), Data: make([]Summary, 0, len(venues))}
	for _, v := range venues {
		res.Data = append(res.Data, Summary{ID: v.ID, Name: v.Name, NumUpcomingShows: counts[v.ID]})
	}
	return res, nil
}

// SearchArtists matches term against artist names, ignoring case.
func (d *Directory) SearchArtists(ctx context.Context, term string) (SearchResult, error) {
	const op = "search artists"
	artists, err := d.Artists.SearchByName(ctx, term)
	if err != nil {
		return SearchResult{}, classify(op, err)
	}
	_, counts, err := d.upcomingCounts(ctx)
	if err != nil {
		return SearchResult{}, classify(op, err)
	}
	res := SearchResult{Count: len(artists), Data: make([]Summary, 0, len(artists))}
	for _, a := range artists {
		res.Data = append(res.Data, Summary{ID: a.ID, Name: a.Name, NumUpcomingShows: counts[a.ID]})
	}
	return res, nil
}

// ListArtists returns every artist as {id, name} in id order.
func (d *Directory) ListArtists(ctx context.Context) ([]Summary, error) {
	artists, err := d.Artists.ListAll(ctx)
	if err != nil {
		return nil, classify("list artists", err)
	}
	out := make([]Summary, 0, len(artists))
	for _, a := range artists {
		out = append(out, Summary{ID: a.ID, Name: a.Name})
	}
	return out, nil
}

// VenueDetail loads one venue and splits its shows at now.
func (d *Directory) VenueDetail(ctx context.Context, id int64) (VenueDetail, error) {
	const op = "show venue"
	v, err := d.Venues.GetByID(ctx, id)
	if err != nil {
		return VenueDetail{}, classify(op, err)
	}
	shows, err := d.Shows.ListByVenue(ctx, id)
	if err != nil {
		return VenueDetail{}, classify(op, err)
	}
	past, upcoming := model.PartitionShows(shows, d.now())
	return VenueDetail{
		Venue:         *v,
		PastShows:     d.artistSlots(past),
		UpcomingShows: d.artistSlots(upcoming),
	}, nil
}

// ArtistDetail loads one artist and splits its shows at now.
func (d *Directory) ArtistDetail(ctx context.Context, id int64) (ArtistDetail, error) {
	const op = "show artist"
	a, err := d.Artists.GetByID(ctx, id)
	if err != nil {
		return ArtistDetail{}, classify(op, err)
	}
	shows, err := d.Shows.ListByArtist(ctx, id)
	if err != nil {
		return ArtistDetail{}, classify(op, err)
	}
	past, upcoming := model.PartitionShows(shows, d.now())
	return ArtistDetail{
		Artist:        *a,
		PastShows:     d.venueSlots(past),
		UpcomingShows: d.venueSlots(upcoming),
	}, nil
}

// Venue returns the stored venue, used to pre-fill the edit form.
func (d *Directory) Venue(ctx context.Context, id int64) (model.Venue, error) {
	v, err := d.Venues.GetByID(ctx, id)
	if err != nil {
		return model.Venue{}, classify("edit venue", err)
	}
	return *v, nil
}

// Artist returns the stored artist, used to pre-fill the edit form.
func (d *Directory) Artist(ctx context.Context, id int64) (model.Artist, error) {
	a, err := d.Artists.GetByID(ctx, id)
	if err != nil {
		return model.Artist{}, classify("edit artist", err)
	}
	return *a, nil
}

// ListShows returns every show with its venue and artist names.
func (d *Directory) ListShows(ctx context.Context) ([]ShowRow, error) {
	shows, err := d.Shows.ListAll(ctx)
	if err != nil {
		return nil, classify("list shows", err)
	}
	return d.showRows(shows), nil
}

// SearchShows returns shows whose artist or venue name contains term.
func (d *Directory) SearchShows(ctx context.Context, term string) ([]ShowRow, error) {
	shows, err := d.Shows.Search(ctx, repository.ShowSearchQuery{Term: term})
	if err != nil {
		return nil, classify("search shows", err)
	}
	return d.showRows(shows), nil
}

func (d *Directory) showRows(shows []model.Show) []ShowRow {
	out := make([]ShowRow, 0, len(shows))
	for _, s := range shows {
		out = append(out, ShowRow{
			VenueID:         s.VenueID,
			VenueName:       s.VenueName,
			ArtistID:        s.ArtistID,
			ArtistName:      s.ArtistName,
			ArtistImageLink: s.ArtistImageLink,
			StartTime:       model.FormatTime(s.StartTime, d.Location),
		})
	}
	return out
}

func (d *Directory) artistSlots(shows []model.Show) []model.ArtistSlot {
	out := make([]model.ArtistSlot, 0, len(shows))
	for _, s := range shows {
		out = append(out, s.ArtistSlot(d.Location))
	}
	return out
}

func (d *Directory) venueSlots(shows []model.Show) []model.VenueSlot {
	out := make([]model.VenueSlot, 0, len(shows))
	for _, s := range shows {
		out = append(out, s.VenueSlot(d.Location))
	}
	return out
}
