package service

import "github.com/iliyamo/fyyur/internal/model"

// Summary is one row of a directory listing or a search result.
type Summary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// Area groups the venues of one city/state pair.
type Area struct {
	City   string    `json:"city"`
	State  string    `json:"state"`
	Venues []Summary `json:"venues"`
}

// SearchResult is the response shape of a venue or artist search.
type SearchResult struct {
	Count int       `json:"count"`
	Data  []Summary `json:"data"`
}

// ShowRow is one line of the show listing.
type ShowRow struct {
	VenueID         int64  `json:"venue_id"`
	VenueName       string `json:"venue_name"`
	ArtistID        int64  `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// VenueDetail is a venue together with its shows seen from the artist side.
type VenueDetail struct {
	Venue         model.Venue
	PastShows     []model.ArtistSlot
	UpcomingShows []model.ArtistSlot
}

// ToMap flattens the detail into the keys the venue page reads.
func (d VenueDetail) ToMap() map[string]any {
	m := d.Venue.ToMap()
	m["past_shows"] = d.PastShows
	m["upcoming_shows"] = d.UpcomingShows
	m["past_shows_count"] = len(d.PastShows)
	m["upcoming_shows_count"] = len(d.UpcomingShows)
	return m
}

// ArtistDetail is an artist together with its shows seen from the venue side.
type ArtistDetail struct {
	Artist        model.Artist
	PastShows     []model.VenueSlot
	UpcomingShows []model.VenueSlot
}

func (d ArtistDetail) ToMap() map[string]any {
	m := d.Artist.ToMap()
	m["past_shows"] = d.PastShows
	m["upcoming_shows"] = d.UpcomingShows
	m["past_shows_count"] = len(d.PastShows)
	m["upcoming_shows_count"] = len(d.UpcomingShows)
	return m
}
