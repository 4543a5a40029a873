package model

import "time"

// TimeLayout is the fixed pattern used to print show start times.
const TimeLayout = "2006-01-02 15:04:05"

// Show is a scheduled event joining one artist and one venue.  The name and
// image fields are filled from joins when the show is read back and are not
// persisted on the shows row.
//
// Fields:
//  ID        – primary key identifier.
//  ArtistID  – artist playing the show.
//  VenueID   – venue hosting the show.
//  StartTime – when the show begins (UTC).
type Show struct {
	ID        int64
	ArtistID  int64
	VenueID   int64
	StartTime time.Time

	ArtistName      string
	ArtistImageLink string
	VenueName       string
	VenueImageLink  string
}

// ArtistSlot is a show seen from a venue page.
type ArtistSlot struct {
	ArtistID        int64  `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// VenueSlot is a show seen from an artist page.
type VenueSlot struct {
	VenueID        int64  `json:"venue_id"`
	VenueName      string `json:"venue_name"`
	VenueImageLink string `json:"venue_image_link"`
	StartTime      string `json:"start_time"`
}

// ArtistSlot serializes the show from the artist's perspective.
func (s Show) ArtistSlot(loc *time.Location) ArtistSlot {
	return ArtistSlot{
		ArtistID:        s.ArtistID,
		ArtistName:      s.ArtistName,
		ArtistImageLink: s.ArtistImageLink,
		StartTime:       FormatTime(s.StartTime, loc),
	}
}

// VenueSlot serializes the show from the venue's perspective.
func (s Show) VenueSlot(loc *time.Location) VenueSlot {
	return VenueSlot{
		VenueID:        s.VenueID,
		VenueName:      s.VenueName,
		VenueImageLink: s.VenueImageLink,
		StartTime:      FormatTime(s.StartTime, loc),
	}
}

// IsPast reports whether the show started strictly before now.  A show
// starting exactly at now is upcoming.
func (s Show) IsPast(now time.Time) bool {
	return s.StartTime.Before(now)
}

// PartitionShows splits shows into past and upcoming relative to now,
// keeping the input order inside each partition.
func PartitionShows(shows []Show, now time.Time) (past, upcoming []Show) {
	past = make([]Show, 0, len(shows))
	upcoming = make([]Show, 0, len(shows))
	for _, s := range shows {
		if s.IsPast(now) {
			past = append(past, s)
		} else {
			upcoming = append(upcoming, s)
		}
	}
	return past, upcoming
}

// FormatTime prints t in loc using TimeLayout; a nil loc means UTC.
func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimeLayout)
}
