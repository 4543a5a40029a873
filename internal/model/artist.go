package model

// Artist is a performer who plays shows.  Deleting an artist deletes the
// artist's shows.
type Artist struct {
	ID                 int64
	Name               string
	City               string
	State              string
	Phone              string
	Genres             []string
	ImageLink          string
	FacebookLink       string
	Website            string
	SeekingVenue       bool
	SeekingDescription string
}

// ToMap flattens the artist into the key/value shape consumed by templates.
func (a Artist) ToMap() map[string]any {
	return map[string]any{
		"id":                  a.ID,
		"name":                a.Name,
		"city":                a.City,
		"state":               a.State,
		"phone":               a.Phone,
		"genres":              genresOrEmpty(a.Genres),
		"image_link":          a.ImageLink,
		"facebook_link":       a.FacebookLink,
		"website":             a.Website,
		"seeking_venue":       a.SeekingVenue,
		"seeking_description": a.SeekingDescription,
	}
}
