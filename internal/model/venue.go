package model

// Venue is a location that hosts shows.  It corresponds to a row in the
// `venues` table; its shows are deleted with it.
type Venue struct {
	ID                 int64    // venues.id
	Name               string   // venues.name
	City               string   // venues.city
	State              string   // venues.state
	Address            string   // venues.address
	Phone              string   // venues.phone
	Genres             []string // venues.genres (JSON array)
	ImageLink          string   // venues.image_link
	FacebookLink       string   // venues.facebook_link
	Website            string   // venues.website
	SeekingTalent      bool     // venues.seeking_talent
	SeekingDescription string   // venues.seeking_description
}

// ToMap flattens the venue into the key/value shape consumed by templates.
func (v Venue) ToMap() map[string]any {
	return map[string]any{
		"id":                  v.ID,
		"name":                v.Name,
		"city":                v.City,
		"state":               v.State,
		"address":             v.Address,
		"phone":               v.Phone,
		"genres":              genresOrEmpty(v.Genres),
		"image_link":          v.ImageLink,
		"facebook_link":       v.FacebookLink,
		"website":             v.Website,
		"seeking_talent":      v.SeekingTalent,
		"seeking_description": v.SeekingDescription,
	}
}

func genresOrEmpty(g []string) []string {
	if g == nil {
		return []string{}
	}
	return g
}
