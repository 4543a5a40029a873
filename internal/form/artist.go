package form

import (
	"strings"

	"github.com/iliyamo/fyyur/internal/model"
)

// ArtistInput is the create/edit artist form.  Name, city and state are
// required.
type ArtistInput struct {
	Name               string   `form:"name"`
	City               string   `form:"city"`
	State              string   `form:"state"`
	Phone              string   `form:"phone"`
	Genres             []string `form:"genres"`
	ImageLink          string   `form:"image_link"`
	FacebookLink       string   `form:"facebook_link"`
	Website            string   `form:"website"`
	SeekingVenue       string   `form:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description"`
}

func (in ArtistInput) Validate() Errors {
	var c checker
	c.required("name", in.Name)
	c.required("city", in.City)
	c.required("state", in.State)
	c.maxLen("name", in.Name, nameLen)
	c.maxLen("city", in.City, shortLen)
	c.maxLen("state", in.State, shortLen)
	c.maxLen("phone", in.Phone, shortLen)
	c.maxLen("image_link", in.ImageLink, longLinkLen)
	c.maxLen("facebook_link", in.FacebookLink, shortLen)
	c.maxLen("website", in.Website, longLinkLen)
	c.choice("state", trim(in.State), StateChoices)
	c.choices("genres", in.Genres, GenreChoices)
	c.link("image_link", in.ImageLink)
	c.link("facebook_link", in.FacebookLink)
	c.link("website", in.Website)
	return c.errs
}

// Apply overwrites every editable field of a.
func (in ArtistInput) Apply(a *model.Artist) {
	a.Name = strings.TrimSpace(in.Name)
	a.City = strings.TrimSpace(in.City)
	a.State = strings.TrimSpace(in.State)
	a.Phone = strings.TrimSpace(in.Phone)
	a.Genres = cleanGenres(in.Genres)
	a.ImageLink = in.ImageLink
	a.FacebookLink = in.FacebookLink
	a.Website = in.Website
	a.SeekingVenue = Checked(in.SeekingVenue)
	a.SeekingDescription = in.SeekingDescription
}

func ArtistFrom(a model.Artist) ArtistInput {
	in := ArtistInput{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		Genres:             append([]string(nil), a.Genres...),
		ImageLink:          a.ImageLink,
		FacebookLink:       a.FacebookLink,
		Website:            a.Website,
		SeekingDescription: a.SeekingDescription,
	}
	if a.SeekingVenue {
		in.SeekingVenue = "y"
	}
	return in
}
