package form

import (
	"strings"

	"github.com/iliyamo/fyyur/internal/model"
)

// VenueInput is the create/edit venue form.  Name, city, state and address
// are required; every other field is optional.
type VenueInput struct {
	Name               string   `form:"name"`
	City               string   `form:"city"`
	State              string   `form:"state"`
	Address            string   `form:"address"`
	Phone              string   `form:"phone"`
	Genres             []string `form:"genres"`
	ImageLink          string   `form:"image_link"`
	FacebookLink       string   `form:"facebook_link"`
	Website            string   `form:"website"`
	SeekingTalent      string   `form:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description"`
}

// Validate checks required fields, lengths and links.
func (in VenueInput) Validate() Errors {
	var c checker
	c.required("name", in.Name)
	c.required("city", in.City)
	c.required("state", in.State)
	c.required("address", in.Address)
	c.maxLen("name", in.Name, nameLen)
	c.maxLen("city", in.City, shortLen)
	c.maxLen("state", in.State, shortLen)
	c.maxLen("address", in.Address, shortLen)
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

// Apply overwrites every editable field of v with the submitted values.
// The id is left alone.
func (in VenueInput) Apply(v *model.Venue) {
	v.Name = strings.TrimSpace(in.Name)
	v.City = strings.TrimSpace(in.City)
	v.State = strings.TrimSpace(in.State)
	v.Address = strings.TrimSpace(in.Address)
	v.Phone = strings.TrimSpace(in.Phone)
	v.Genres = cleanGenres(in.Genres)
	v.ImageLink = in.ImageLink
	v.FacebookLink = in.FacebookLink
	v.Website = in.Website
	v.SeekingTalent = Checked(in.SeekingTalent)
	v.SeekingDescription = in.SeekingDescription
}

// VenueFrom pre-fills the edit form from a stored venue.
func VenueFrom(v model.Venue) VenueInput {
	in := VenueInput{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		Genres:             append([]string(nil), v.Genres...),
		ImageLink:          v.ImageLink,
		FacebookLink:       v.FacebookLink,
		Website:            v.Website,
		SeekingDescription: v.SeekingDescription,
	}
	if v.SeekingTalent {
		in.SeekingTalent = "y"
	}
	return in
}
