package handler // venue pages and form endpoints

import (
	"net/http" // http defines status codes
	"strconv"  // strconv formats ids for redirects

	"github.com/labstack/echo/v4" // echo provides the web context

	"github.com/iliyamo/fyyur/internal/form"    // form holds the typed venue input
	"github.com/iliyamo/fyyur/internal/service" // service shapes views and runs mutations
	"github.com/iliyamo/fyyur/internal/web"     // web defines the page data
)

// Venues handles GET /venues and lists every venue grouped by city and state.
func (h *Handler) Venues(c echo.Context) error {
	areas, err := h.Directory.Areas(c.Request().Context()) // load and group venues
	if err != nil {
		return err // rendered as a 500 page by the error handler
	}
	return h.render(c, http.StatusOK, "pages/venues.html", web.Page{Data: map[string]any{"areas": areas}})
}

// SearchVenues handles POST /venues/search with the search_term form field.
func (h *Handler) SearchVenues(c echo.Context) error {
	term := c.FormValue("search_term") // missing field means empty term
	res, err := h.Directory.SearchVenues(c.Request().Context(), term)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "pages/search.html", web.Page{Data: map[string]any{
		"kind":        "venues",
		"search_term": term,
		"results":     res,
	}})
}

// ShowVenue handles GET /venues/:id.
func (h *Handler) ShowVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	detail, err := h.Directory.VenueDetail(c.Request().Context(), id)
	if err != nil {
		return err // not found becomes 404
	}
	return h.render(c, http.StatusOK, "pages/show_venue.html", web.Page{Data: map[string]any{"venue": detail.ToMap()}})
}

// CreateVenueForm handles GET /venues/create.
func (h *Handler) CreateVenueForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "forms/new_venue.html", web.Page{Form: form.VenueInput{}})
}

// CreateVenueSubmission handles POST /venues/create.  Whatever the outcome
// the landing page is rendered with a flash describing it.
func (h *Handler) CreateVenueSubmission(c echo.Context) error {
	var in form.VenueInput
	if err := c.Bind(&in); err != nil { // malformed body; validation reports the empty fields
		h.Logger.Warn("bind venue form", "error", err)
	}
	_, err := h.Booking.CreateVenue(c.Request().Context(), in)
	h.flashOutcome(c, service.EntityVenue, in.Name, service.VerbListed, err)
	return h.render(c, http.StatusOK, "pages/home.html", web.Page{})
}

// EditVenueForm handles GET /venues/:id/edit and pre-fills the form.
func (h *Handler) EditVenueForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	v, err := h.Directory.Venue(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "forms/edit_venue.html", web.Page{
		Data: map[string]any{"venue": v.ToMap()},
		Form: form.VenueFrom(v),
	})
}

// EditVenueSubmission handles POST /venues/:id/edit and redirects to the
// venue page.  An unknown id is a 404.
func (h *Handler) EditVenueSubmission(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in form.VenueInput
	if err := c.Bind(&in); err != nil {
		h.Logger.Warn("bind venue form", "error", err)
	}
	_, err = h.Booking.UpdateVenue(c.Request().Context(), id, in)
	if service.IsNotFound(err) {
		return err
	}
	h.flashOutcome(c, service.EntityVenue, in.Name, service.VerbUpdated, err)
	return c.Redirect(http.StatusFound, "/venues/"+strconv.FormatInt(id, 10))
}

// DeleteVenue handles DELETE /venues/:id.  Success answers 200 with an
// empty body; the page script then navigates home where the flash shows.
func (h *Handler) DeleteVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	v, err := h.Booking.DeleteVenue(c.Request().Context(), id)
	if service.IsNotFound(err) {
		return err
	}
	h.flashOutcome(c, service.EntityVenue, v.Name, service.VerbDeleted, err)
	if err != nil {
		return c.NoContent(statusFor(err))
	}
	return c.NoContent(http.StatusOK)
}
