package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/web"
)

// Shows handles GET /shows.
func (h *Handler) Shows(c echo.Context) error {
	shows, err := h.Directory.ListShows(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "pages/shows.html", web.Page{Data: map[string]any{"shows": shows}})
}

// SearchShows handles POST /shows/search.  The term matches artist or
// venue names; an empty term lists every show.
func (h *Handler) SearchShows(c echo.Context) error {
	term := c.FormValue("search_term")
	shows, err := h.Directory.SearchShows(c.Request().Context(), term)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "pages/shows.html", web.Page{Data: map[string]any{
		"shows":       shows,
		"search_term": term,
	}})
}

func (h *Handler) CreateShowForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "forms/new_show.html", web.Page{Form: form.ShowInput{}})
}

// CreateShowSubmission handles POST /shows/create and renders the landing
// page with the outcome.
func (h *Handler) CreateShowSubmission(c echo.Context) error {
	var in form.ShowInput
	if err := c.Bind(&in); err != nil {
		h.Logger.Warn("bind show form", "error", err)
	}
	_, err := h.Booking.CreateShow(c.Request().Context(), in)
	h.flashOutcome(c, service.EntityShow, "", service.VerbListed, err)
	return h.render(c, http.StatusOK, "pages/home.html", web.Page{})
}
