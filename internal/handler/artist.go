package handler // artist pages and form endpoints

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/web"
)

// Artists handles GET /artists.
func (h *Handler) Artists(c echo.Context) error {
	artists, err := h.Directory.ListArtists(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "pages/artists.html", web.Page{Data: map[string]any{"artists": artists}})
}

// SearchArtists handles POST /artists/search.
func (h *Handler) SearchArtists(c echo.Context) error {
	term := c.FormValue("search_term")
	res, err := h.Directory.SearchArtists(c.Request().Context(), term)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "pages/search.html", web.Page{Data: map[string]any{
		"kind":        "artists",
		"search_term": term,
		"results":     res,
	}})
}

// ShowArtist handles GET /artists/:id.
func (h *Handler) ShowArtist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	detail, err := h.Directory.ArtistDetail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "pages/show_artist.html", web.Page{Data: map[string]any{"artist": detail.ToMap()}})
}

func (h *Handler) CreateArtistForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "forms/new_artist.html", web.Page{Form: form.ArtistInput{}})
}

// CreateArtistSubmission handles POST /artists/create.
func (h *Handler) CreateArtistSubmission(c echo.Context) error {
	var in form.ArtistInput
	if err := c.Bind(&in); err != nil {
		h.Logger.Warn("bind artist form", "error", err)
	}
	_, err := h.Booking.CreateArtist(c.Request().Context(), in)
	h.flashOutcome(c, service.EntityArtist, in.Name, service.VerbListed, err)
	return h.render(c, http.StatusOK, "pages/home.html", web.Page{})
}

func (h *Handler) EditArtistForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	a, err := h.Directory.Artist(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "forms/edit_artist.html", web.Page{
		Data: map[string]any{"artist": a.ToMap()},
		Form: form.ArtistFrom(a),
	})
}

// EditArtistSubmission handles POST /artists/:id/edit.
func (h *Handler) EditArtistSubmission(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in form.ArtistInput
	if err := c.Bind(&in); err != nil {
		h.Logger.Warn("bind artist form", "error", err)
	}
	_, err = h.Booking.UpdateArtist(c.Request().Context(), id, in)
	if service.IsNotFound(err) {
		return err
	}
	h.flashOutcome(c, service.EntityArtist, in.Name, service.VerbUpdated, err)
	return c.Redirect(http.StatusFound, "/artists/"+strconv.FormatInt(id, 10))
}

// DeleteArtist handles DELETE /artists/:id and answers {"success": true}.
func (h *Handler) DeleteArtist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	a, err := h.Booking.DeleteArtist(c.Request().Context(), id)
	if service.IsNotFound(err) {
		return err
	}
	h.flashOutcome(c, service.EntityArtist, a.Name, service.VerbDeleted, err)
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"success": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
