package web

import (
	"bytes"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/service"
)

func render(t *testing.T, name string, page Page) string {
	t.Helper()
	r, err := NewRenderer(time.UTC)
	require.NoError(t, err)
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, page, c))
	return buf.String()
}

func TestEveryPageParses(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)
	for _, name := range []string{
		"pages/home.html", "pages/venues.html", "pages/artists.html", "pages/search.html",
		"pages/show_venue.html", "pages/show_artist.html", "pages/shows.html",
		"forms/new_venue.html", "forms/edit_venue.html", "forms/new_artist.html",
		"forms/edit_artist.html", "forms/new_show.html", "errors/404.html", "errors/500.html",
	} {
		assert.Contains(t, r.pages, name)
	}
	assert.NotContains(t, r.pages, "pages/partials.html")
}

func TestUnknownTemplate(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, "pages/nope.html", Page{}, nil))
}

func TestHomeShowsFlashes(t *testing.T) {
	out := render(t, "pages/home.html", Page{Path: "/", Flashes: []string{"Venue The Musical Hop was successfully listed!"}})
	assert.Contains(t, out, "Venue The Musical Hop was successfully listed!")
	assert.Contains(t, out, `action="/venues/search"`)
	assert.Contains(t, out, "<title>Fyyur</title>")
}

func TestVenueDetailPage(t *testing.T) {
	detail := service.VenueDetail{
		Venue: model.Venue{ID: 1, Name: "The Musical Hop", City: "San Francisco", State: "CA", Genres: []string{"Jazz"}, SeekingTalent: true},
		PastShows: []model.ArtistSlot{{ArtistID: 4, ArtistName: "Guns N Petals", StartTime: "2019-05-21 21:30:00"}},
	}
	out := render(t, "pages/show_venue.html", Page{Path: "/venues/1", Data: map[string]any{"venue": detail.ToMap()}})

	assert.Contains(t, out, "<title>The Musical Hop | Fyyur</title>")
	assert.Contains(t, out, "1 Past Show<")
	assert.Contains(t, out, "0 Upcoming Shows")
	assert.Contains(t, out, "Tuesday May 21, 2019 at 9:30PM")
	assert.Contains(t, out, "Currently seeking talent")
	assert.Contains(t, out, `data-delete="/venues/1"`)
}

func TestEditVenueFormIsPrefilled(t *testing.T) {
	v := model.Venue{ID: 3, Name: "Park Square", City: "San Francisco", State: "CA", Genres: []string{"Jazz", "Folk"}}
	out := render(t, "forms/edit_venue.html", Page{
		Path: "/venues/3/edit",
		Data: map[string]any{"venue": v.ToMap()},
		Form: form.VenueFrom(v),
	})
	assert.Contains(t, out, `action="/venues/3/edit"`)
	assert.Contains(t, out, `value="Park Square"`)
	assert.Contains(t, out, `<option value="CA" selected>`)
	assert.Contains(t, out, `<option value="Folk" selected>`)
	assert.Contains(t, out, `<option value="Blues">`)
	assert.NotContains(t, out, "checked")
}

func TestSearchPage(t *testing.T) {
	out := render(t, "pages/search.html", Page{Path: "/artists/search", Data: map[string]any{
		"kind":        "artists",
		"search_term": "petals",
		"results":     service.SearchResult{Count: 1, Data: []service.Summary{{ID: 4, Name: "Guns N Petals"}}},
	}})
	assert.Contains(t, out, `Number of search results for "petals": 1`)
	assert.Contains(t, out, `href="/artists/4"`)
	assert.Contains(t, out, `action="/artists/search"`)
}

func TestDatetime(t *testing.T) {
	assert.Equal(t, "Tuesday May 21, 2019 at 9:30PM", Datetime("2019-05-21 21:30:00", time.UTC))
	assert.Equal(t, "soon", Datetime("soon", time.UTC))
}

func TestStaticServesStylesheet(t *testing.T) {
	data, err := fs.ReadFile(Static(), "main.css")
	require.NoError(t, err)
	assert.Contains(t, string(data), ".navbar")
}
