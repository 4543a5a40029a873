package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/metric"
	"github.com/iliyamo/fyyur/internal/session"
	"github.com/iliyamo/fyyur/internal/testutil"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	e, err := New(Options{
		Config:  config.Config{DBDriver: config.DriverSQLite, SessionSecret: "test-secret", Timezone: "UTC", Env: "test"},
		DB:      testutil.NewDB(t),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: metric.New(),
		Now:     func() time.Time { return now },
	})
	require.NoError(t, err)
	return e
}

func do(e *echo.Echo, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func flashCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	var last *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			last = ck
		}
	}
	return last
}

func musicalHop() url.Values {
	return url.Values{
		"name":           {"The Musical Hop"},
		"city":           {"San Francisco"},
		"state":          {"CA"},
		"address":        {"1015 Folsom Street"},
		"phone":          {"123-123-1234"},
		"genres":         {"Jazz", "Reggae"},
		"website":        {"https://www.themusicalhop.com"},
		"seeking_talent": {"y"},
	}
}

func gunsNPetals() url.Values {
	return url.Values{
		"name":   {"Guns N Petals"},
		"city":   {"San Francisco"},
		"state":  {"CA"},
		"genres": {"Rock n Roll"},
	}
}

func TestCreateVenueThenListByArea(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/venues/create", musicalHop())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Venue The Musical Hop was successfully listed!")

	rec = do(e, http.MethodGet, "/venues", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "San Francisco, CA")
	assert.Contains(t, rec.Body.String(), `href="/venues/1"`)
	assert.NotContains(t, rec.Body.String(), "successfully listed", "flash is shown once")
}

func TestCreateVenueValidationFailure(t *testing.T) {
	e := newServer(t)
	form := musicalHop()
	form.Del("address")

	rec := do(e, http.MethodPost, "/venues/create", form)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "An error occurred. Venue The Musical Hop could not be listed.")
	assert.Contains(t, rec.Body.String(), "address: This field is required.")

	rec = do(e, http.MethodGet, "/venues", nil)
	assert.NotContains(t, rec.Body.String(), "The Musical Hop")
}

func TestDetailPagesAndPastShows(t *testing.T) {
	e := newServer(t)
	do(e, http.MethodPost, "/venues/create", musicalHop())
	do(e, http.MethodPost, "/artists/create", gunsNPetals())

	rec := do(e, http.MethodPost, "/shows/create", url.Values{"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"2019-05-21 21:30:00"}})
	assert.Contains(t, rec.Body.String(), "Show was successfully listed!")

	rec = do(e, http.MethodGet, "/venues/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 Past Show<")
	assert.Contains(t, rec.Body.String(), "0 Upcoming Shows")
	assert.Contains(t, rec.Body.String(), "Guns N Petals")

	rec = do(e, http.MethodGet, "/artists/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Musical Hop")

	rec = do(e, http.MethodGet, "/shows", nil)
	assert.Contains(t, rec.Body.String(), "Tuesday May 21, 2019 at 9:30PM")
}

func TestShowWithUnknownArtistFlashesError(t *testing.T) {
	e := newServer(t)
	do(e, http.MethodPost, "/venues/create", musicalHop())

	rec := do(e, http.MethodPost, "/shows/create", url.Values{"artist_id": {"42"}, "venue_id": {"1"}, "start_time": {"2035-01-01 20:00"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "An error occurred. Show could not be listed.")
}

func TestUnknownIDsRenderNotFound(t *testing.T) {
	e := newServer(t)
	for _, target := range []string{"/venues/999999", "/artists/999999", "/venues/abc", "/venues/999999/edit", "/no/such/page"} {
		rec := do(e, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "404", target)
	}

	rec := do(e, http.MethodPost, "/venues/999999/edit", musicalHop())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(e, http.MethodDelete, "/artists/999999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditRedirectsWithFlash(t *testing.T) {
	e := newServer(t)
	do(e, http.MethodPost, "/venues/create", musicalHop())

	rec := do(e, http.MethodGet, "/venues/1/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="1015 Folsom Street"`)

	form := musicalHop()
	form.Set("name", "The Musical Hop II")
	rec = do(e, http.MethodPost, "/venues/1/edit", form)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/venues/1", rec.Header().Get(echo.HeaderLocation))
	ck := flashCookie(rec)
	require.NotNil(t, ck)

	rec = do(e, http.MethodGet, "/venues/1", nil, ck)
	assert.Contains(t, rec.Body.String(), "Venue The Musical Hop II was successfully updated!")
}

func TestDeleteResponses(t *testing.T) {
	e := newServer(t)
	do(e, http.MethodPost, "/venues/create", musicalHop())
	do(e, http.MethodPost, "/artists/create", gunsNPetals())
	do(e, http.MethodPost, "/shows/create", url.Values{"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"2035-01-01 20:00"}})

	rec := do(e, http.MethodDelete, "/artists/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
	require.NotNil(t, flashCookie(rec))

	rec = do(e, http.MethodGet, "/shows", nil)
	assert.Contains(t, rec.Body.String(), "No shows found.")

	rec = do(e, http.MethodDelete, "/venues/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(e, http.MethodGet, "/", nil, flashCookie(rec))
	assert.Contains(t, rec.Body.String(), "Venue The Musical Hop was successfully deleted.")

	rec = do(e, http.MethodDelete, "/venues/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearches(t *testing.T) {
	e := newServer(t)
	do(e, http.MethodPost, "/venues/create", musicalHop())
	do(e, http.MethodPost, "/artists/create", gunsNPetals())
	do(e, http.MethodPost, "/shows/create", url.Values{"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"2035-01-01 20:00"}})

	rec := do(e, http.MethodPost, "/venues/search", url.Values{"search_term": {"HOP"}})
	assert.Contains(t, rec.Body.String(), `Number of search results for "HOP": 1`)

	rec = do(e, http.MethodPost, "/artists/search", url.Values{"search_term": {""}})
	assert.Contains(t, rec.Body.String(), `Number of search results for "": 1`)
	assert.Contains(t, rec.Body.String(), `href="/artists/1"`)

	rec = do(e, http.MethodPost, "/shows/search", url.Values{"search_term": {"petals"}})
	assert.Contains(t, rec.Body.String(), `Shows matching "petals": 1`)
	rec = do(e, http.MethodPost, "/shows/search", url.Values{"search_term": {"nobody"}})
	assert.Contains(t, rec.Body.String(), "No shows found.")
}

func TestOperationalEndpoints(t *testing.T) {
	e := newServer(t)
	do(e, http.MethodPost, "/venues/create", musicalHop())

	rec := do(e, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(e, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `fyyur_mutations_total{action="created",entity="venue",outcome="ok"} 1`)

	rec = do(e, http.MethodGet, "/static/main.css", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/artists/create", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/artists/create"`)
}
