package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/session"
	"github.com/iliyamo/fyyur/internal/testutil"
	"github.com/iliyamo/fyyur/internal/web"
)

func newHandler(t *testing.T, logs *bytes.Buffer) (*Handler, *echo.Echo) {
	t.Helper()
	db := testutil.NewDB(t)
	venues, artists, shows := repository.NewVenueRepo(db), repository.NewArtistRepo(db), repository.NewShowRepo(db)
	h := New(service.NewDirectory(venues, artists, shows), service.NewBooking(db, venues, artists, shows),
		session.NewFlashStore("secret", false), slog.New(slog.NewTextHandler(logs, nil)))

	r, err := web.NewRenderer(time.UTC)
	require.NoError(t, err)
	e := echo.New()
	e.Renderer = r
	e.HTTPErrorHandler = h.HTTPErrorHandler
	return h, e
}

func TestParseID(t *testing.T) {
	e := echo.New()
	for _, tc := range []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"1", 1, true},
		{"999999", 999999, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(tc.raw)
		id, err := parseID(c)
		if tc.ok {
			require.NoError(t, err, tc.raw)
			assert.Equal(t, tc.want, id)
		} else {
			assert.ErrorIs(t, err, echo.ErrNotFound, tc.raw)
		}
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(&service.Error{Kind: service.KindNotFound, Err: repository.ErrNotFound}))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(&service.Error{Kind: service.KindUnavailable}))
	assert.Equal(t, http.StatusBadRequest, statusFor(&service.Error{Kind: service.KindValidation}))
	assert.Equal(t, http.StatusTooManyRequests, statusFor(echo.NewHTTPError(http.StatusTooManyRequests)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestErrorHandlerRendersPages(t *testing.T) {
	var logs bytes.Buffer
	_, e := newHandler(t, &logs)
	e.GET("/boom", func(c echo.Context) error { return errors.New("database exploded") })
	e.GET("/limited", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTooManyRequests, "slow down") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
	assert.NotContains(t, rec.Body.String(), "database exploded")
	assert.Contains(t, logs.String(), "database exploded")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too Many Requests", rec.Body.String())
}

func TestHealth(t *testing.T) {
	var logs bytes.Buffer
	h, e := newHandler(t, &logs)
	e.GET("/healthz", h.Health)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, h.Booking.DB.Close())
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
