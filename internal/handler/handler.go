// Package handler exposes the HTML pages and form endpoints of the
// directory.  Handlers are methods on Handler so they share the services,
// the flash store and the logger.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/session"
	"github.com/iliyamo/fyyur/internal/web"
)

// Handler aggregates everything the HTTP layer needs.
type Handler struct {
	Directory *service.Directory   // read views
	Booking   *service.Booking     // create, update and delete
	Flash     *session.FlashStore  // one-shot messages
	Logger    *slog.Logger         // diagnostic stream
}

// New builds a Handler.  A nil logger falls back to slog.Default.
func New(dir *service.Directory, booking *service.Booking, flash *session.FlashStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Directory: dir, Booking: booking, Flash: flash, Logger: logger}
}

// render fills the common page fields and executes template name.
func (h *Handler) render(c echo.Context, status int, name string, page web.Page) error {
	page.Path = c.Request().URL.Path
	page.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	page.Flashes = h.Flash.Consume(c)
	return c.Render(status, name, page)
}

// flash queues a message; a signing failure is logged and otherwise ignored.
func (h *Handler) flash(c echo.Context, msg string) {
	if err := h.Flash.Add(c, msg); err != nil {
		h.Logger.Error("flash not stored", "error", err)
	}
}

// flashOutcome flashes the result of a mutation, plus the first field
// problem when the form was rejected.
func (h *Handler) flashOutcome(c echo.Context, entity, name, verb string, err error) {
	h.flash(c, service.Message(entity, name, verb, err))
	if errs := service.FieldErrors(err); len(errs) > 0 {
		h.flash(c, errs.First().Error())
	}
}

// parseID reads the :id path parameter.  Anything that is not a positive
// integer cannot name a record, so it is reported as not found.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// statusFor maps an error to the HTTP status of the error page.
func statusFor(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	switch service.KindOf(err) {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorHandler renders the 404 and 500 pages for anything a handler
// returns.  Other client errors get a plain status line.
func (h *Handler) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "method", c.Request().Method, "path", c.Request().URL.Path, "status", code, "error", err)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	var rerr error
	switch {
	case code == http.StatusNotFound:
		rerr = h.render(c, code, "errors/404.html", web.Page{})
	case code >= http.StatusInternalServerError:
		rerr = h.render(c, code, "errors/500.html", web.Page{})
	default:
		rerr = c.String(code, http.StatusText(code))
	}
	if rerr != nil {
		h.Logger.Error("error page failed", "error", rerr)
		_ = c.String(code, http.StatusText(code))
	}
}
