package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/fyyur/internal/handler" // handlers implement each page and form endpoint
	"github.com/iliyamo/fyyur/internal/metric"
	"github.com/iliyamo/fyyur/internal/web"
)

// RegisterRoutes registers operational endpoints: the health check, the
// prometheus scrape target and the static stylesheet.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, m *metric.Metrics) {
	// Map GET /healthz to the Health handler.  Load balancers and monitoring
	// use it to verify that the service and its store are up.
	e.GET("/healthz", h.Health)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
	e.StaticFS("/static", web.Static())
}

// RegisterPages registers the directory pages.  pages middleware (the
// response cache) wraps page reads, submissions and deletes.  submits and
// deletes (the rate limit budgets) additionally wrap form posts and DELETE
// requests respectively.  Searches are posted forms that change nothing,
// so they get neither.
func RegisterPages(e *echo.Echo, h *handler.Handler, pages, submits, deletes []echo.MiddlewareFunc) {
	chain := func(extra []echo.MiddlewareFunc) []echo.MiddlewareFunc {
		return append(append([]echo.MiddlewareFunc{}, pages...), extra...)
	}
	read := func(path string, fn echo.HandlerFunc) { e.GET(path, fn, pages...) }
	search := func(path string, fn echo.HandlerFunc) { e.POST(path, fn) } // POST but read-only: no cache, no invalidation
	post := func(path string, fn echo.HandlerFunc) { e.POST(path, fn, chain(submits)...) }
	del := func(path string, fn echo.HandlerFunc) { e.DELETE(path, fn, chain(deletes)...) }

	read("/", h.Index)

	// Venues.  Static segments such as /venues/create win over the :id
	// parameter in echo's router.
	read("/venues", h.Venues)
	search("/venues/search", h.SearchVenues)
	read("/venues/create", h.CreateVenueForm)
	post("/venues/create", h.CreateVenueSubmission)
	read("/venues/:id", h.ShowVenue)
	read("/venues/:id/edit", h.EditVenueForm)
	post("/venues/:id/edit", h.EditVenueSubmission)
	del("/venues/:id", h.DeleteVenue)

	// Artists.
	read("/artists", h.Artists)
	search("/artists/search", h.SearchArtists)
	read("/artists/create", h.CreateArtistForm)
	post("/artists/create", h.CreateArtistSubmission)
	read("/artists/:id", h.ShowArtist)
	read("/artists/:id/edit", h.EditArtistForm)
	post("/artists/:id/edit", h.EditArtistSubmission)
	del("/artists/:id", h.DeleteArtist)

	// Shows.
	read("/shows", h.Shows)
	search("/shows/search", h.SearchShows)
	read("/shows/create", h.CreateShowForm)
	post("/shows/create", h.CreateShowSubmission)
}
