// Package app assembles the echo server from configuration and the
// already-opened infrastructure clients.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/metric"
	"github.com/iliyamo/fyyur/internal/middleware"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/router"
	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/session"
	"github.com/iliyamo/fyyur/internal/web"
)

// Options carries the dependencies of the server.  DB is required; every
// other field has a usable zero value.
type Options struct {
	Config  config.Config
	DB      *sql.DB
	Logger  *slog.Logger
	Metrics *metric.Metrics
	Redis   *redis.Client
	Events  queue.Publisher
	Now     func() time.Time
}

// New builds the echo instance with every route and middleware registered.
func New(opts Options) (*echo.Echo, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("app: nil database")
	}
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	events := opts.Events
	if events == nil {
		events = queue.Nop{}
	}
	loc := cfg.Location()

	venues := repository.NewVenueRepo(opts.DB)
	artists := repository.NewArtistRepo(opts.DB)
	shows := repository.NewShowRepo(opts.DB)

	dir := service.NewDirectory(venues, artists, shows)
	dir.Location = loc
	dir.CountUpcoming = cfg.CountUpcomingShows
	dir.Now = opts.Now

	booking := service.NewBooking(opts.DB, venues, artists, shows)
	booking.Events = events
	booking.Logger = logger
	booking.Metrics = opts.Metrics
	booking.Location = loc
	booking.Now = opts.Now

	renderer, err := web.NewRenderer(loc)
	if err != nil {
		return nil, err
	}
	flash := session.NewFlashStore(cfg.SessionSecret, cfg.Env == "prod")
	h := handler.New(dir, booking, flash, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = h.HTTPErrorHandler
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger, opts.Metrics))

	router.RegisterRoutes(e, h, opts.Metrics)
	limiter := middleware.NewLimiter(cfg.RateLimit, opts.Redis, logger, opts.Metrics)
	router.RegisterPages(e, h,
		[]echo.MiddlewareFunc{middleware.NewRedisCache(cfg.Cache, opts.Redis, logger, opts.Metrics)},
		[]echo.MiddlewareFunc{limiter.Submissions()},
		[]echo.MiddlewareFunc{limiter.Deletions()},
	)
	return e, nil
}
