package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/metric"
	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
)

// Booking performs every create, update and delete.  Each call runs in its
// own transaction which is committed on success and rolled back otherwise.
// Committed changes are announced on Events; publish failures are logged
// and never fail the call.
type Booking struct {
	DB      *sql.DB
	Venues  *repository.VenueRepo
	Artists *repository.ArtistRepo
	Shows   *repository.ShowRepo

	Events   queue.Publisher
	Logger   *slog.Logger
	Metrics  *metric.Metrics
	Location *time.Location
	Now      func() time.Time
}

// NewBooking wires a Booking with a no-op publisher and the default logger.
func NewBooking(db *sql.DB, venues *repository.VenueRepo, artists *repository.ArtistRepo, shows *repository.ShowRepo) *Booking {
	return &Booking{
		DB:       db,
		Venues:   venues,
		Artists:  artists,
		Shows:    shows,
		Events:   queue.Nop{},
		Logger:   slog.Default(),
		Location: time.UTC,
	}
}

func (b *Booking) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// run executes fn inside a transaction.  Failures are rolled back, logged,
// counted and returned as a classified *Error.
func (b *Booking) run(ctx context.Context, entity, action string, fn func(tx *sql.Tx) error) (err error) {
	op := action + " " + entity
	defer func() {
		outcome := "ok"
		if err != nil {
			err = classify(op, err)
			kind := KindOf(err)
			outcome = kind.String()
			if kind == KindValidation || kind == KindNotFound {
				b.Logger.Info("mutation rejected", "op", op, "kind", outcome, "error", err)
			} else {
				b.Logger.Error("mutation failed", "op", op, "kind", outcome, "error", err)
			}
		}
		b.Metrics.ObserveMutation(entity, action, outcome)
	}()

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }() // no-op after a successful commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (b *Booking) publish(ctx context.Context, ev queue.ActivityEvent) {
	if b.Events == nil {
		return
	}
	// The request may already be finishing; the event should still go out.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := b.Events.Publish(pctx, ev); err != nil {
		b.Logger.Warn("activity event not published", "entity", ev.Entity, "action", ev.Action, "id", ev.ID, "error", err)
	}
}

// CreateVenue validates in and inserts a new venue.
func (b *Booking) CreateVenue(ctx context.Context, in form.VenueInput) (model.Venue, error) {
	var v model.Venue
	err := b.run(ctx, queue.EntityVenue, queue.ActionCreated, func(tx *sql.Tx) error {
		if errs := in.Validate(); errs != nil {
			return errs
		}
		in.Apply(&v)
		return b.Venues.CreateTx(ctx, tx, &v)
	})
	if err != nil {
		return v, err
	}
	b.publish(ctx, queue.NewEvent(queue.EntityVenue, queue.ActionCreated, v.ID, v.Name, b.now()))
	return v, nil
}

// UpdateVenue overwrites every field of venue id with in.
func (b *Booking) UpdateVenue(ctx context.Context, id int64, in form.VenueInput) (model.Venue, error) {
	var v model.Venue
	err := b.run(ctx, queue.EntityVenue, queue.ActionUpdated, func(tx *sql.Tx) error {
		cur, err := b.Venues.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		v = *cur
		if errs := in.Validate(); errs != nil {
			return errs
		}
		in.Apply(&v)
		return b.Venues.UpdateTx(ctx, tx, &v)
	})
	if err != nil {
		return v, err
	}
	b.publish(ctx, queue.NewEvent(queue.EntityVenue, queue.ActionUpdated, v.ID, v.Name, b.now()))
	return v, nil
}

// DeleteVenue removes venue id and its shows, returning the deleted row.
func (b *Booking) DeleteVenue(ctx context.Context, id int64) (model.Venue, error) {
	var v model.Venue
	err := b.run(ctx, queue.EntityVenue, queue.ActionDeleted, func(tx *sql.Tx) error {
		cur, err := b.Venues.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		v = *cur
		return b.Venues.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return v, err
	}
	b.publish(ctx, queue.NewEvent(queue.EntityVenue, queue.ActionDeleted, v.ID, v.Name, b.now()))
	return v, nil
}

// CreateArtist validates in and inserts a new artist.
func (b *Booking) CreateArtist(ctx context.Context, in form.ArtistInput) (model.Artist, error) {
	var a model.Artist
	err := b.run(ctx, queue.EntityArtist, queue.ActionCreated, func(tx *sql.Tx) error {
		if errs := in.Validate(); errs != nil {
			return errs
		}
		in.Apply(&a)
		return b.Artists.CreateTx(ctx, tx, &a)
	})
	if err != nil {
		return a, err
	}
	b.publish(ctx, queue.NewEvent(queue.EntityArtist, queue.ActionCreated, a.ID, a.Name, b.now()))
	return a, nil
}

// UpdateArtist overwrites every field of artist id with in.
func (b *Booking) UpdateArtist(ctx context.Context, id int64, in form.ArtistInput) (model.Artist, error) {
	var a model.Artist
	err := b.run(ctx, queue.EntityArtist, queue.ActionUpdated, func(tx *sql.Tx) error {
		cur, err := b.Artists.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		a = *cur
		if errs := in.Validate(); errs != nil {
			return errs
		}
		in.Apply(&a)
		return b.Artists.UpdateTx(ctx, tx, &a)
	})
	if err != nil {
		return a, err
	}
	b.publish(ctx, queue.NewEvent(queue.EntityArtist, queue.ActionUpdated, a.ID, a.Name, b.now()))
	return a, nil
}

// DeleteArtist removes artist id and its shows.
func (b *Booking) DeleteArtist(ctx context.Context, id int64) (model.Artist, error) {
	var a model.Artist
	err := b.run(ctx, queue.EntityArtist, queue.ActionDeleted, func(tx *sql.Tx) error {
		cur, err := b.Artists.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		a = *cur
		return b.Artists.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return a, err
	}
	b.publish(ctx, queue.NewEvent(queue.EntityArtist, queue.ActionDeleted, a.ID, a.Name, b.now()))
	return a, nil
}

// CreateShow validates in and books the show.  Unknown artist or venue ids
// surface as KindConstraint.
func (b *Booking) CreateShow(ctx context.Context, in form.ShowInput) (model.Show, error) {
	var s model.Show
	err := b.run(ctx, queue.EntityShow, queue.ActionCreated, func(tx *sql.Tx) error {
		parsed, errs := in.Parse(b.now(), b.Location)
		if errs != nil {
			return errs
		}
		s = parsed
		return b.Shows.CreateTx(ctx, tx, &s)
	})
	if err != nil {
		return s, err
	}
	ev := queue.NewEvent(queue.EntityShow, queue.ActionCreated, s.ID, "", b.now())
	ev.ArtistID, ev.VenueID = s.ArtistID, s.VenueID
	ev.StartTime = model.FormatTime(s.StartTime, b.Location)
	b.publish(ctx, ev)
	return s, nil
}

// FieldErrors returns the validation problems carried by err, if any.
func FieldErrors(err error) form.Errors {
	var errs form.Errors
	if errors.As(err, &errs) {
		return errs
	}
	return nil
}
