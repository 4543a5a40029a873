package form

import (
	"errors"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/iliyamo/fyyur/internal/model"
)

// ErrUnparsableTime is returned when a start time matches neither a fixed
// layout nor a natural language expression.
var ErrUnparsableTime = errors.New("unrecognised date/time")

// startLayouts are tried in order before falling back to natural language.
var startLayouts = []string{
	model.TimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.RFC3339,
}

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseStartTime reads a show start time.  Fixed layouts without a zone are
// interpreted in loc; free text such as "next friday 8pm" is resolved
// relative to now.  The result is always in UTC.
func ParseStartTime(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrUnparsableTime
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC(), nil
		}
	}
	r, err := parser.Parse(raw, now.In(loc))
	if err != nil || r == nil {
		return time.Time{}, ErrUnparsableTime
	}
	return r.Time.UTC(), nil
}

// ShowInput is the create show form.  All three fields are required.
type ShowInput struct {
	ArtistID  string `form:"artist_id"`
	VenueID   string `form:"venue_id"`
	StartTime string `form:"start_time"`
}

// Parse validates the input and builds the show to insert.
func (in ShowInput) Parse(now time.Time, loc *time.Location) (model.Show, Errors) {
	var c checker
	s := model.Show{
		ArtistID: c.id("artist_id", in.ArtistID),
		VenueID:  c.id("venue_id", in.VenueID),
	}
	if strings.TrimSpace(in.StartTime) == "" {
		c.required("start_time", in.StartTime)
	} else if t, err := ParseStartTime(in.StartTime, now, loc); err != nil {
		c.errs = append(c.errs, FieldError{Field: "start_time", Message: "Not a valid datetime value."})
	} else {
		s.StartTime = t
	}
	return s, c.errs
}

