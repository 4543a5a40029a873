package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/fyyur/internal/model"
)

// Querier is satisfied by both *sql.DB and *sql.Tx so that reads can run
// inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// dbTime scans DATETIME columns from either driver.  MySQL with
// parseTime=true yields time.Time; SQLite may yield text.
type dbTime struct{ t *time.Time }

var timeLayouts = []string{
	model.TimeLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

func (d dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d.t = v.UTC()
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	case nil:
		return fmt.Errorf("start_time is NULL")
	}
	return fmt.Errorf("cannot scan %T into time", src)
}

func (d dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized time %q", s)
}

// timeArg renders t the way both dialects accept for DATETIME columns.
func timeArg(t time.Time) string {
	return t.UTC().Format(model.TimeLayout)
}

func encodeGenres(genres []string) (string, error) {
	if genres == nil {
		genres = []string{}
	}
	b, err := json.Marshal(genres)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeGenres(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// containsPattern builds a LIKE pattern for a case-insensitive substring
// match against a folded column.  Wildcards in term are escaped with '!'
// which both dialects accept as an ESCAPE character.
func containsPattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(fold(term)) + "%"
}
