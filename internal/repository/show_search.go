package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/fyyur/internal/model"
)

// ShowSearchQuery defines filters for searching shows.  Term is matched
// against both the artist name and the venue name.
type ShowSearchQuery struct {
	Term string
}

// Search returns shows whose artist or venue name contains q.Term,
// ignoring case.  A blank term returns every show.
func (r *ShowRepo) Search(ctx context.Context, q ShowSearchQuery) ([]model.Show, error) {
	term := strings.TrimSpace(q.Term)
	if term == "" {
		return r.ListAll(ctx)
	}
	pattern := containsPattern(term)
	return r.list(ctx, "WHERE "+nameMatch(r.fold, "a.name")+" OR "+nameMatch(r.fold, "v.name"), pattern, pattern)
}
