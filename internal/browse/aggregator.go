package browse

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"showsearch/internal/domain"
	"showsearch/internal/markup"
)

// DetailFetcher reads show metadata and cast by show id.
type DetailFetcher interface {
	Show(ctx context.Context, id int) (domain.ShowDetail, error)
	Cast(ctx context.Context, id int) ([]domain.CastMember, error)
}

// DetailAggregator combines a show and its cast into one result.
type DetailAggregator struct {
	fetcher DetailFetcher
}

func NewDetailAggregator(fetcher DetailFetcher) *DetailAggregator {
	return &DetailAggregator{fetcher: fetcher}
}

// Load fetches the show and its cast concurrently. It fails if either fetch
// fails; there is no partial result. The returned detail has its summary
// converted to plain text and the cast keeps the order the API returned.
func (a *DetailAggregator) Load(ctx context.Context, showID int) (domain.ShowDetail, []domain.CastMember, error) {
	var (
		detail domain.ShowDetail
		cast   []domain.CastMember
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := a.fetcher.Show(gctx, showID)
		if err != nil {
			return fmt.Errorf("fetch show: %w", err)
		}
		detail = d
		return nil
	})
	g.Go(func() error {
		c, err := a.fetcher.Cast(gctx, showID)
		if err != nil {
			return fmt.Errorf("fetch cast: %w", err)
		}
		cast = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.ShowDetail{}, nil, err
	}

	detail.Summary = markup.ToText(detail.SummaryHTML)
	if cast == nil {
		cast = []domain.CastMember{}
	}
	return detail, cast, nil
}
