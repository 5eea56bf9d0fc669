package browse

import (
	"context"
	"log"
	"sync"

	"showsearch/internal/domain"
)

// Searcher runs a show search against the directory.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.SearchResultItem, error)
}

// QueryController holds the search text and issues searches.
type QueryController struct {
	searcher  Searcher
	presenter *Presenter

	mu    sync.Mutex
	query string
}

func NewQueryController(searcher Searcher, presenter *Presenter) *QueryController {
	return &QueryController{searcher: searcher, presenter: presenter}
}

// SetQuery replaces the held search text. It does not validate or search.
func (c *QueryController) SetQuery(text string) {
	c.mu.Lock()
	c.query = text
	c.mu.Unlock()
}

func (c *QueryController) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Search looks up the held query. On success the presenter shows the new
// results as a list and any selection is gone; on failure the state is left
// as it was and the error is logged and returned. A newer search issued
// while this one is outstanding wins.
func (c *QueryController) Search(ctx context.Context) error {
	_, err := c.Run(ctx)
	return err
}

// Run is Search that also reports whether the response reached the
// presenter. It is false when a newer search superseded this one.
func (c *QueryController) Run(ctx context.Context) (applied bool, err error) {
	query := c.Query()
	gen := c.presenter.beginSearch()

	items, err := c.searcher.Search(ctx, query)
	if !c.presenter.finishSearch(gen, items, err) {
		log.Printf("discarding stale search response for %q", query)
		return false, nil
	}
	if err != nil {
		log.Printf("search %q: %v", query, err)
		return false, err
	}
	log.Printf("search %q returned %d shows", query, len(items))
	return true, nil
}
