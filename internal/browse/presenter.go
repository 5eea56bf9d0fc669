package browse

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"showsearch/internal/domain"
)

// ErrInvalidSelection is returned when a row is selected outside a list view
// or with an index that is not on the list.
var ErrInvalidSelection = errors.New("invalid selection")

// Presenter owns the current ViewState and performs selection.
//
// Every request is tagged with a generation for its slot (search or detail).
// A response whose generation is no longer the latest for its slot is dropped,
// so overlapping requests never apply out of order. Starting a search also
// invalidates any detail request in flight.
type Presenter struct {
	details *DetailAggregator

	mu        sync.Mutex
	state     ViewState
	results   []domain.SearchResultItem
	status    Status
	searchGen uint64
	detailGen uint64
}

func NewPresenter(details *DetailAggregator) *Presenter {
	return &Presenter{
		details: details,
		state:   ListView{Results: []domain.SearchResultItem{}},
	}
}

// State returns a copy of the active view state.
func (p *Presenter) State() ViewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneState(p.state)
}

func (p *Presenter) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Describe renders the active view state.
func (p *Presenter) Describe() Screen {
	return Describe(p.State())
}

// ShowList switches to a list of items, dropping any selection.
func (p *Presenter) ShowList(items []domain.SearchResultItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.showListLocked(items)
	p.detailGen++
	p.status.Loading = false
	p.status.Err = nil
}

// ShowDetail switches to the detail of a show.
func (p *Presenter) ShowDetail(detail domain.ShowDetail, cast []domain.CastMember) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.showDetailLocked(detail, cast)
	p.status.Loading = false
	p.status.Err = nil
}

// Back leaves a detail view for the list it was opened from. It reports
// whether the state changed.
func (p *Presenter) Back() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.state.(DetailView); !ok {
		return false
	}
	p.state = ListView{Results: append([]domain.SearchResultItem(nil), p.results...)}
	p.detailGen++
	p.status.Loading = false
	p.status.Err = nil
	return true
}

// Select opens row index of the current list. The state moves to DetailView
// only when both the show and its cast were fetched; on failure it stays on
// the list and the error is logged, recorded in Status and returned.
func (p *Presenter) Select(ctx context.Context, index int) error {
	item, gen, err := p.beginSelect(index)
	if err != nil {
		return err
	}

	detail, cast, err := p.details.Load(ctx, item.ShowID)
	if !p.finishDetail(gen, detail, cast, err) {
		log.Printf("discarding stale detail response for show %d", item.ShowID)
		return nil
	}
	if err != nil {
		log.Printf("load show %d: %v", item.ShowID, err)
		return fmt.Errorf("load %s: %w", item.Name, err)
	}
	log.Printf("showing %s (%d cast members)", detail.Name, len(cast))
	return nil
}

// Open loads a show by id from any state. It shares the detail slot with
// Select, so whichever of the two was issued last decides the screen.
func (p *Presenter) Open(ctx context.Context, showID int) error {
	gen := p.beginDetail()

	detail, cast, err := p.details.Load(ctx, showID)
	if !p.finishDetail(gen, detail, cast, err) {
		log.Printf("discarding stale detail response for show %d", showID)
		return nil
	}
	if err != nil {
		log.Printf("load show %d: %v", showID, err)
		return fmt.Errorf("load show %d: %w", showID, err)
	}
	log.Printf("showing %s (%d cast members)", detail.Name, len(cast))
	return nil
}

func (p *Presenter) beginDetail() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.beginDetailLocked()
}

func (p *Presenter) beginDetailLocked() uint64 {
	p.detailGen++
	p.status.Loading = true
	p.status.Err = nil
	return p.detailGen
}

func (p *Presenter) beginSelect(index int) (domain.SearchResultItem, uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	list, ok := p.state.(ListView)
	if !ok {
		return domain.SearchResultItem{}, 0, fmt.Errorf("%w: not showing a list", ErrInvalidSelection)
	}
	if index < 0 || index >= len(list.Results) {
		return domain.SearchResultItem{}, 0, fmt.Errorf("%w: row %d of %d", ErrInvalidSelection, index+1, len(list.Results))
	}

	return list.Results[index], p.beginDetailLocked(), nil
}

func (p *Presenter) finishDetail(gen uint64, detail domain.ShowDetail, cast []domain.CastMember, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.detailGen {
		return false
	}
	p.status.Loading = false
	if err != nil {
		p.status.Err = err
		return true
	}
	p.showDetailLocked(detail, cast)
	p.status.Err = nil
	return true
}

func (p *Presenter) beginSearch() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.searchGen++
	p.detailGen++
	p.status = Status{Searching: true}
	return p.searchGen
}

func (p *Presenter) finishSearch(gen uint64, items []domain.SearchResultItem, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.searchGen {
		return false
	}
	p.status.Searching = false
	if err != nil {
		p.status.Err = err
		return true
	}
	p.showListLocked(items)
	p.status.Err = nil
	return true
}

func (p *Presenter) showListLocked(items []domain.SearchResultItem) {
	p.results = append([]domain.SearchResultItem{}, items...)
	p.state = ListView{Results: append([]domain.SearchResultItem{}, items...)}
}

func (p *Presenter) showDetailLocked(detail domain.ShowDetail, cast []domain.CastMember) {
	p.state = DetailView{Detail: detail, Cast: append([]domain.CastMember{}, cast...)}
}
