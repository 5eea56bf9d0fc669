package browse

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"showsearch/internal/domain"
)

type stubSearcher struct {
	results map[string][]domain.SearchResultItem
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string) ([]domain.SearchResultItem, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

type stubFetcher struct {
	shows   map[int]domain.ShowDetail
	cast    map[int][]domain.CastMember
	showErr error
	castErr error
}

func (f *stubFetcher) Show(_ context.Context, id int) (domain.ShowDetail, error) {
	if f.showErr != nil {
		return domain.ShowDetail{}, f.showErr
	}
	show, ok := f.shows[id]
	if !ok {
		return domain.ShowDetail{}, fmt.Errorf("show %d not stubbed", id)
	}
	return show, nil
}

func (f *stubFetcher) Cast(_ context.Context, id int) ([]domain.CastMember, error) {
	if f.castErr != nil {
		return nil, f.castErr
	}
	return f.cast[id], nil
}

func batmanFixtures() (*stubSearcher, *stubFetcher) {
	searcher := &stubSearcher{results: map[string][]domain.SearchResultItem{
		"batman": {{ShowID: 1, Name: "Batman"}},
		"zzz":    {},
	}}
	fetcher := &stubFetcher{
		shows: map[int]domain.ShowDetail{
			1: {ShowID: 1, Name: "Batman", SummaryHTML: "<p>Dark</p>"},
		},
		cast: map[int][]domain.CastMember{
			1: {{PersonID: 9, PersonName: "Bruce", CharacterName: "Batman"}},
		},
	}
	return searcher, fetcher
}

func newScreen(searcher Searcher, fetcher DetailFetcher) (*QueryController, *Presenter) {
	presenter := NewPresenter(NewDetailAggregator(fetcher))
	return NewQueryController(searcher, presenter), presenter
}

func listResults(t *testing.T, p *Presenter) []domain.SearchResultItem {
	t.Helper()
	list, ok := p.State().(ListView)
	if !ok {
		t.Fatalf("expected ListView, got %T", p.State())
	}
	return list.Results
}

func TestInitialStateIsEmptyList(t *testing.T) {
	_, presenter := newScreen(&stubSearcher{}, &stubFetcher{})

	if got := listResults(t, presenter); len(got) != 0 {
		t.Fatalf("expected empty list, got %d rows", len(got))
	}
	if screen := presenter.Describe(); screen.Detail || len(screen.Rows) != 0 {
		t.Fatalf("unexpected initial screen: %+v", screen)
	}
}

func TestSearchShowsItemsInResponseOrder(t *testing.T) {
	items := []domain.SearchResultItem{
		{ShowID: 3, Name: "Charlie"},
		{ShowID: 1, Name: "Alpha", ImageURL: "a.jpg"},
		{ShowID: 2, Name: "Bravo"},
	}
	searcher := &stubSearcher{results: map[string][]domain.SearchResultItem{"show": items}}
	controller, presenter := newScreen(searcher, &stubFetcher{})

	controller.SetQuery("show")
	if err := controller.Search(context.Background()); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if got := listResults(t, presenter); !reflect.DeepEqual(got, items) {
		t.Fatalf("results = %+v, want %+v", got, items)
	}
	if !reflect.DeepEqual(presenter.Describe().Rows, []string{"Charlie", "Alpha", "Bravo"}) {
		t.Fatalf("unexpected rows: %v", presenter.Describe().Rows)
	}
}

func TestSetQueryHasNoSideEffects(t *testing.T) {
	searcher, fetcher := batmanFixtures()
	controller, _ := newScreen(searcher, fetcher)

	controller.SetQuery("  any <text> at all ")
	if controller.Query() != "  any <text> at all " {
		t.Fatalf("Query() = %q", controller.Query())
	}
	if len(searcher.queries) != 0 {
		t.Fatalf("SetQuery triggered %d searches", len(searcher.queries))
	}
}

func TestSearchTwiceDoesNotAccumulate(t *testing.T) {
	searcher, fetcher := batmanFixtures()
	controller, presenter := newScreen(searcher, fetcher)
	controller.SetQuery("batman")

	for i := 0; i < 2; i++ {
		if err := controller.Search(context.Background()); err != nil {
			t.Fatalf("Search() #%d error = %v", i+1, err)
		}
		if got := listResults(t, presenter); len(got) != 1 || got[0].Name != "Batman" {
			t.Fatalf("search #%d results = %+v", i+1, got)
		}
	}
}

func TestEmptySearchRendersNoRows(t *testing.T) {
	searcher, fetcher := batmanFixtures()
	controller, presenter := newScreen(searcher, fetcher)

	controller.SetQuery("batman")
	if err := controller.Search(context.Background()); err != nil {
		t.Fatalf("Search(batman) error = %v", err)
	}
	controller.SetQuery("zzz")
	if err := controller.Search(context.Background()); err != nil {
		t.Fatalf("Search(zzz) error = %v", err)
	}

	if got := listResults(t, presenter); len(got) != 0 {
		t.Fatalf("expected zero rows, got %+v", got)
	}
	if rows := presenter.Describe().Rows; len(rows) != 0 {
		t.Fatalf("expected zero rendered rows, got %v", rows)
	}
}

func TestFailedSearchKeepsPreviousList(t *testing.T) {
	searcher, fetcher := batmanFixtures()
	controller, presenter := newScreen(searcher, fetcher)

	controller.SetQuery("batman")
	if err := controller.Search(context.Background()); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	searcher.err = errors.New("connection refused")
	controller.SetQuery("robin")
	if err := controller.Search(context.Background()); err == nil {
		t.Fatal("expected search error")
	}

	if got := listResults(t, presenter); len(got) != 1 || got[0].Name != "Batman" {
		t.Fatalf("previous list lost: %+v", got)
	}
	status := presenter.Status()
	if status.Searching || status.Err == nil {
		t.Fatalf("unexpected status after failure: %+v", status)
	}
}

func TestEndToEndBatman(t *testing.T) {
	searcher, fetcher := batmanFixtures()
	controller, presenter := newScreen(searcher, fetcher)

	controller.SetQuery("batman")
	if err := controller.Search(context.Background()); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if rows := presenter.Describe().Rows; !reflect.DeepEqual(rows, []string{"Batman"}) {
		t.Fatalf("list rows = %v", rows)
	}

	if err := presenter.Select(context.Background(), 0); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	screen := presenter.Describe()
	if !screen.Detail {
		t.Fatalf("expected detail screen, got %+v", screen)
	}
	if screen.Title != "Batman" {
		t.Fatalf("title = %q", screen.Title)
	}
	if screen.Summary != "Dark" {
		t.Fatalf("summary = %q", screen.Summary)
	}
	if !reflect.DeepEqual(screen.Rows, []string{"Bruce as Batman"}) {
		t.Fatalf("cast rows = %v", screen.Rows)
	}

	detail, ok := presenter.State().(DetailView)
	if !ok {
		t.Fatalf("expected DetailView, got %T", presenter.State())
	}
	if detail.Detail.SummaryHTML != "<p>Dark</p>" {
		t.Fatalf("raw summary not kept: %q", detail.Detail.SummaryHTML)
	}
}

func TestSelectFailureKeepsList(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*stubFetcher)
	}{
		{name: "show fails", mutate: func(f *stubFetcher) { f.showErr = errors.New("timeout") }},
		{name: "cast fails", mutate: func(f *stubFetcher) { f.castErr = errors.New("bad json") }},
		{name: "both fail", mutate: func(f *stubFetcher) {
			f.showErr = errors.New("dns")
			f.castErr = errors.New("dns")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher, fetcher := batmanFixtures()
			tt.mutate(fetcher)
			controller, presenter := newScreen(searcher, fetcher)

			controller.SetQuery("batman")
			if err := controller.Search(context.Background()); err != nil {
				t.Fatalf("Search() error = %v", err)
			}

			if err := presenter.Select(context.Background(), 0); err == nil {
				t.Fatal("expected Select() error")
			}

			if got := listResults(t, presenter); len(got) != 1 || got[0].Name != "Batman" {
				t.Fatalf("list changed after failed selection: %+v", got)
			}
			status := presenter.Status()
			if status.Loading || status.Err == nil {
				t.Fatalf("unexpected status: %+v", status)
			}
		})
	}
}

func TestSelectRejectsInvalidIndex(t *testing.T) {
	searcher, fetcher := batmanFixtures()
	controller, presenter := newScreen(searcher, fetcher)
	controller.SetQuery("batman")
	if err := controller.Search(context.Background()); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	for _, index := range []int{-1, 1, 5} {
		if err := presenter.Select(context.Background(), index); !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("Select(%d) error = %v, want ErrInvalidSelection", index, err)
		}
	}
	if status := presenter.Status(); status.Loading {
		t.Fatal("invalid selection left loading flag set")
	}
}

func TestSelectOutsideListIsRejected(t *testing.T) {
	searcher, fetcher := batmanFixtures()
	controller, presenter := newScreen(searcher, fetcher)
	controller.SetQuery("batman")
	if err := controller.Search(context.Background()); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if err := presenter.Select(context.Background(), 0); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	if err := presenter.Select(context.Background(), 0); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("Select() in detail view error = %v", err)
	}
}

func TestSearchClearsSelection(t *testing.T) {
	searcher, fetcher := batmanFixtures()
	controller, presenter := newScreen(searcher, fetcher)
	controller.SetQuery("batman")
	if err := controller.Search(context.Background()); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if err := presenter.Select(context.Background(), 0); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	controller.SetQuery("zzz")
	if err := controller.Search(context.Background()); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got := listResults(t, presenter); len(got) != 0 {
		t.Fatalf("expected empty list after new search, got %+v", got)
	}
}

func TestBackReturnsToLastResults(t *testing.T) {
	searcher, fetcher := batmanFixtures()
	controller, presenter := newScreen(searcher, fetcher)

	if presenter.Back() {
		t.Fatal("Back() from list should report no change")
	}

	controller.SetQuery("batman")
	if err := controller.Search(context.Background()); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if err := presenter.Select(context.Background(), 0); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !presenter.Back() {
		t.Fatal("Back() from detail should report a change")
	}
	if got := listResults(t, presenter); len(got) != 1 || got[0].ShowID != 1 {
		t.Fatalf("unexpected list after Back(): %+v", got)
	}
}

func TestShowListAndShowDetailTransitions(t *testing.T) {
	presenter := NewPresenter(NewDetailAggregator(&stubFetcher{}))

	presenter.ShowDetail(domain.ShowDetail{ShowID: 4, Name: "Four"}, nil)
	screen := presenter.Describe()
	if !screen.Detail || screen.Title != "Four" || screen.Summary != noSummary {
		t.Fatalf("unexpected detail screen: %+v", screen)
	}

	presenter.ShowList([]domain.SearchResultItem{{ShowID: 4, Name: "Four"}})
	if got := listResults(t, presenter); len(got) != 1 {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestStateIsACopy(t *testing.T) {
	searcher, fetcher := batmanFixtures()
	controller, presenter := newScreen(searcher, fetcher)
	controller.SetQuery("batman")
	if err := controller.Search(context.Background()); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	list := presenter.State().(ListView)
	list.Results[0].Name = "Mutated"

	if got := listResults(t, presenter); got[0].Name != "Batman" {
		t.Fatalf("state mutated through returned value: %+v", got)
	}
}

func TestMissingImagesRender(t *testing.T) {
	screen := Describe(DetailView{
		Detail: domain.ShowDetail{Name: "No Art", Summary: "Plain"},
		Cast: []domain.CastMember{
			{PersonID: 1, PersonName: "Nobody", CharacterName: "Someone"},
			{PersonID: 2, PersonName: "Voice"},
		},
	})
	if !reflect.DeepEqual(screen.Rows, []string{"Nobody as Someone", "Voice"}) {
		t.Fatalf("rows = %v", screen.Rows)
	}

	screen = Describe(ListView{Results: []domain.SearchResultItem{{ShowID: 1, Name: "No Art"}}})
	if !reflect.DeepEqual(screen.Rows, []string{"No Art"}) {
		t.Fatalf("rows = %v", screen.Rows)
	}
}
