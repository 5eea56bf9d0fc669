package browse

import (
	"fmt"

	"showsearch/internal/domain"
)

// ViewState is the screen currently shown. It is implemented only by ListView
// and DetailView; values are never mutated after they are published.
type ViewState interface {
	viewState()
}

// ListView shows the results of the latest successful search.
type ListView struct {
	Results []domain.SearchResultItem
}

// DetailView shows one show together with its cast.
type DetailView struct {
	Detail domain.ShowDetail
	Cast   []domain.CastMember
}

func (ListView) viewState()   {}
func (DetailView) viewState() {}

// Status carries the transient part of the screen that is not a ViewState:
// requests in flight and the failure of the last one.
type Status struct {
	Searching bool
	Loading   bool
	Err       error
}

const noSummary = "No summary available"

// Screen is the textual description of a ViewState.
type Screen struct {
	Detail  bool
	Title   string
	Summary string
	Rows    []string
}

// Describe renders state without consulting anything else.
func Describe(state ViewState) Screen {
	switch v := state.(type) {
	case DetailView:
		summary := v.Detail.Summary
		if summary == "" {
			summary = noSummary
		}
		rows := make([]string, 0, len(v.Cast))
		for _, member := range v.Cast {
			rows = append(rows, CastLine(member))
		}
		return Screen{Detail: true, Title: v.Detail.Name, Summary: summary, Rows: rows}
	case ListView:
		rows := make([]string, 0, len(v.Results))
		for _, item := range v.Results {
			rows = append(rows, item.Name)
		}
		return Screen{Title: "Search Results", Rows: rows}
	default:
		return Screen{Title: "Search Results"}
	}
}

// CastLine formats a cast member as "<person> as <character>".
func CastLine(member domain.CastMember) string {
	if member.CharacterName == "" {
		return member.PersonName
	}
	return fmt.Sprintf("%s as %s", member.PersonName, member.CharacterName)
}

func cloneState(state ViewState) ViewState {
	switch v := state.(type) {
	case DetailView:
		return DetailView{Detail: v.Detail, Cast: append([]domain.CastMember(nil), v.Cast...)}
	case ListView:
		return ListView{Results: append([]domain.SearchResultItem(nil), v.Results...)}
	default:
		return ListView{}
	}
}
