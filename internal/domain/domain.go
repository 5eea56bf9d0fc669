package domain

// SearchResultItem is one row of a show search. ImageURL is empty when the
// directory has no image for the show.
type SearchResultItem struct {
	ShowID   int
	Name     string
	ImageURL string
}

// ShowDetail is the metadata of a single show. Summary holds SummaryHTML with
// markup removed and is what gets displayed.
type ShowDetail struct {
	ShowID      int
	Name        string
	ImageURL    string
	SummaryHTML string
	Summary     string
}

type CastMember struct {
	PersonID       int
	PersonName     string
	PersonImageURL string
	CharacterName  string
}
