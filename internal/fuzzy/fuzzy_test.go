package fuzzy

import (
	"math"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"batman", "batman", 1},
		{"Batman", "BATMAN", 1},
		{"", "", 1},
		{"abc", "", 0},
		{"kitten", "sitting", 1 - 3.0/7.0},
		{"lost", "last", 0.75},
		{"xy", "abcd", 0},
	}
	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestScoreOrdering(t *testing.T) {
	prefix := Score("Batman Beyond", "batman")
	substring := Score("The Batman", "batman")
	subsequence := Score("The Batman", "btmn")
	typo := Score("The Batman", "batmam")
	unrelated := Score("Friends", "batman")

	if prefix != 1 {
		t.Fatalf("prefix score = %v", prefix)
	}
	if substring != 0.95 {
		t.Fatalf("substring score = %v", substring)
	}
	if subsequence != 0.92 {
		t.Fatalf("subsequence score = %v", subsequence)
	}
	if !(typo < subsequence && typo > unrelated) {
		t.Fatalf("unexpected ordering: typo=%v subsequence=%v unrelated=%v", typo, subsequence, unrelated)
	}
	if Score("anything", "  ") != 0 {
		t.Fatal("blank query should score 0")
	}
}

func TestBest(t *testing.T) {
	names := []string{"Friends", "The Office", "Office Space", "Battlestar Galactica"}

	if i, ok := Best(names, "office"); !ok || i != 2 {
		t.Fatalf("Best(office) = %d, %v; want 2, true", i, ok)
	}
	if i, ok := Best(names, "battlestr"); !ok || i != 3 {
		t.Fatalf("Best(battlestr) = %d, %v; want 3, true", i, ok)
	}
	if _, ok := Best(names, "xyzzy"); ok {
		t.Fatal("expected no match for xyzzy")
	}
	if _, ok := Best(nil, "office"); ok {
		t.Fatal("expected no match on empty list")
	}
}
