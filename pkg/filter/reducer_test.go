package filter

import (
	"testing"

	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
)

func TestReduce_CapsAndOrders(t *testing.T) {
	// Arrival order scrambled relative to source indexes, as it is after a
	// concurrent validation pass.
	accepted := []domain.ValidatedPodcast{
		{Index: 4, Title: "e"},
		{Index: 0, Title: "a"},
		{Index: 2, Title: "c"},
		{Index: 1, Title: "b"},
		{Index: 3, Title: "d"},
	}

	got := Reduce(accepted, 3)

	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Title != want {
			t.Errorf("position %d: expected %q, got %q", i, want, got[i].Title)
		}
	}

	// Input slice must not be reordered.
	if accepted[0].Index != 4 {
		t.Error("Reduce must not mutate its input")
	}
}

func TestReduce_FewerThanMax(t *testing.T) {
	accepted := []domain.ValidatedPodcast{{Index: 1}, {Index: 0}}

	got := Reduce(accepted, 3)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Index != 0 || got[1].Index != 1 {
		t.Errorf("expected source order, got %+v", got)
	}
}

func TestReduce_Deterministic(t *testing.T) {
	accepted := []domain.ValidatedPodcast{
		{Index: 3}, {Index: 1}, {Index: 4}, {Index: 0}, {Index: 2},
	}

	first := Reduce(accepted, 3)
	second := Reduce(accepted, 3)

	for i := range first {
		if first[i].Index != second[i].Index {
			t.Fatalf("Reduce not deterministic: %+v vs %+v", first, second)
		}
	}
}
