package app

import (
	"math/rand"
	"sort"
	"testing"

	"guess-the-app/internal/domain"
)

func TestShuffleIsPermutationAndLeavesInputAlone(t *testing.T) {
	input := []int{1, 2, 3, 4, 5, 6, 7, 8}
	original := append([]int(nil), input...)
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		out := Shuffle(rng, input)
		for i := range input {
			if input[i] != original[i] {
				t.Fatalf("input mutated at %d: %v", i, input)
			}
		}
		sorted := append([]int(nil), out...)
		sort.Ints(sorted)
		for i := range sorted {
			if sorted[i] != original[i] {
				t.Fatalf("not a permutation: %v", out)
			}
		}
	}
}

func TestShuffleIsRoughlyUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	counts := make(map[[3]int]int)
	const rounds = 60000
	for i := 0; i < rounds; i++ {
		out := Shuffle(rng, []int{0, 1, 2})
		counts[[3]int{out[0], out[1], out[2]}]++
	}
	if len(counts) != 6 {
		t.Fatalf("expected all 6 permutations, got %d", len(counts))
	}
	expected := rounds / 6
	for perm, n := range counts {
		if n < expected*9/10 || n > expected*11/10 {
			t.Fatalf("permutation %v drawn %d times, expected about %d", perm, n, expected)
		}
	}
}

func TestShuffleHandlesEmptyAndNilSource(t *testing.T) {
	if out := Shuffle[int](nil, nil); len(out) != 0 {
		t.Fatalf("expected empty result, got %v", out)
	}
	if out := Shuffle(nil, []string{"only"}); len(out) != 1 || out[0] != "only" {
		t.Fatalf("unexpected single element shuffle %v", out)
	}
}

func TestBuildSessionReindexesOptions(t *testing.T) {
	bank := domain.DefaultBank()
	rng := rand.New(rand.NewSource(3))

	session := BuildSession(rng, bank.Questions)
	if len(session) != len(bank.Questions) {
		t.Fatalf("expected %d questions, got %d", len(bank.Questions), len(session))
	}

	byID := make(map[int]domain.Question, len(bank.Questions))
	for _, q := range bank.Questions {
		byID[q.ID] = q
	}

	for _, q := range session {
		src, ok := byID[q.ID]
		if !ok {
			t.Fatalf("unexpected question id %d", q.ID)
		}
		delete(byID, q.ID)

		if len(q.Options) != len(src.Options) {
			t.Fatalf("question %d: option count changed", q.ID)
		}
		texts := make(map[string]bool, len(src.Options))
		for _, opt := range src.Options {
			texts[opt.Text] = opt.Correct
		}
		for idx, opt := range q.Options {
			if opt.ID != idx+1 {
				t.Fatalf("question %d: option at %d has id %d", q.ID, idx, opt.ID)
			}
			correct, ok := texts[opt.Text]
			if !ok || correct != opt.Correct {
				t.Fatalf("question %d: option %q lost its identity", q.ID, opt.Text)
			}
			delete(texts, opt.Text)
		}
	}
	if len(byID) != 0 {
		t.Fatalf("questions missing from session: %v", byID)
	}

	// the bank itself keeps its authored ids
	if bank.Questions[0].Options[1].Text != "Netflix" || bank.Questions[0].Options[1].ID != 2 {
		t.Fatalf("bank options were mutated: %+v", bank.Questions[0].Options)
	}
}
