package dedup_test

import (
	"fmt"
	"sync"
	"testing"

	"sortd/internal/dedup"
)

func TestClaimFirstWriterWins(t *testing.T) {
	r := dedup.NewRegistry()

	canonical, accepted := r.Claim("digest-1", "/root/txt/a.txt")
	if !accepted || canonical != "/root/txt/a.txt" {
		t.Fatalf("first claim should win: accepted=%v canonical=%q", accepted, canonical)
	}

	canonical, accepted = r.Claim("digest-1", "/root/txt/b.txt")
	if accepted {
		t.Fatal("second claim for the same digest must be rejected")
	}
	if canonical != "/root/txt/a.txt" {
		t.Fatalf("loser should learn the existing canonical path, got %q", canonical)
	}

	if r.Len() != 1 {
		t.Fatalf("expected one entry, got %d", r.Len())
	}
}

func TestClaimDistinctDigestsIndependent(t *testing.T) {
	r := dedup.NewRegistry()
	if _, accepted := r.Claim("d1", "/a"); !accepted {
		t.Fatal("fresh digest should be accepted")
	}
	if _, accepted := r.Claim("d2", "/b"); !accepted {
		t.Fatal("unrelated digest should be accepted")
	}
}

func TestClaimRaceExactlyOneCanonical(t *testing.T) {
	// Many trials of many goroutines racing to claim one digest: exactly
	// one must win each trial, and everyone must agree on the winner.
	const (
		trials  = 200
		racers  = 16
		pattern = "/root/bin/file-%d"
	)
	for trial := 0; trial < trials; trial++ {
		r := dedup.NewRegistry()
		digest := fmt.Sprintf("digest-%d", trial)

		var wg sync.WaitGroup
		winners := make(chan string, racers)
		canonicals := make(chan string, racers)
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func(candidate string) {
				defer wg.Done()
				canonical, accepted := r.Claim(digest, candidate)
				canonicals <- canonical
				if accepted {
					winners <- candidate
				}
			}(fmt.Sprintf(pattern, i))
		}
		wg.Wait()
		close(winners)
		close(canonicals)

		var won []string
		for w := range winners {
			won = append(won, w)
		}
		if len(won) != 1 {
			t.Fatalf("trial %d: expected exactly one canonical claim, got %d", trial, len(won))
		}
		for canonical := range canonicals {
			if canonical != won[0] {
				t.Fatalf("trial %d: caller saw canonical %q but winner was %q", trial, canonical, won[0])
			}
		}
	}
}
