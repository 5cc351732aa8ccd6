package formatter

import (
	"strings"
	"testing"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
)

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil); got != "No counter recommendations available at the moment." {
		t.Fatalf("unexpected output for nil: %q", got)
	}
	if got := Format([]counters.Recommendation{}); got != NoRecommendations {
		t.Fatalf("unexpected output for empty list: %q", got)
	}
}

func TestFormatSingleBlock(t *testing.T) {
	got := Format([]counters.Recommendation{{TeamName: "X", Team: []string{"A", "B"}, Why: "w", Risk: "r"}})
	want := "**X**\n*Team:* A, B\n\n**Strategy:**\nw\n\n**Risks:**\nr"
	if got != want {
		t.Fatalf("unexpected block\nwant %q\ngot  %q", want, got)
	}
	if strings.Contains(got, "---") {
		t.Fatalf("expected no separator for a single block")
	}
}

func TestFormatBlockAndSeparatorCounts(t *testing.T) {
	for n := 1; n <= 4; n++ {
		recs := make([]counters.Recommendation, n)
		for i := range recs {
			recs[i] = counters.Recommendation{TeamName: "Team", Team: []string{"A"}, Why: "w", Risk: "r"}
		}
		got := Format(recs)
		if headers := strings.Count(got, "*Team:*"); headers != n {
			t.Fatalf("n=%d: expected %d headers, got %d", n, n, headers)
		}
		if seps := strings.Count(got, Separator); seps != n-1 {
			t.Fatalf("n=%d: expected %d separators, got %d", n, n-1, seps)
		}
		if strings.HasSuffix(got, Separator) {
			t.Fatalf("n=%d: expected no trailing separator", n)
		}
	}
}

func TestFormatDefaultLabel(t *testing.T) {
	got := Format([]counters.Recommendation{{Team: []string{"Nova"}, Why: "w", Risk: "r"}})
	if !strings.HasPrefix(got, "**Recommended Counter**\n") {
		t.Fatalf("expected default label, got %q", got)
	}
}

func TestFormatMissingFields(t *testing.T) {
	got := Format([]counters.Recommendation{{TeamName: "Only Name"}})
	if !strings.HasPrefix(got, "**Only Name**") || !strings.HasSuffix(got, "**Risks:**") {
		t.Fatalf("unexpected output for sparse recommendation: %q", got)
	}
}
