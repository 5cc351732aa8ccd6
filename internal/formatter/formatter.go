// Package formatter renders counter recommendations as display-ready markdown.
package formatter

import (
	"strings"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
)

const (
	// NoRecommendations is returned for an empty list.
	NoRecommendations = "No counter recommendations available at the moment."
	// DefaultTeamName labels a recommendation without a team name.
	DefaultTeamName = "Recommended Counter"
	// Separator joins consecutive blocks.
	Separator = "\n\n---\n\n"
)

// Format renders one block per recommendation. It never fails.
func Format(recs []counters.Recommendation) string {
	if len(recs) == 0 {
		return NoRecommendations
	}
	blocks := make([]string, 0, len(recs))
	for _, rec := range recs {
		blocks = append(blocks, block(rec))
	}
	return strings.Join(blocks, Separator)
}

func block(rec counters.Recommendation) string {
	name := strings.TrimSpace(rec.TeamName)
	if name == "" {
		name = DefaultTeamName
	}

	var b strings.Builder
	b.WriteString("**" + name + "**\n")
	b.WriteString("*Team:* " + strings.Join(rec.Team, ", ") + "\n\n")
	b.WriteString("**Strategy:**\n" + rec.Why + "\n\n")
	b.WriteString("**Risks:**\n" + rec.Risk)
	return strings.TrimSpace(b.String())
}
