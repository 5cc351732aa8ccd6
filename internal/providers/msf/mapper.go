package msf

import (
	"fmt"

	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
)

func mapRecommendations(in []counterRecommended) ([]counters.Recommendation, error) {
	out := make([]counters.Recommendation, 0, len(in))
	for i, c := range in {
		rec := counters.Recommendation{
			TeamName: c.TeamName,
			Team:     c.Team,
			Why:      c.Why,
			Risk:     c.Risk,
		}
		if rec.Team == nil {
			rec.Team = []string{}
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("counter %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
