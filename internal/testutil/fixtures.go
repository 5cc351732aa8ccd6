package testutil

import (
	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
)

// SampleCharacter returns a character slot with only the name filled in.
func SampleCharacter(name string) counters.Character {
	return counters.Character{Name: name}
}

// SampleTeamRequest builds a War request for the named enemy characters.
func SampleTeamRequest(names ...string) counters.TeamRequest {
	team := make([]counters.Character, 0, len(names))
	for i, name := range names {
		c := SampleCharacter(name)
		c.ID = int64(i + 1)
		team = append(team, c)
	}
	return counters.TeamRequest{EnemyTeam: team, GameMode: counters.ModeWar, UserRoster: []counters.Character{}}
}

// SampleRecommendation returns a fully populated recommendation.
func SampleRecommendation(teamName string) counters.Recommendation {
	return counters.Recommendation{
		TeamName: teamName,
		Team:     []string{"Black Knight", "Apocalypse"},
		Why:      "why",
		Risk:     "risk",
	}
}
