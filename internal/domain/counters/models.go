package counters

import "strings"

// MaxTeamSize is the number of characters fielded in one team.
const MaxTeamSize = 5

// GameMode names the game mode a counter is requested for.
type GameMode string

const (
	ModeWar      GameMode = "War"
	ModeCrucible GameMode = "Crucible"
	ModeArena    GameMode = "Arena"
	ModeRaid     GameMode = "Raid"
)

// GameModes lists the selectable game modes in display order.
var GameModes = []GameMode{ModeWar, ModeCrucible, ModeArena, ModeRaid}

// LookupGameMode matches raw against the known modes ignoring case and surrounding space.
func LookupGameMode(raw string) (GameMode, bool) {
	raw = strings.TrimSpace(raw)
	for _, m := range GameModes {
		if strings.EqualFold(raw, string(m)) {
			return m, true
		}
	}
	return GameMode(raw), false
}

// Canonical returns the known spelling of m, or m trimmed when it is not a known mode.
func (m GameMode) Canonical() GameMode {
	mode, _ := LookupGameMode(string(m))
	return mode
}

// Character is one enemy (or roster) slot as entered by the user. Only the name is required;
// the remaining fields are free text.
type Character struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" validate:"required"`
	Power string `json:"power"`
	T4s   string `json:"t4s"`
	ISO   string `json:"iso"`
}

// TeamRequest is the payload accepted by POST /api/getCounter.
type TeamRequest struct {
	EnemyTeam  []Character `json:"enemyTeam" validate:"dive"`
	GameMode   GameMode    `json:"gameMode"`
	UseRoster  bool        `json:"useRoster"`
	UserRoster []Character `json:"userRoster" validate:"dive"`
}

// Names returns the enemy character names in slot order.
func (r TeamRequest) Names() []string {
	return characterNames(r.EnemyTeam)
}

// RosterNames returns the roster character names in order.
func (r TeamRequest) RosterNames() []string {
	return characterNames(r.UserRoster)
}

// Recommendation is one suggested counter team.
type Recommendation struct {
	TeamName string   `json:"teamName"`
	Team     []string `json:"team" validate:"max=5"`
	Why      string   `json:"why"`
	Risk     string   `json:"risk"`
}

// Response is the success payload of POST /api/getCounter.
type Response struct {
	Message  string           `json:"message"`
	Counters []Recommendation `json:"counters"`
}

// NewResponse builds a Response, normalizing a nil list to an empty one.
func NewResponse(message string, recs []Recommendation) Response {
	if recs == nil {
		recs = []Recommendation{}
	}
	return Response{Message: message, Counters: recs}
}

func characterNames(chars []Character) []string {
	names := make([]string, 0, len(chars))
	for _, c := range chars {
		names = append(names, c.Name)
	}
	return names
}
