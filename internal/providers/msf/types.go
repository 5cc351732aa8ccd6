package msf

// countersResponse is the data endpoint payload. Counters is a pointer so an absent field is detectable.
type countersResponse struct {
	Message  string                `json:"message"`
	Counters *[]counterRecommended `json:"counters"`
}

type counterRecommended struct {
	TeamName string   `json:"teamName"`
	Team     []string `json:"team"`
	Why      string   `json:"why"`
	Risk     string   `json:"risk"`
}
