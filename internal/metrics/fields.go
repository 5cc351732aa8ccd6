package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod   = "method"
	AttrPath     = "path"
	AttrStatus   = "status"
	AttrUpstream = "upstream"
	AttrKind     = "kind"
	AttrResult   = "result"
)

// Upstream names used as the AttrUpstream value.
const (
	UpstreamToken    = "msf_token"
	UpstreamCounters = "msf_counters"
)
