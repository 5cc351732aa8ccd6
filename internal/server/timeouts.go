package server

import "time"

const (
	readTimeout       = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	// writeSlack is added on top of the two upstream calls a counter request may make.
	writeSlack = 5 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second

// writeTimeoutFor bounds a response by the worst case of a token exchange followed by a data call.
func writeTimeoutFor(upstream time.Duration) time.Duration {
	if upstream <= 0 {
		upstream = 10 * time.Second
	}
	return 2*upstream + writeSlack
}
