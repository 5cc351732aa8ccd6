package testutil

import (
	appcounters "github.com/preston-bernstein/msf-counter-service/internal/app/counters"
	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
)

// NewServiceWithCounters builds a counter service whose token exchange and data endpoint always succeed.
func NewServiceWithCounters(recs []counters.Recommendation) *appcounters.Service {
	return appcounters.NewService(StaticToken("test-token"), GoodProvider{Recommendations: recs}, nil)
}
