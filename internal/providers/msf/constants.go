package msf

import "time"

const (
	providerName = "msf"

	defaultTokenURL     = "https://hydra-public.prod.m3.scopelypv.com/oauth2/token"
	defaultBaseURL      = "https://api.marvelstrikeforce.com"
	defaultCountersPath = "/game/v1/counters"
	defaultUserAgent    = "msf-counter-service"
	defaultHTTPTimeout  = 10 * time.Second

	headerAPIKey = "x-api-key"

	opFetchToken    = "fetch token"
	opFetchCounters = "fetch counters"
)
