package ratelimit

import (
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig overrides the default limit for one route.
type EndpointConfig struct {
	Path   string        // exact path, a pattern with {name} segments, or a prefix ending in "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Requests per Window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Environment variables read by LoadConfig
const (
	EnvEnabled         = "RATE_LIMIT_ENABLED"
	EnvDefaultLimit    = "RATE_LIMIT_DEFAULT_LIMIT"
	EnvDefaultWindow   = "RATE_LIMIT_DEFAULT_WINDOW"
	EnvCleanupInterval = "RATE_LIMIT_CLEANUP_INTERVAL"
	EnvWhitelist       = "RATE_LIMIT_WHITELIST"
	EnvBlacklist       = "RATE_LIMIT_BLACKLIST"
	EnvBatchPerMinute  = "RATE_LIMIT_BATCH_PER_MINUTE"
)

// LoadConfig builds the limiter configuration from the environment. Unset or
// malformed variables keep their defaults.
func LoadConfig() *Config {
	if !envValue(EnvEnabled, true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}

	endpoints := DefaultEndpointConfigs()
	if perMinute := envValue(EnvBatchPerMinute, 0, strconv.Atoi); perMinute > 0 {
		for i := range endpoints {
			if strings.HasPrefix(endpoints[i].Path, "/match/batch") {
				endpoints[i].Limit = perMinute
				endpoints[i].Window = time.Minute
			}
		}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envValue(EnvDefaultLimit, 1000, strconv.Atoi),
		DefaultWindow:   envValue(EnvDefaultWindow, time.Minute, time.ParseDuration),
		CleanupInterval: envValue(EnvCleanupInterval, 5*time.Minute, time.ParseDuration),
		Whitelist:       parseClientList(os.Getenv(EnvWhitelist)),
		Blacklist:       parseClientList(os.Getenv(EnvBlacklist)),
		EndpointConfigs: endpoints,
	}
}

// DefaultEndpointConfigs returns the per-route limits. Routes not listed use
// the default limit; /health and /metrics are unlimited.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Batch matching normalizes every job record
		{Path: "/match/batch", Method: "POST", Limit: 60, Window: time.Minute, Burst: 5},
		{Path: "/match/batch/stream", Method: "POST", Limit: 60, Window: time.Minute, Burst: 5},

		{Path: "/extract", Method: "POST", Limit: 600, Window: time.Minute, Burst: 30},
		{Path: "/jobs/normalize", Method: "POST", Limit: 600, Window: time.Minute, Burst: 30},

		{Path: "/resumes/{id}/matches", Method: "GET", Limit: 300, Window: time.Minute, Burst: 20},
	}
}

func envValue[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		log.Printf("[rate-limit] ignoring %s=%q: %v", key, raw, err)
		return def
	}
	return v
}

// parseClientList splits a comma-separated list of client IPs. Entries that
// are not IP addresses are dropped.
func parseClientList(list string) map[string]bool {
	clients := make(map[string]bool)
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if net.ParseIP(entry) == nil {
			log.Printf("[rate-limit] ignoring invalid client address %q", entry)
			continue
		}
		clients[entry] = true
	}
	return clients
}
