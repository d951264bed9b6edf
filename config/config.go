// Package config provides bootstrap and shared utilities used by almost every
// internal package: env vars (EnvOr, LoadEnvFile), hex parsing (ParseHexUint64,
// ParseHexBigInt), HTTP client creation (NewHTTPClient), URL sanitization
// for safe logging (SanitizeURL, RedactAPIKey), and the viper-backed Settings
// every entrypoint (cmd/ethrpcctl, the HTTP server) loads at startup. It
// lives outside internal/ so config is clearly "bootstrap" and not part of
// internal implementation.
package config

import (
	"bufio"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/you/eth-multirpc/internal/ethrpc"
	"github.com/you/eth-multirpc/internal/provider"
)

// LoadEnvFile reads a .env file and loads KEY=VALUE pairs into environment variables.
// Silently no-ops if the file is missing (err is ignored); server.Run() calls this
// before starting so .env.local is optional.
func LoadEnvFile(filename string) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			os.Setenv(key, value)
		}
	}
}

// EnvOr returns an environment variable or fallback if not set.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ParseHexUint64 parses a "0x"-prefixed hex string into uint64.
func ParseHexUint64(h string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(h, "0x"), 16, 64)
}

// ParseHexBigInt parses a "0x"-prefixed hex string into *big.Int. Returns (nil, false) on
// failure. Syntax: the two-value return (value, ok) is the usual Go pattern for "optional success."
func ParseHexBigInt(h string) (*big.Int, bool) {
	return new(big.Int).SetString(strings.TrimPrefix(h, "0x"), 16)
}

// NewHTTPClient creates an *http.Client with timeout from env (seconds). Falls back to defaultTimeout.
func NewHTTPClient(envKey string, defaultTimeout time.Duration) *http.Client {
	if s := EnvOr(envKey, ""); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 60 {
			return &http.Client{Timeout: time.Duration(n) * time.Second}
		}
	}
	return &http.Client{Timeout: defaultTimeout}
}

// SanitizeURL removes API keys and sensitive parameters from URLs.
func SanitizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return RedactAPIKey(rawURL)
	}
	u.User = nil
	q := u.Query()
	for key := range q {
		lowerKey := strings.ToLower(key)
		if strings.Contains(lowerKey, "key") || strings.Contains(lowerKey, "token") || strings.Contains(lowerKey, "secret") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()
	u.Path = RedactAPIKey(u.Path)
	return u.String()
}

// Settings is the resolved startup configuration for every entrypoint: the
// provider catalog an ethrpc.Client is built from, the chain it targets, and
// the dispatch tuning knobs. PROVIDER_URL_<LABEL> env vars are discovered by
// prefix scan since viper has no native "bind every env var matching a
// pattern" primitive.
type Settings struct {
	Viper                *viper.Viper
	Providers            []ethrpc.Endpoint
	ChainID              uint64
	ResponseSizeOverride int
	CallTimeout          time.Duration
}

// Load builds Settings from environment variables. CHAIN_ID,
// RESPONSE_SIZE_ESTIMATE, and ETHRPC_DISPATCH_TIMEOUT_SECONDS are read through
// a fresh viper instance (returned on Settings.Viper) and tune the client
// itself. Every PROVIDER_URL_<LABEL> variable, found by scanning os.Environ,
// becomes one provider named <label> (lowercased); Load returns an error when
// there is none.
func Load() (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetDefault("CHAIN_ID", ethrpc.ChainIDMainnet)
	v.SetDefault("RESPONSE_SIZE_ESTIMATE", 0)
	v.SetDefault("ETHRPC_DISPATCH_TIMEOUT_SECONDS", 5)

	endpoints := providersFromEnv()
	if len(endpoints) == 0 {
		return Settings{}, fmt.Errorf("config: no PROVIDER_URL_<LABEL> environment variables set")
	}

	return Settings{
		Viper:                v,
		Providers:            endpoints,
		ChainID:              uint64(v.GetInt64("CHAIN_ID")),
		ResponseSizeOverride: v.GetInt("RESPONSE_SIZE_ESTIMATE"),
		CallTimeout:          time.Duration(v.GetInt("ETHRPC_DISPATCH_TIMEOUT_SECONDS")) * time.Second,
	}, nil
}

// providersFromEnv scans the process environment for PROVIDER_URL_<LABEL>
// variables and turns each into an ethrpc.Endpoint, sorted by label for
// deterministic startup logs.
func providersFromEnv() []ethrpc.Endpoint {
	const prefix = "PROVIDER_URL_"
	var endpoints []ethrpc.Endpoint
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[0], prefix) {
			continue
		}
		label := strings.ToLower(strings.TrimPrefix(parts[0], prefix))
		if label == "" || parts[1] == "" {
			continue
		}
		endpoints = append(endpoints, ethrpc.Endpoint{ID: provider.New(label), URL: parts[1]})
	}
	sort.Slice(endpoints, func(i, j int) bool { return endpoints[i].ID.Less(endpoints[j].ID) })
	return endpoints
}

// RedactAPIKey redacts common API key patterns from a string.
func RedactAPIKey(s string) string {
	s = strings.ReplaceAll(s, "/v3/", "/v3/[REDACTED]")
	s = strings.ReplaceAll(s, "/v2/", "/v2/[REDACTED]")
	parts := strings.Split(s, "/[REDACTED]")
	if len(parts) > 1 {
		return parts[0] + "/[REDACTED]"
	}
	return s
}
