package quorumlib

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Source is a single geolocation data source. Lookup fails on any
// transport or parse error; such a failure is absorbed by the resolver
// and simply means "this source contributed nothing".
type Source interface {
	Name() string
	Lookup(ctx context.Context, ip net.IP) (LocationRecord, error)
}

// Cache is a backend for the cache-aside wrapper. Every operation may
// fail and every failure is tolerated: a failed Get is a miss, a failed
// Set still returns the freshly computed value to the caller.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Allowlist answers whether an address is exempted from VPN rejection.
// Implementations are populated once at startup and never mutated, so
// Contains has to be safe for unsynchronized concurrent use.
type Allowlist interface {
	Contains(ip net.IP) bool
}

// Logger is a contract for logging of absorbed failures. All methods
// can be called concurrently.
type Logger interface {
	LookupError(ip net.IP, source string, err error)
	CacheError(source string, err error)
	ConsensusError(ip net.IP, candidates []SourcedRecord, err error)
}

// HTTPClient is an interface for HTTP-backed sources. Usually you want
// to pass an instance created by NewHTTPClient here.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type nopLogger struct{}

func (n nopLogger) LookupError(net.IP, string, error) {}

func (n nopLogger) CacheError(string, error) {}

func (n nopLogger) ConsensusError(net.IP, []SourcedRecord, error) {}
