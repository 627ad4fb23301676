package quorumlib

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrVPNDetected is returned when the highest priority source marks
	// an address as proxied and the address is not allowlisted. The
	// message intentionally carries no details.
	ErrVPNDetected = errors.New("vpn detected")

	// ErrUnresolvable is returned when no trustworthy city consensus
	// exists for an address, or a consensus exists but no source can
	// supply network data for that city. Match it with errors.Is, the
	// actual error is wrapped with the queried address.
	ErrUnresolvable = errors.New("unresolvable geoip")

	// ErrNoConsensus means voting produced no winner despite upstream
	// filtering. This is a defensive branch which is not expected to be
	// reachable.
	ErrNoConsensus = errors.New("internal error: voting has produced no winner")

	// ErrCacheMiss has to be returned by Cache implementations when a
	// key is absent.
	ErrCacheMiss = errors.New("cache miss")

	// ErrResolverShutdown is returned by lookups on a resolver which
	// was already shut down.
	ErrResolverShutdown = errors.New("resolver was shutdown")

	// ErrNoSources is returned by New when no sources were configured.
	ErrNoSources = errors.New("at least one source is required")
)

func newUnresolvableError(ip net.IP) error {
	return fmt.Errorf("%w: %s", ErrUnresolvable, ip)
}
