package quorumlib_test

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/probekit/geoquorum/quorumlib"
)

type SourceMock struct {
	mock.Mock
}

func (m *SourceMock) Lookup(ctx context.Context, ip net.IP) (quorumlib.LocationRecord, error) {
	args := m.Called(ctx, ip)

	return args.Get(0).(quorumlib.LocationRecord), args.Error(1)
}

func (m *SourceMock) Name() string {
	return m.Called().String(0)
}

type AllowlistMock struct {
	mock.Mock
}

func (m *AllowlistMock) Contains(ip net.IP) bool {
	return m.Called(ip).Bool(0)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(ip net.IP, source string, err error) {
	m.Called(ip, source, err)
}

func (m *LoggerMock) CacheError(source string, err error) {
	m.Called(source, err)
}

func (m *LoggerMock) ConsensusError(ip net.IP, candidates []quorumlib.SourcedRecord, err error) {
	m.Called(ip, candidates, err)
}

// blockingSource never answers until its context is done. It simulates
// an unresponsive source which has to be cut off by the per-source
// timeout.
type blockingSource struct {
	name string
}

func (b blockingSource) Name() string {
	return b.name
}

func (b blockingSource) Lookup(ctx context.Context, _ net.IP) (quorumlib.LocationRecord, error) {
	<-ctx.Done()

	return quorumlib.LocationRecord{}, ctx.Err()
}

var errCacheIsDown = errors.New("cache is down")

// brokenCache fails every operation.
type brokenCache struct{}

func (b brokenCache) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, errCacheIsDown
}

func (b brokenCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return errCacheIsDown
}

func (b brokenCache) Delete(_ context.Context, _ string) error {
	return errCacheIsDown
}

// stubCache is a trivial map-backed cache without expiration.
type stubCache struct {
	values map[string][]byte
}

func (s *stubCache) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := s.values[key]
	if !ok {
		return nil, quorumlib.ErrCacheMiss
	}

	return value, nil
}

func (s *stubCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.values[key] = value

	return nil
}

func (s *stubCache) Delete(_ context.Context, key string) error {
	delete(s.values, key)

	return nil
}

func newStubCache() *stubCache {
	return &stubCache{values: map[string][]byte{}}
}

func record(city, countryCode string, asn uint, network string) quorumlib.LocationRecord {
	return quorumlib.LocationRecord{
		ContinentCode: "NA",
		CountryCode:   countryCode,
		City:          city,
		Latitude:      32.7791,
		Longitude:     -96.8028,
		Network:       network,
		ASN:           asn,
	}.Normalized()
}
