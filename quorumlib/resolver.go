package quorumlib

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	DefaultSourceTimeout  = 10 * time.Second
	DefaultCacheTTL       = time.Hour
	DefaultWorkerPoolSize = 4096

	workerPoolExpireTime = time.Minute
)

// Options configures a Resolver.
type Options struct {
	// Sources in priority order. An earlier source wins vote ties and
	// is searched earlier when network data has to be borrowed. The
	// last source is the least authoritative one: it can never
	// establish a city on its own.
	Sources []Source

	// Cache enables the cache-aside layer around every source. Optional.
	Cache    Cache
	CacheTTL time.Duration

	// Allowlist exempts addresses from VPN rejection. Optional; without
	// it every proxied address is rejected.
	Allowlist Allowlist

	Logger        Logger
	Metrics       *Metrics
	SourceTimeout time.Duration

	// WorkerPoolSize bounds concurrently running batch lookups.
	WorkerPoolSize int
}

// Resolver is the consensus engine: it queries every source
// concurrently, rejects proxied addresses, votes on the city, repairs
// missing network data and merges in a derived region.
type Resolver struct {
	sources       []Source
	allowlist     Allowlist
	regions       *RegionResolver
	logger        Logger
	metrics       *Metrics
	sourceTimeout time.Duration

	rwmutex    sync.RWMutex
	closeOnce  sync.Once
	closed     bool
	workerPool *ants.PoolWithFunc
}

// Lookup resolves a single address into a consensus result. It either
// returns a fully populated result or fails: with ErrVPNDetected for a
// proxied unlisted address, with ErrUnresolvable when sources cannot
// agree. Individual source and cache failures never fail the request by
// themselves.
func (r *Resolver) Lookup(ctx context.Context, ip net.IP) (ConsensusResult, error) {
	r.rwmutex.RLock()
	defer r.rwmutex.RUnlock()

	if r.closed {
		return ConsensusResult{IP: ip}, ErrResolverShutdown
	}

	return r.resolve(ctx, ip)
}

// LookupAll resolves a batch of addresses over the worker pool. The
// returned slice is aligned with ips; per-address failures are reported
// in place and do not fail the batch.
func (r *Resolver) LookupAll(ctx context.Context, ips []net.IP) ([]BatchResult, error) {
	r.rwmutex.RLock()
	defer r.rwmutex.RUnlock()

	if r.closed {
		return nil, ErrResolverShutdown
	}

	rv := make([]BatchResult, len(ips))
	wg := &sync.WaitGroup{}

	for i, v := range ips {
		wg.Add(1)

		task := &resolveTask{
			ctx:     ctx,
			ip:      v,
			index:   i,
			results: rv,
			wg:      wg,
		}

		if err := r.workerPool.Invoke(task); err != nil {
			wg.Done()

			return nil, fmt.Errorf("cannot schedule a task: %w", err)
		}
	}

	wg.Wait()

	return rv, nil
}

// Shutdown releases the worker pool. Lookups issued afterwards fail
// with ErrResolverShutdown.
func (r *Resolver) Shutdown() {
	r.rwmutex.Lock()
	defer r.rwmutex.Unlock()

	r.closed = true

	r.closeOnce.Do(func() {
		r.workerPool.Release()
	})
}

type resolveTask struct {
	ctx     context.Context
	ip      net.IP
	index   int
	results []BatchResult
	wg      *sync.WaitGroup
}

func (r *Resolver) runTask(args interface{}) {
	task := args.(*resolveTask)
	defer task.wg.Done()

	// tasks write to distinct indexes, no synchronization is needed.
	task.results[task.index] = BatchResult{IP: task.ip}

	if result, err := r.resolve(task.ctx, task.ip); err != nil {
		task.results[task.index].Error = err.Error()
	} else {
		task.results[task.index].Result = &result
	}
}

func (r *Resolver) resolve(ctx context.Context, ip net.IP) (ConsensusResult, error) {
	r.metrics.Lookup()

	return r.merge(ip, r.queryAll(ctx, ip))
}

// queryAll launches every source concurrently and waits for all of them
// to settle. There is no early return on first success and no abort on
// first failure: a failed branch just contributes nothing. The returned
// records keep the priority order of the sources.
func (r *Resolver) queryAll(ctx context.Context, ip net.IP) []SourcedRecord {
	outcomes := make([]*LocationRecord, len(r.sources))
	wg := &sync.WaitGroup{}

	wg.Add(len(r.sources))

	for i, v := range r.sources {
		go func(i int, source Source) {
			defer wg.Done()

			taskCtx, cancel := context.WithTimeout(ctx, r.sourceTimeout)
			defer cancel()

			record, err := source.Lookup(taskCtx, ip)
			if err != nil {
				r.logger.LookupError(ip, source.Name(), err)
				r.metrics.SourceFailure(source.Name())

				return
			}

			record = record.Normalized()
			outcomes[i] = &record
		}(i, v)
	}

	wg.Wait()

	rv := make([]SourcedRecord, 0, len(outcomes))

	for i, v := range outcomes {
		if v != nil {
			rv = append(rv, SourcedRecord{
				LocationRecord: *v,
				Source:         r.sources[i].Name(),
			})
		}
	}

	return rv
}

func (r *Resolver) merge(ip net.IP, records []SourcedRecord) (ConsensusResult, error) {
	rv := ConsensusResult{IP: ip}

	if r.isVPN(ip, records) {
		r.metrics.VPNRejected()
		r.metrics.LookupFailure("vpn")

		return rv, ErrVPNDetected
	}

	candidates := make([]SourcedRecord, 0, len(records))

	for _, v := range records {
		if v.HasCity() {
			candidates = append(candidates, v)
		}
	}

	leastAuthoritative := r.sources[len(r.sources)-1].Name()

	if len(candidates) == 0 ||
		(len(candidates) == 1 && candidates[0].Source == leastAuthoritative) {
		r.metrics.LookupFailure("unresolvable")

		return rv, newUnresolvableError(ip)
	}

	ranked := rankByCity(candidates)

	// Unreachable given the filter above, asserted rather than expected.
	if len(ranked) == 0 || ranked[0].Source == leastAuthoritative {
		r.logger.ConsensusError(ip, candidates, ErrNoConsensus)
		r.metrics.LookupFailure("internal")

		return rv, ErrNoConsensus
	}

	winner := ranked[0]

	asn, network, normalizedNetwork, ok := repairNetwork(ranked, winner)
	if !ok {
		r.metrics.LookupFailure("unresolvable")

		return rv, newUnresolvableError(ip)
	}

	region := r.regions.RegionFor(winner.CountryCode)

	rv.ContinentCode = winner.ContinentCode
	rv.CountryCode = winner.CountryCode
	rv.State = winner.State
	rv.City = winner.City
	rv.NormalizedCity = winner.NormalizedCity
	rv.Latitude = winner.Latitude
	rv.Longitude = winner.Longitude
	rv.ASN = asn
	rv.Network = network
	rv.NormalizedNetwork = normalizedNetwork
	rv.Region = region.Region
	rv.NormalizedRegion = region.NormalizedRegion

	return rv, nil
}

// isVPN implements the gate which runs before any voting: a proxy flag
// of the highest priority source overrides an otherwise valid
// consensus unless the address is allowlisted.
func (r *Resolver) isVPN(ip net.IP, records []SourcedRecord) bool {
	if len(records) == 0 ||
		records[0].Source != r.sources[0].Name() ||
		!records[0].IsProxy {
		return false
	}

	return r.allowlist == nil || !r.allowlist.Contains(ip)
}

// New creates a Resolver. Sources are wrapped with the cache-aside
// layer here when a cache is given.
func New(opts Options) (*Resolver, error) {
	if len(opts.Sources) == 0 {
		return nil, ErrNoSources
	}

	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}

	sourceTimeout := opts.SourceTimeout
	if sourceTimeout <= 0 {
		sourceTimeout = DefaultSourceTimeout
	}

	poolSize := opts.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = DefaultWorkerPoolSize
	}

	sources := make([]Source, 0, len(opts.Sources))

	for _, v := range opts.Sources {
		if opts.Cache != nil {
			v = NewCachedSource(v, opts.Cache, cacheTTL, logger, opts.Metrics)
		}

		sources = append(sources, v)
	}

	rv := &Resolver{
		sources:       sources,
		allowlist:     opts.Allowlist,
		regions:       NewRegionResolver(),
		logger:        logger,
		metrics:       opts.Metrics,
		sourceTimeout: sourceTimeout,
	}

	workerPool, err := ants.NewPoolWithFunc(poolSize, rv.runTask,
		ants.WithExpiryDuration(workerPoolExpireTime))
	if err != nil {
		return nil, fmt.Errorf("cannot initialize a worker pool: %w", err)
	}

	rv.workerPool = workerPool

	return rv, nil
}
