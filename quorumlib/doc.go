// This package contains the consensus engine which resolves a location
// of an IP address out of several independent geolocation sources.
//
// quorumlib is core of the geoquorum project. You can treat the rest of
// the application as an _example_ on how to use this library: how to
// wire sources, caches and allowlists, how to pass parameters from HTTP
// requests, how to generate responses.
//
// Resolver is a main entity of the quorumlib. It queries every source
// concurrently through a cache-aside layer, rejects addresses flagged
// as proxied unless they are allowlisted, votes on the city by the
// majority of sources with priority-ordered tie-breaking, borrows
// network data from a same-city source when the winner lacks it and
// merges in a region derived from the country.
//
// Resolver accepts an IP address and returns ConsensusResult: a single
// consolidated value. It never returns a partial result; a lookup
// either fully succeeds or fails.
package quorumlib
