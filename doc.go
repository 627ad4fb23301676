// Geoquorum is a service which resolves geographic and network location
// of IP addresses for a network-probing platform.
//
// Idea is simple: a probe connects from an address like 1.2.3.4 and you
// want to know where it runs and which network operates it. No single
// geolocation database is trustworthy enough on its own, so geoquorum
// asks several of them and reconciles the answers.
//
// Tool itself is organized into 3 logical parts:
//
// Quorumlib
//
// quorumlib is a main package of the application which contains the
// Resolver struct and all consensus logic: concurrent source fan-out
// with a cache-aside layer, VPN rejection with an allowlist override,
// majority voting on a city with priority-ordered tie-breaking, network
// data repair and region derivation.
//
// Sources
//
// This package has a set of source implementations covering both HTTP
// APIs (ipinfo, ipstack) and local databases (maxmind, ip2location,
// dbip).
//
// Main package
//
// A main package itself is an example of how to wire both quorumlib and
// sources. But this is a full example which provides CLI. Resulting
// binary starts http server and you can use it in your infrastructure
// as is.
package main
