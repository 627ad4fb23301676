package quorumlib

import (
	"net"
	"strings"
)

// LocationRecord is a normalized response of a single geolocation
// source. Absence is explicit: city and network are absent iff they are
// empty strings, ASN is absent iff it is zero, state is absent unless
// the country is US.
type LocationRecord struct {
	ContinentCode     string  `json:"continent_code"`
	CountryCode       string  `json:"country_code"`
	State             string  `json:"state,omitempty"`
	City              string  `json:"city"`
	NormalizedCity    string  `json:"normalized_city"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	Network           string  `json:"network"`
	NormalizedNetwork string  `json:"normalized_network"`
	ASN               uint    `json:"asn"`
	IsProxy           bool    `json:"is_proxy,omitempty"`
}

// HasCity tells if the record carries a city usable for voting.
func (l LocationRecord) HasCity() bool {
	return l.NormalizedCity != ""
}

// HasNetwork tells if the record carries complete network data: both a
// non-zero ASN and a network name.
func (l LocationRecord) HasNetwork() bool {
	return l.ASN != 0 && l.Network != ""
}

// Normalized returns a copy with normalized city and network fields
// derived from their display forms.
func (l LocationRecord) Normalized() LocationRecord {
	l.NormalizedCity = NormalizeName(l.City)
	l.NormalizedNetwork = NormalizeName(l.Network)

	return l
}

// SourcedRecord is a LocationRecord tagged with the name of the source
// which produced it.
type SourcedRecord struct {
	LocationRecord

	Source string `json:"source"`
}

// RegionInfo is a coarse geographic region derived solely from a
// country code, independent of voting.
type RegionInfo struct {
	Region           string `json:"region"`
	NormalizedRegion string `json:"normalized_region"`
}

// ConsensusResult is the merged output of a lookup: geographic fields
// come from the city vote winner, network fields from the repair step,
// region fields from the country of the winner. It is returned as a
// single value, never partially populated.
type ConsensusResult struct {
	IP                net.IP  `json:"ip"`
	ContinentCode     string  `json:"continent_code"`
	CountryCode       string  `json:"country_code"`
	State             string  `json:"state,omitempty"`
	City              string  `json:"city"`
	NormalizedCity    string  `json:"normalized_city"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	ASN               uint    `json:"asn"`
	Network           string  `json:"network"`
	NormalizedNetwork string  `json:"normalized_network"`
	Region            string  `json:"region"`
	NormalizedRegion  string  `json:"normalized_region"`
}

// BatchResult is a single entry of LookupAll output. Either Result or
// Error is set, never both.
type BatchResult struct {
	IP     net.IP           `json:"ip"`
	Result *ConsensusResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// NormalizeName returns the canonical form used for equality of city,
// network and region names: lowercased and trimmed. Votes are grouped
// by this form, never by the display one.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
