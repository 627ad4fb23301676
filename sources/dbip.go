package sources

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/maxminddb-golang"

	"github.com/probekit/geoquorum/quorumlib"
)

type dbipRecord struct {
	City struct {
		Names struct {
			En string `maxminddb:"en"`
		} `maxminddb:"names"`
	} `maxminddb:"city"`
	Continent struct {
		Code string `maxminddb:"code"`
	} `maxminddb:"continent"`
	Country struct {
		IsoCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	Subdivisions []struct {
		IsoCode string `maxminddb:"iso_code"`
		Names   struct {
			En string `maxminddb:"en"`
		} `maxminddb:"names"`
	} `maxminddb:"subdivisions"`
	Location struct {
		Latitude  float64 `maxminddb:"latitude"`
		Longitude float64 `maxminddb:"longitude"`
	} `maxminddb:"location"`
	Traits struct {
		AutonomousSystemNumber       uint   `maxminddb:"autonomous_system_number"`
		AutonomousSystemOrganization string `maxminddb:"autonomous_system_organization"`
	} `maxminddb:"traits"`
}

type dbipSource struct {
	dbReader *maxminddb.Reader
}

func (d *dbipSource) Name() string {
	return NameDBIP
}

func (d *dbipSource) Lookup(_ context.Context, ip net.IP) (quorumlib.LocationRecord, error) {
	rv := quorumlib.LocationRecord{}
	record := dbipRecord{}

	if err := d.dbReader.Lookup(ip, &record); err != nil {
		return rv, fmt.Errorf("cannot lookup this ip address: %w", err)
	}

	rv.ContinentCode = record.Continent.Code
	rv.CountryCode = strings.ToUpper(record.Country.IsoCode)
	rv.City = scrubSentinelCity(record.City.Names.En)
	rv.Latitude = record.Location.Latitude
	rv.Longitude = record.Location.Longitude
	rv.ASN = record.Traits.AutonomousSystemNumber
	rv.Network = record.Traits.AutonomousSystemOrganization

	if rv.CountryCode == "US" && len(record.Subdivisions) > 0 {
		state := record.Subdivisions[0].IsoCode
		if state == "" {
			state = record.Subdivisions[0].Names.En
		}

		rv.State = state
	}

	return rv.Normalized(), nil
}

func (d *dbipSource) Close() {
	d.dbReader.Close()
}

// DB-IP labels non-geographic ranges with placeholder city names. Such
// a city must not take part in voting, but network data of the same
// record stays usable for the repair step.
func scrubSentinelCity(city string) string {
	switch quorumlib.NormalizeName(city) {
	case "reserved", "private":
		return ""
	}

	return city
}

// NewDBIP opens a DB-IP mmdb database. This source is expected to be
// configured as the least authoritative one.
func NewDBIP(path string) (quorumlib.Source, error) {
	if path == "" {
		return nil, ErrDatabasePathIsRequired
	}

	dbReader, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &dbipSource{dbReader: dbReader}, nil
}
