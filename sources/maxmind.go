package sources

import (
	"context"
	"fmt"
	"net"
	"strings"

	geoip2 "github.com/oschwald/geoip2-golang"

	"github.com/probekit/geoquorum/quorumlib"
)

type maxmindSource struct {
	cityReader *geoip2.Reader
	asnReader  *geoip2.Reader
}

func (m *maxmindSource) Name() string {
	return NameMaxmind
}

func (m *maxmindSource) Lookup(_ context.Context, ip net.IP) (quorumlib.LocationRecord, error) {
	rv := quorumlib.LocationRecord{}

	record, err := m.cityReader.City(ip)
	if err != nil {
		return rv, fmt.Errorf("cannot lookup this ip address: %w", err)
	}

	rv.ContinentCode = record.Continent.Code
	rv.CountryCode = strings.ToUpper(record.Country.IsoCode)
	rv.City = record.City.Names["en"]
	rv.Latitude = record.Location.Latitude
	rv.Longitude = record.Location.Longitude

	if rv.CountryCode == "US" && len(record.Subdivisions) > 0 {
		rv.State = record.Subdivisions[0].IsoCode
	}

	// ASN database is optional, a miss just leaves network fields absent.
	if m.asnReader != nil {
		if asn, err := m.asnReader.ASN(ip); err == nil {
			rv.ASN = asn.AutonomousSystemNumber
			rv.Network = asn.AutonomousSystemOrganization
		}
	}

	return rv.Normalized(), nil
}

func (m *maxmindSource) Close() {
	m.cityReader.Close()

	if m.asnReader != nil {
		m.asnReader.Close()
	}
}

// NewMaxmind opens GeoLite2/GeoIP2 databases. asnPath is optional:
// without it the source reports no network data.
func NewMaxmind(cityPath, asnPath string) (quorumlib.Source, error) {
	if cityPath == "" {
		return nil, ErrDatabasePathIsRequired
	}

	cityReader, err := geoip2.Open(cityPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open city database: %w", err)
	}

	rv := &maxmindSource{cityReader: cityReader}

	if asnPath != "" {
		asnReader, err := geoip2.Open(asnPath)
		if err != nil {
			cityReader.Close()

			return nil, fmt.Errorf("cannot open asn database: %w", err)
		}

		rv.asnReader = asnReader
	}

	return rv, nil
}
