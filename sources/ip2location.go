package sources

import (
	"context"
	"fmt"
	"net"
	"strings"

	ip2location "github.com/ip2location/ip2location-go/v9"

	"github.com/probekit/geoquorum/quorumlib"
)

type ip2locationSource struct {
	db *ip2location.DB
}

func (i *ip2locationSource) Name() string {
	return NameIP2Location
}

func (i *ip2locationSource) Lookup(_ context.Context, ip net.IP) (quorumlib.LocationRecord, error) {
	rv := quorumlib.LocationRecord{}

	record, err := i.db.Get_all(ip.String())
	if err != nil {
		return rv, fmt.Errorf("cannot lookup this ip address: %w", err)
	}

	rv.CountryCode = strings.ToUpper(ip2locationField(record.Country_short))
	rv.City = ip2locationField(record.City)
	rv.Latitude = float64(record.Latitude)
	rv.Longitude = float64(record.Longitude)

	if rv.CountryCode == "US" {
		rv.State = ip2locationField(record.Region)
	}

	return rv.Normalized(), nil
}

func (i *ip2locationSource) Close() {
	i.db.Close()
}

// BIN databases report placeholder texts for fields they do not carry
// and for unroutable addresses. Those are absent values.
func ip2locationField(value string) string {
	if value == "-" ||
		strings.HasPrefix(value, "This parameter is unavailable") ||
		strings.HasPrefix(value, "Invalid ") {
		return ""
	}

	return value
}

// NewIP2Location opens an IP2Location BIN database. The database has no
// network data: network fields of this source are always absent and the
// resolver borrows them from a same-city source.
func NewIP2Location(path string) (quorumlib.Source, error) {
	if path == "" {
		return nil, ErrDatabasePathIsRequired
	}

	db, err := ip2location.OpenDB(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &ip2locationSource{db: db}, nil
}
