package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrg(t *testing.T) {
	testTable := []struct {
		org     string
		asn     uint
		network string
	}{
		{"AS15169 Google LLC", 15169, "Google LLC"},
		{"AS14618 Amazon.com, Inc.", 14618, "Amazon.com, Inc."},
		{" AS14618 Amazon.com, Inc. ", 14618, "Amazon.com, Inc."},
		{"", 0, ""},
		{"AS15169", 0, ""},
		{"Google LLC", 0, ""},
		{"ASxx Google LLC", 0, ""},
		{"AS0 Google LLC", 0, ""},
	}

	for _, v := range testTable {
		asn, network := parseOrg(v.org)

		assert.Equal(t, v.asn, asn, v.org)
		assert.Equal(t, v.network, network, v.org)
	}
}

func TestParseLoc(t *testing.T) {
	testTable := []struct {
		loc      string
		lat, lon float64
	}{
		{"36.7957,-76.0126", 36.7957, -76.0126},
		{" 36.7957 , -76.0126 ", 36.7957, -76.0126},
		{"", 0, 0},
		{"36.7957", 0, 0},
		{"xx,yy", 0, 0},
	}

	for _, v := range testTable {
		lat, lon := parseLoc(v.loc)

		assert.InDelta(t, v.lat, lat, 1e-6, v.loc)
		assert.InDelta(t, v.lon, lon, 1e-6, v.loc)
	}
}

func TestIP2LocationField(t *testing.T) {
	testTable := map[string]string{
		"Dallas": "Dallas",
		"-":      "",
		"This parameter is unavailable for selected data file. Please upgrade the data file.": "",
		"Invalid IP address.": "",
	}

	for given, expected := range testTable {
		assert.Equal(t, expected, ip2locationField(given), given)
	}
}

func TestScrubSentinelCity(t *testing.T) {
	testTable := map[string]string{
		"Dallas":    "Dallas",
		"Reserved":  "",
		"reserved":  "",
		" PRIVATE ": "",
		"Privateer": "Privateer",
	}

	for given, expected := range testTable {
		assert.Equal(t, expected, scrubSentinelCity(given), given)
	}
}
