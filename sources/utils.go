package sources

import (
	"io"
	"strconv"
	"strings"
)

func flushResponse(resp io.ReadCloser) {
	io.Copy(io.Discard, resp) // nolint: errcheck
	resp.Close()
}

// parseOrg splits strings like "AS15169 Google LLC" into an ASN and a
// network name. Anything unparseable yields absent values.
func parseOrg(org string) (uint, string) {
	fields := strings.SplitN(strings.TrimSpace(org), " ", 2)
	if len(fields) != 2 || !strings.HasPrefix(fields[0], "AS") {
		return 0, ""
	}

	asn, err := strconv.ParseUint(strings.TrimPrefix(fields[0], "AS"), 10, 32)
	if err != nil || asn == 0 {
		return 0, ""
	}

	return uint(asn), strings.TrimSpace(fields[1])
}

// parseLoc splits strings like "36.7957,-76.0126" into a latitude and a
// longitude.
func parseLoc(loc string) (float64, float64) {
	fields := strings.SplitN(loc, ",", 2)
	if len(fields) != 2 {
		return 0, 0
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)

	if latErr != nil || lonErr != nil {
		return 0, 0
	}

	return lat, lon
}
