package sources

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/probekit/geoquorum/quorumlib"
)

type ipinfoResponse struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Loc     string `json:"loc"`
	Org     string `json:"org"`
	Privacy struct {
		VPN   bool `json:"vpn"`
		Proxy bool `json:"proxy"`
		Tor   bool `json:"tor"`
		Relay bool `json:"relay"`
	} `json:"privacy"`
}

type ipinfoSource struct {
	authToken string
	client    quorumlib.HTTPClient
}

func (i ipinfoSource) Name() string {
	return NameIPInfo
}

func (i ipinfoSource) Lookup(ctx context.Context, ip net.IP) (quorumlib.LocationRecord, error) {
	rv := quorumlib.LocationRecord{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://ipinfo.io/"+ip.String(), nil)
	if err != nil {
		return rv, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if i.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+i.authToken)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return rv, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return rv, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	jsonResponse := ipinfoResponse{}
	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return rv, fmt.Errorf("cannot parse a response: %w", err)
	}

	rv.City = jsonResponse.City
	rv.CountryCode = strings.ToUpper(jsonResponse.Country)
	rv.Latitude, rv.Longitude = parseLoc(jsonResponse.Loc)
	rv.ASN, rv.Network = parseOrg(jsonResponse.Org)
	rv.IsProxy = jsonResponse.Privacy.VPN ||
		jsonResponse.Privacy.Proxy ||
		jsonResponse.Privacy.Tor ||
		jsonResponse.Privacy.Relay

	if rv.CountryCode == "US" {
		rv.State = jsonResponse.Region
	}

	return rv.Normalized(), nil
}

// NewIPInfo is the only source reporting the proxy flag, so it is
// expected to be configured as the highest priority one.
func NewIPInfo(client quorumlib.HTTPClient, parameters map[string]string) quorumlib.Source {
	return ipinfoSource{
		authToken: parameters["auth_token"],
		client:    client,
	}
}
