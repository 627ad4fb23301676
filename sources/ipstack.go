package sources

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/probekit/geoquorum/quorumlib"
)

type ipstackResponse struct {
	Error struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
	ContinentCode string  `json:"continent_code"`
	CountryCode   string  `json:"country_code"`
	RegionCode    string  `json:"region_code"`
	City          string  `json:"city"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Connection    struct {
		ASN uint   `json:"asn"`
		ISP string `json:"isp"`
	} `json:"connection"`
}

type ipstackSource struct {
	client     quorumlib.HTTPClient
	httpScheme string
	authToken  string
}

func (i ipstackSource) Name() string {
	return NameIPStack
}

func (i ipstackSource) Lookup(ctx context.Context, ip net.IP) (quorumlib.LocationRecord, error) {
	rv := quorumlib.LocationRecord{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.buildURL(ip), nil)
	if err != nil {
		return rv, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return rv, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return rv, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	jsonResponse := ipstackResponse{}
	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return rv, fmt.Errorf("cannot parse a response: %w", err)
	}

	// ipstack reports failures in-band with a 200 status code.
	if jsonResponse.Error.Code != 0 {
		return rv, fmt.Errorf(
			"failed response: code=%d, type=%s, info=%s",
			jsonResponse.Error.Code,
			jsonResponse.Error.Type,
			jsonResponse.Error.Info)
	}

	rv.ContinentCode = jsonResponse.ContinentCode
	rv.CountryCode = strings.ToUpper(jsonResponse.CountryCode)
	rv.City = jsonResponse.City
	rv.Latitude = jsonResponse.Latitude
	rv.Longitude = jsonResponse.Longitude
	rv.ASN = jsonResponse.Connection.ASN
	rv.Network = jsonResponse.Connection.ISP

	if rv.CountryCode == "US" {
		rv.State = jsonResponse.RegionCode
	}

	return rv.Normalized(), nil
}

func (i ipstackSource) buildURL(ip net.IP) string {
	getQuery := url.Values{}

	getQuery.Set("access_key", i.authToken)
	getQuery.Set("output", "json")
	getQuery.Set("fields", "continent_code,country_code,region_code,city,latitude,longitude,connection")
	getQuery.Set("language", "en")
	getQuery.Set("hostname", "0")

	u := url.URL{
		Scheme:   i.httpScheme,
		Host:     "api.ipstack.com",
		Path:     ip.String(),
		RawQuery: getQuery.Encode(),
	}

	return u.String()
}

func NewIPStack(client quorumlib.HTTPClient, authToken string, isSecure bool) (quorumlib.Source, error) {
	scheme := "http"

	if isSecure {
		scheme = "https"
	}

	if authToken == "" {
		return nil, ErrAuthTokenIsRequired
	}

	return ipstackSource{
		client:     client,
		authToken:  authToken,
		httpScheme: scheme,
	}, nil
}
