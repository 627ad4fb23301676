package sources_test

import (
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"

	"github.com/probekit/geoquorum/quorumlib"
	"github.com/probekit/geoquorum/sources"
)

type MockedIPInfoTestSuite struct {
	MockedSourceTestSuite

	source quorumlib.Source
}

func (suite *MockedIPInfoTestSuite) SetupTest() {
	suite.MockedSourceTestSuite.SetupTest()

	suite.source = sources.NewIPInfo(suite.http, map[string]string{
		"auth_token": "token",
	})
}

func (suite *MockedIPInfoTestSuite) TestName() {
	suite.Equal(sources.NameIPInfo, suite.source.Name())
}

func (suite *MockedIPInfoTestSuite) TestLookupClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())

	cancel()

	_, err := suite.source.Lookup(ctx, net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPInfoTestSuite) TestLookupFailed() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/23.22.13.113",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	_, err := suite.source.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPInfoTestSuite) TestLookupBadJSON() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/23.22.13.113",
		httpmock.NewStringResponder(http.StatusOK, `{[`))

	_, err := suite.source.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPInfoTestSuite) TestLookupOk() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/23.22.13.113",
		httpmock.NewStringResponder(http.StatusOK, `{
  "ip": "23.22.13.113",
  "hostname": "ec2-23-22-13-113.compute-1.amazonaws.com",
  "city": "Virginia Beach",
  "region": "Virginia",
  "country": "US",
  "loc": "36.7957,-76.0126",
  "org": "AS14618 Amazon.com, Inc.",
  "postal": "23479",
  "timezone": "America/New_York"
}`))

	result, err := suite.source.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.NoError(err)
	suite.Equal("US", result.CountryCode)
	suite.Equal("Virginia Beach", result.City)
	suite.Equal("virginia beach", result.NormalizedCity)
	suite.Equal("Virginia", result.State)
	suite.EqualValues(14618, result.ASN)
	suite.Equal("Amazon.com, Inc.", result.Network)
	suite.InDelta(36.7957, result.Latitude, 1e-4)
	suite.InDelta(-76.0126, result.Longitude, 1e-4)
	suite.False(result.IsProxy)
}

func (suite *MockedIPInfoTestSuite) TestLookupProxy() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/23.22.13.113",
		httpmock.NewStringResponder(http.StatusOK, `{
  "ip": "23.22.13.113",
  "city": "Virginia Beach",
  "region": "Virginia",
  "country": "US",
  "loc": "36.7957,-76.0126",
  "org": "AS14618 Amazon.com, Inc.",
  "privacy": {
    "vpn": true,
    "proxy": false,
    "tor": false,
    "relay": false
  }
}`))

	result, err := suite.source.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.NoError(err)
	suite.True(result.IsProxy)
}

func (suite *MockedIPInfoTestSuite) TestLookupNoStateOutsideUS() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/212.77.98.9",
		httpmock.NewStringResponder(http.StatusOK, `{
  "ip": "212.77.98.9",
  "city": "Warsaw",
  "region": "Mazovia",
  "country": "PL",
  "loc": "52.2298,21.0118",
  "org": "AS12827 Wirtualna Polska Media S.A."
}`))

	result, err := suite.source.Lookup(context.Background(),
		net.ParseIP("212.77.98.9"))

	suite.NoError(err)
	suite.Equal("PL", result.CountryCode)
	suite.Empty(result.State)
}

func TestIPInfo(t *testing.T) {
	suite.Run(t, &MockedIPInfoTestSuite{})
}
