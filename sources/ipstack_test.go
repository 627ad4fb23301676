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

type MockedIPStackTestSuite struct {
	MockedSourceTestSuite

	source quorumlib.Source
}

func (suite *MockedIPStackTestSuite) SetupTest() {
	suite.MockedSourceTestSuite.SetupTest()

	source, err := sources.NewIPStack(suite.http, "token", false)
	if err != nil {
		panic(err)
	}

	suite.source = source
}

func (suite *MockedIPStackTestSuite) TestName() {
	suite.Equal(sources.NameIPStack, suite.source.Name())
}

func (suite *MockedIPStackTestSuite) TestNoAuthToken() {
	_, err := sources.NewIPStack(suite.http, "", false)

	suite.ErrorIs(err, sources.ErrAuthTokenIsRequired)
}

func (suite *MockedIPStackTestSuite) TestLookupClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())

	cancel()

	_, err := suite.source.Lookup(ctx, net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPStackTestSuite) TestLookupFailed() {
	httpmock.RegisterResponder("GET",
		`=~^http://api\.ipstack\.com/23\.22\.13\.113`,
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	_, err := suite.source.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPStackTestSuite) TestLookupBadJSON() {
	httpmock.RegisterResponder("GET",
		`=~^http://api\.ipstack\.com/23\.22\.13\.113`,
		httpmock.NewStringResponder(http.StatusOK, `{[`))

	_, err := suite.source.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPStackTestSuite) TestLookupInBandError() {
	httpmock.RegisterResponder("GET",
		`=~^http://api\.ipstack\.com/23\.22\.13\.113`,
		httpmock.NewStringResponder(http.StatusOK, `{
  "success": false,
  "error": {
    "code": 104,
    "type": "monthly_limit_reached",
    "info": "Your monthly API request volume has been reached."
  }
}`))

	_, err := suite.source.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPStackTestSuite) TestLookupOk() {
	httpmock.RegisterResponder("GET",
		`=~^http://api\.ipstack\.com/23\.22\.13\.113`,
		httpmock.NewStringResponder(http.StatusOK, `{
  "continent_code": "NA",
  "country_code": "US",
  "region_code": "VA",
  "city": "Virginia Beach",
  "latitude": 36.7957,
  "longitude": -76.0126,
  "connection": {
    "asn": 14618,
    "isp": "Amazon.com, Inc."
  }
}`))

	result, err := suite.source.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.NoError(err)
	suite.Equal("NA", result.ContinentCode)
	suite.Equal("US", result.CountryCode)
	suite.Equal("VA", result.State)
	suite.Equal("Virginia Beach", result.City)
	suite.EqualValues(14618, result.ASN)
	suite.Equal("Amazon.com, Inc.", result.Network)
	suite.Equal("amazon.com, inc.", result.NormalizedNetwork)
}

func TestIPStack(t *testing.T) {
	suite.Run(t, &MockedIPStackTestSuite{})
}
