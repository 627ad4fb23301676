package sources_test

import (
	"net/http"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"

	"github.com/probekit/geoquorum/quorumlib"
)

type SourceTestSuite struct {
	suite.Suite

	http quorumlib.HTTPClient
}

func (suite *SourceTestSuite) SetupTest() {
	suite.http = quorumlib.NewHTTPClient(&http.Client{},
		"test-agent",
		time.Millisecond,
		100)
}

type MockedSourceTestSuite struct {
	SourceTestSuite
}

func (suite *MockedSourceTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedSourceTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedSourceTestSuite) TearDownTest() {
	httpmock.Reset()
}
