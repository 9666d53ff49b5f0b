package amadeus

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://amadeus.test"

func registerToken() {
	httpmock.RegisterResponder(http.MethodPost, testBase+"/v1/security/oauth2/token",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"access_token": "tok",
			"token_type":   "Bearer",
			"expires_in":   1799,
		}))
}

func TestSearchLocationsMapsAndCaches(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	registerToken()

	httpmock.RegisterResponder(http.MethodGet, testBase+"/v1/reference-data/locations",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
			assert.Equal(t, "syd", req.URL.Query().Get("keyword"))
			assert.Equal(t, "AIRPORT,CITY", req.URL.Query().Get("subType"))
			assert.Equal(t, "5", req.URL.Query().Get("page[limit]"))
			return httpmock.NewJsonResponse(200, map[string]any{
				"data": []map[string]any{{
					"id":       "ASYD",
					"subType":  "AIRPORT",
					"name":     "KINGSFORD SMITH",
					"iataCode": "SYD",
					"address":  map[string]any{"cityName": "SYDNEY", "countryCode": "AU"},
					"geoCode":  map[string]any{"latitude": -33.94, "longitude": 151.17},
				}},
			})
		})

	c := NewClient(Config{BaseURL: testBase + "/", ClientID: "id", ClientSecret: "secret"})
	got, err := c.SearchLocations(context.Background(), "syd", 5, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SYD", got[0].IataCode)
	assert.Equal(t, "SYDNEY", got[0].City)
	assert.Equal(t, "AU", got[0].Country)
	assert.True(t, got[0].PublishedStatus)
	require.NotNil(t, got[0].Latitude)

	_, err = c.SearchLocations(context.Background(), "SYD", 5, 0)
	require.NoError(t, err)
	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["GET "+testBase+"/v1/reference-data/locations"])
}

func TestSearchLocationsUpstreamError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	registerToken()
	httpmock.RegisterResponder(http.MethodGet, testBase+"/v1/reference-data/locations",
		httpmock.NewStringResponder(500, `{"errors":[{"title":"SYSTEM ERROR"}]}`))

	c := NewClient(Config{BaseURL: testBase, ClientID: "id", ClientSecret: "secret"})
	_, err := c.SearchLocations(context.Background(), "lon", 10, 0)
	assert.Error(t, err)
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{ClientID: "a", ClientSecret: "b"}.Enabled())
}
