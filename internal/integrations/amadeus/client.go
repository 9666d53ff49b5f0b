package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/domain/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	cacheSize = 512
	cacheTTL  = 15 * time.Minute
)

// Config holds the client-credentials pair for the Amadeus self-service APIs.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.ClientID) != "" && strings.TrimSpace(c.ClientSecret) != ""
}

// Client searches airports and cities through the reference-data locations API.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *expirable.LRU[string, []models.AirportSearchResult]
}

// NewClient returns a client whose HTTP transport fetches and refreshes tokens itself.
func NewClient(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + "/v1/security/oauth2/token",
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = 10 * time.Second
	return &Client{
		baseURL: base,
		http:    httpClient,
		cache:   expirable.NewLRU[string, []models.AirportSearchResult](cacheSize, nil, cacheTTL),
	}
}

type locationsResponse struct {
	Data []struct {
		ID       string `json:"id"`
		SubType  string `json:"subType"`
		Name     string `json:"name"`
		IataCode string `json:"iataCode"`
		TimeZone string `json:"timeZoneOffset"`
		Address  struct {
			CityName    string `json:"cityName"`
			CountryCode string `json:"countryCode"`
		} `json:"address"`
		GeoCode *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"geoCode"`
	} `json:"data"`
}

// SearchLocations queries airports and cities matching keyword. Results are cached per page.
func (c *Client) SearchLocations(ctx context.Context, keyword string, limit, offset int) ([]models.AirportSearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	key := fmt.Sprintf("%s|%d|%d", strings.ToUpper(keyword), limit, offset)
	if hit, ok := c.cache.Get(key); ok {
		return hit, nil
	}

	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("subType", "AIRPORT,CITY")
	q.Set("page[limit]", strconv.Itoa(limit))
	q.Set("page[offset]", strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/reference-data/locations?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.amadeus+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("amadeus locations: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload locationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("amadeus locations: decode: %w", err)
	}

	out := make([]models.AirportSearchResult, 0, len(payload.Data))
	for _, loc := range payload.Data {
		r := models.AirportSearchResult{
			ID:              loc.ID,
			Type:            loc.SubType,
			IataCode:        loc.IataCode,
			Name:            loc.Name,
			City:            loc.Address.CityName,
			Country:         loc.Address.CountryCode,
			Timezone:        loc.TimeZone,
			PublishedStatus: true,
		}
		if loc.GeoCode != nil {
			lat, lng := loc.GeoCode.Latitude, loc.GeoCode.Longitude
			r.Latitude, r.Longitude = &lat, &lng
		}
		out = append(out, r)
	}
	c.cache.Add(key, out)
	return out, nil
}
