package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// ErrNotFound is returned when the service has no match for a query
var ErrNotFound = errors.New("no geocoding match")

// Service resolves a free-text place name through an external API
type Service interface {
	Search(ctx context.Context, query string) (model.GeocodeResult, error)
}

// NominatimClient queries an OpenStreetMap Nominatim instance
type NominatimClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	email      string
}

// NewNominatimClient creates a client. The user agent is mandatory under
// the public instance's usage policy.
func NewNominatimClient(httpClient *http.Client, baseURL, userAgent, email string) *NominatimClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &NominatimClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		email:      email,
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
}

// Search returns the best match for query
func (c *NominatimClient) Search(ctx context.Context, query string) (model.GeocodeResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	if c.email != "" {
		params.Set("email", c.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return model.GeocodeResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.GeocodeResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return model.GeocodeResult{}, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return model.GeocodeResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return model.GeocodeResult{}, ErrNotFound
	}

	place := places[0]
	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return model.GeocodeResult{}, fmt.Errorf("parse latitude %q: %w", place.Lat, err)
	}
	lon, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return model.GeocodeResult{}, fmt.Errorf("parse longitude %q: %w", place.Lon, err)
	}

	return model.GeocodeResult{
		Latitude:      &lat,
		Longitude:     &lon,
		DisplayName:   place.DisplayName,
		LocationType:  place.Type,
		Source:        model.GeocodeAPI,
		OriginalQuery: query,
	}, nil
}
