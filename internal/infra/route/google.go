package route

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/domain"
	"github.com/soratobu/departure-planner/internal/observability/tracing"
)

// GoogleClient wraps the Google Maps Directions, Geocoding and Places
// HTTP APIs.
type GoogleClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGoogleClient(cfg *config.RouteConfig) *GoogleClient {
	return &GoogleClient{
		baseURL: cfg.GoogleMapsBaseURL,
		apiKey:  cfg.GoogleMapsAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Summary string `json:"summary"`
		Legs    []struct {
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			EndLocation struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"end_location"`
		} `json:"legs"`
	} `json:"routes"`
}

// Directions returns the best route between two coordinates for a
// walking or driving mode.
func (c *GoogleClient) Directions(ctx context.Context, origin, destination domain.Coordinate, mode domain.TransportMode) (*domain.RouteCandidate, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path += "/directions/json"
	q := u.Query()
	q.Set("origin", formatCoord(origin))
	q.Set("destination", formatCoord(destination))
	q.Set("mode", mode.String())
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	var decoded directionsResponse
	if err := c.getJSON(ctx, "directions", u.String(), &decoded); err != nil {
		return nil, err
	}

	if decoded.Status != "OK" {
		if decoded.Status == "ZERO_RESULTS" {
			return nil, nil
		}
		slog.WarnContext(ctx, "directions API returned non-OK status",
			slog.String("status", decoded.Status),
			slog.String("mode", mode.String()),
		)
		return nil, fmt.Errorf("%w: directions status %s", domain.ErrRouteLookup, decoded.Status)
	}
	if len(decoded.Routes) == 0 || len(decoded.Routes[0].Legs) == 0 {
		return nil, nil
	}

	leg := decoded.Routes[0].Legs[0]

	return &domain.RouteCandidate{
		Mode:            mode,
		DurationSeconds: leg.Duration.Value,
		DistanceMeters:  leg.Distance.Value,
		Summary:         decoded.Routes[0].Summary,
		EndLocation: domain.Coordinate{
			Latitude:  leg.EndLocation.Lat,
			Longitude: leg.EndLocation.Lng,
		},
	}, nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a free-text address to a coordinate.
func (c *GoogleClient) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path += "/geocode/json"
	q := u.Query()
	q.Set("address", address)
	q.Set("key", c.apiKey)
	q.Set("language", "ja")
	u.RawQuery = q.Encode()

	var decoded geocodeResponse
	if err := c.getJSON(ctx, "geocode", u.String(), &decoded); err != nil {
		return domain.Coordinate{}, err
	}

	if decoded.Status != "OK" || len(decoded.Results) == 0 {
		return domain.Coordinate{}, fmt.Errorf("%w: geocode status %s", domain.ErrRouteLookup, decoded.Status)
	}

	loc := decoded.Results[0].Geometry.Location
	return domain.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

type placesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

// NearestStation finds the closest transit station to a coordinate via
// the Places nearby search.
func (c *GoogleClient) NearestStation(ctx context.Context, coord domain.Coordinate) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path += "/place/nearbysearch/json"
	q := u.Query()
	q.Set("location", formatCoord(coord))
	q.Set("radius", "1000")
	q.Set("type", "transit_station")
	q.Set("key", c.apiKey)
	q.Set("language", "ja")
	u.RawQuery = q.Encode()

	var decoded placesResponse
	if err := c.getJSON(ctx, "places.nearby", u.String(), &decoded); err != nil {
		return "", err
	}

	if decoded.Status != "OK" && decoded.Status != "ZERO_RESULTS" {
		return "", fmt.Errorf("%w: places status %s", domain.ErrRouteLookup, decoded.Status)
	}
	if len(decoded.Results) == 0 {
		return "", fmt.Errorf("%w: no station within search radius", domain.ErrRouteLookup)
	}

	return decoded.Results[0].Name, nil
}

func (c *GoogleClient) getJSON(ctx context.Context, operation, rawURL string, out any) error {
	ctx, span := tracing.StartExternalAPISpan(ctx, operation, c.baseURL)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRouteLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code %d", domain.ErrRouteLookup, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", domain.ErrRouteLookup, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrRouteLookup, err)
	}

	return nil
}

func formatCoord(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}
