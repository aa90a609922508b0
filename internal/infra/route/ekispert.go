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

// EkispertEstimator estimates transit duration from the Ekispert
// timetable API by resolving the nearest stations to both endpoints
// and asking for a course between them.
type EkispertEstimator struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewEkispertEstimator(cfg *config.RouteConfig) *EkispertEstimator {
	return &EkispertEstimator{
		baseURL: cfg.EkispertBaseURL,
		apiKey:  cfg.EkispertAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// fallbackTransitSeconds is used when a course lookup succeeds partially
// but no time can be extracted.
const fallbackTransitSeconds = 30 * 60

type ekispertStationResponse struct {
	ResultSet struct {
		Point []struct {
			Station struct {
				Code string `json:"code"`
				Name string `json:"Name"`
			} `json:"Station"`
		} `json:"Point"`
	} `json:"ResultSet"`
}

type ekispertCourseResponse struct {
	ResultSet struct {
		Course []struct {
			Route struct {
				TimeOnBoard string `json:"timeOnBoard"`
				TimeOther   string `json:"timeOther"`
				Distance    string `json:"distance"`
			} `json:"Route"`
		} `json:"Course"`
	} `json:"ResultSet"`
}

func (e *EkispertEstimator) Estimate(ctx context.Context, origin, destination domain.Coordinate, _ int) (*domain.RouteCandidate, error) {
	fromCode, err := e.nearestStationCode(ctx, origin)
	if err != nil {
		return nil, err
	}
	toCode, err := e.nearestStationCode(ctx, destination)
	if err != nil {
		return nil, err
	}
	if fromCode == toCode {
		return nil, nil
	}

	u, err := url.Parse(e.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path += "/search/course/light"
	q := u.Query()
	q.Set("key", e.apiKey)
	q.Set("from", fromCode)
	q.Set("to", toCode)
	u.RawQuery = q.Encode()

	var decoded ekispertCourseResponse
	if err := e.getJSON(ctx, "ekispert.course", u.String(), &decoded); err != nil {
		return nil, err
	}
	if len(decoded.ResultSet.Course) == 0 {
		return nil, nil
	}

	r := decoded.ResultSet.Course[0].Route
	onBoard, _ := strconv.Atoi(r.TimeOnBoard)
	other, _ := strconv.Atoi(r.TimeOther)

	durationSeconds := (onBoard + other) * 60
	if durationSeconds <= 0 {
		slog.WarnContext(ctx, "ekispert course had no usable duration, using fallback",
			slog.String("from", fromCode),
			slog.String("to", toCode),
		)
		durationSeconds = fallbackTransitSeconds
	}

	distanceM := 0
	if d, err := strconv.Atoi(r.Distance); err == nil {
		// Ekispert reports distance in units of 100 m.
		distanceM = d * 100
	}

	return &domain.RouteCandidate{
		Mode:            domain.ModeTransit,
		DurationSeconds: durationSeconds,
		DistanceMeters:  distanceM,
		EndLocation:     destination,
		Summary:         "公共交通機関",
	}, nil
}

func (e *EkispertEstimator) nearestStationCode(ctx context.Context, coord domain.Coordinate) (string, error) {
	u, err := url.Parse(e.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path += "/geo/station"
	q := u.Query()
	q.Set("key", e.apiKey)
	q.Set("geoPoint", formatCoord(coord)+",wgs84")
	u.RawQuery = q.Encode()

	var decoded ekispertStationResponse
	if err := e.getJSON(ctx, "ekispert.station", u.String(), &decoded); err != nil {
		return "", err
	}
	if len(decoded.ResultSet.Point) == 0 {
		return "", fmt.Errorf("%w: no station near %s", domain.ErrRouteLookup, formatCoord(coord))
	}

	return decoded.ResultSet.Point[0].Station.Code, nil
}

func (e *EkispertEstimator) getJSON(ctx context.Context, operation, rawURL string, out any) error {
	ctx, span := tracing.StartExternalAPISpan(ctx, operation, e.baseURL)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := e.httpClient.Do(req)
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
