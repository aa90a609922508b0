package transitinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/soratobu/departure-planner/internal/observability/tracing"
)

const (
	defaultBaseURL = "https://api.odpt.org/api/v4"
	cacheTTL       = 5 * time.Minute
)

// DelayInfo is a live status entry for one railway line.
type DelayInfo struct {
	Line      string    `json:"line"`
	Status    string    `json:"status"`
	Delayed   bool      `json:"delayed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client queries the ODPT open data API for train information. Results
// are cached in memory for a short window since delay feeds update at
// minute granularity.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu        sync.Mutex
	cached    []DelayInfo
	fetchedAt time.Time
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type trainInformation struct {
	Railway string `json:"odpt:railway"`
	Text    struct {
		Ja string `json:"ja"`
	} `json:"odpt:trainInformationText"`
	Status struct {
		Ja string `json:"ja"`
	} `json:"odpt:trainInformationStatus"`
	Date time.Time `json:"dc:date"`
}

// Delays returns the current delay entries, optionally filtered by line
// name substring.
func (c *Client) Delays(ctx context.Context, lineFilter string) ([]DelayInfo, error) {
	all, err := c.delaysCached(ctx)
	if err != nil {
		return nil, err
	}

	if lineFilter == "" {
		return all, nil
	}

	normalized := normalizeLine(lineFilter)
	var filtered []DelayInfo
	for _, d := range all {
		if strings.Contains(normalizeLine(d.Line), normalized) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

func (c *Client) delaysCached(ctx context.Context) ([]DelayInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.fetchedAt) < cacheTTL && c.cached != nil {
		return c.cached, nil
	}

	infos, err := c.fetch(ctx)
	if err != nil {
		if c.cached != nil {
			return c.cached, nil
		}
		return nil, err
	}

	c.cached = infos
	c.fetchedAt = time.Now()
	return infos, nil
}

func (c *Client) fetch(ctx context.Context) ([]DelayInfo, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path += "/odpt:TrainInformation"
	q := u.Query()
	q.Set("acl:consumerKey", c.apiKey)
	u.RawQuery = q.Encode()

	ctx, span := tracing.StartExternalAPISpan(ctx, "odpt.train_information", c.baseURL)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch train information: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var entries []trainInformation
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode train information: %w", err)
	}

	infos := make([]DelayInfo, 0, len(entries))
	for _, e := range entries {
		status := e.Status.Ja
		if status == "" {
			status = "平常運転"
		}
		infos = append(infos, DelayInfo{
			Line:      lineName(e.Railway),
			Status:    status,
			Delayed:   status != "平常運転",
			UpdatedAt: e.Date,
		})
	}

	return infos, nil
}

// lineName strips the odpt prefix, e.g.
// "odpt.Railway:JR-East.Yamanote" becomes "JR-East.Yamanote".
func lineName(railway string) string {
	if idx := strings.Index(railway, ":"); idx >= 0 {
		return railway[idx+1:]
	}
	return railway
}

func normalizeLine(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "-", "")
	return name
}
