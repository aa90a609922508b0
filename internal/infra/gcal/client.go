package gcal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/domain"
)

// ImportedEvent is an external calendar entry offered for import.
type ImportedEvent struct {
	ExternalID string    `json:"external_id"`
	Title      string    `json:"title"`
	Location   string    `json:"location,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	AllDay     bool      `json:"all_day"`
}

// Client imports events from a user's primary Google Calendar via the
// OAuth authorization code flow.
type Client struct {
	oauth *oauth2.Config
}

func NewClient(cfg *config.CalendarConfig) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the consent page URL for the authorization code flow.
func (c *Client) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// Events lists upcoming entries from the user's primary calendar within
// the given window.
func (c *Client) Events(ctx context.Context, token *oauth2.Token, from, to time.Time) ([]ImportedEvent, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(c.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	call := svc.Events.List("primary").
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		MaxResults(100).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	imported := make([]ImportedEvent, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Status == "cancelled" {
			continue
		}

		ev, err := convertItem(item)
		if err != nil {
			continue
		}
		imported = append(imported, ev)
	}

	return imported, nil
}

func convertItem(item *calendar.Event) (ImportedEvent, error) {
	ev := ImportedEvent{
		ExternalID: item.Id,
		Title:      item.Summary,
		Location:   item.Location,
	}
	if ev.Title == "" {
		ev.Title = "(no title)"
	}

	start, allDay, err := parseEventTime(item.Start)
	if err != nil {
		return ImportedEvent{}, err
	}
	end, _, err := parseEventTime(item.End)
	if err != nil {
		return ImportedEvent{}, err
	}

	ev.StartTime = start
	ev.EndTime = end
	ev.AllDay = allDay
	return ev, nil
}

func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool, error) {
	if edt == nil {
		return time.Time{}, false, fmt.Errorf("missing event time")
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		return t, false, err
	}
	t, err := time.Parse("2006-01-02", edt.Date)
	return t, true, err
}

// ToDomainEvent converts an imported entry into a local event with
// notifications disabled until the user configures them.
func (e ImportedEvent) ToDomainEvent(userID string) domain.Event {
	return domain.Event{
		UserID:    userID,
		Title:     e.Title,
		Location:  e.Location,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		AllDay:    e.AllDay,
		Repeat:    domain.RepeatNone,
	}
}
