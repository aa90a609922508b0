//go:build !gcloud

package notifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/domain"
)

// PushGatewayClient schedules notifications through a Cloud Tasks
// compatible push gateway over HTTP.
type PushGatewayClient struct {
	baseURL    string
	queueName  string
	httpClient *http.Client
	maxRetries int
}

func NewPushGatewayClient(cfg config.NotifierConfig) *PushGatewayClient {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &PushGatewayClient{
		baseURL:   cfg.PushGatewayURL,
		queueName: cfg.QueueName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

func (c *PushGatewayClient) Schedule(ctx context.Context, notification *Notification) (string, error) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return "", fmt.Errorf("failed to marshal notification: %w", err)
	}

	encodedBody := base64.StdEncoding.EncodeToString(payload)

	gatewayReq := gatewayTaskRequest{
		Task: gatewayTask{
			HTTPRequest: gatewayHTTPRequest{
				Body: encodedBody,
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
			},
		},
	}

	if !notification.FireAt.IsZero() {
		gatewayReq.Task.ScheduleTime = notification.FireAt.Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(gatewayReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	url := fmt.Sprintf("%s/tasks", c.baseURL)
	if c.queueName != "" && c.queueName != "default" {
		url = fmt.Sprintf("%s/tasks/%s", c.baseURL, c.queueName)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying notification scheduling",
				slog.String("event_id", notification.EventID),
				slog.String("user_id", notification.UserID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		name, err := c.doSchedule(ctx, url, reqBody, notification)
		if err == nil {
			return name, nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for notification scheduling",
		slog.String("event_id", notification.EventID),
		slog.String("user_id", notification.UserID),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return "", fmt.Errorf("%w: after %d retries: %v", domain.ErrNotificationScheduling, c.maxRetries, lastErr)
}

func (c *PushGatewayClient) doSchedule(ctx context.Context, url string, reqBody []byte, notification *Notification) (string, error) {
	slog.Debug("scheduling notification via push gateway",
		slog.String("url", url),
		slog.String("event_id", notification.EventID),
		slog.String("user_id", notification.UserID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to send request to push gateway",
			slog.String("event_id", notification.EventID),
			slog.String("user_id", notification.UserID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.Warn("unexpected status code from push gateway",
			slog.String("event_id", notification.EventID),
			slog.String("user_id", notification.UserID),
			slog.Int("status_code", resp.StatusCode),
		)
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var gatewayResp gatewayTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&gatewayResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	slog.InfoContext(ctx, "notification scheduled via push gateway",
		slog.String("task_name", gatewayResp.Name),
		slog.String("event_id", notification.EventID),
		slog.String("user_id", notification.UserID),
	)

	return gatewayResp.Name, nil
}

func (c *PushGatewayClient) Cancel(ctx context.Context, notificationID string) error {
	url := fmt.Sprintf("%s/tasks/%s", c.baseURL, notificationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		slog.InfoContext(ctx, "notification not found on push gateway (may have already fired)",
			slog.String("notification_id", notificationID),
		)
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	slog.InfoContext(ctx, "notification cancelled on push gateway",
		slog.String("notification_id", notificationID),
	)
	return nil
}
