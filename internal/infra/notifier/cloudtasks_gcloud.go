//go:build gcloud

package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/domain"
)

// CloudTasksClient schedules notifications as Cloud Tasks with a
// per-event task name so reschedules stay idempotent.
type CloudTasksClient struct {
	client     *cloudtasks.Client
	projectID  string
	locationID string
	queueID    string
	targetURL  string
	maxRetries int
}

func NewCloudTasksClient(ctx context.Context, cfg config.NotifierConfig) (*CloudTasksClient, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &CloudTasksClient{
		client:     client,
		projectID:  cfg.GCloudProjectID,
		locationID: cfg.GCloudLocationID,
		queueID:    cfg.GCloudQueueID,
		targetURL:  cfg.GCloudTargetURL,
		maxRetries: maxRetries,
	}, nil
}

func (c *CloudTasksClient) Schedule(ctx context.Context, notification *Notification) (string, error) {
	queuePath := fmt.Sprintf("projects/%s/locations/%s/queues/%s",
		c.projectID, c.locationID, c.queueID)

	payload, err := json.Marshal(notification)
	if err != nil {
		return "", fmt.Errorf("failed to marshal notification: %w", err)
	}

	taskName := fmt.Sprintf("%s/tasks/%s", queuePath, notification.EventID)

	cloudTask := &taskspb.Task{
		Name: taskName,
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        c.targetURL,
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
				Body: payload,
			},
		},
	}

	if !notification.FireAt.IsZero() {
		cloudTask.ScheduleTime = timestamppb.New(notification.FireAt)
	}

	req := &taskspb.CreateTaskRequest{
		Parent: queuePath,
		Task:   cloudTask,
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

		name, err := c.createTask(ctx, req, notification)
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

func (c *CloudTasksClient) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, notification *Notification) (string, error) {
	slog.Debug("scheduling notification to Cloud Tasks",
		slog.String("queue_path", req.Parent),
		slog.String("event_id", notification.EventID),
		slog.String("user_id", notification.UserID),
	)

	createdTask, err := c.client.CreateTask(ctx, req)
	if err != nil {
		slog.Warn("failed to create cloud task",
			slog.String("event_id", notification.EventID),
			slog.String("user_id", notification.UserID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to create cloud task: %w", err)
	}

	slog.InfoContext(ctx, "notification scheduled to Cloud Tasks",
		slog.String("task_name", createdTask.Name),
		slog.String("event_id", notification.EventID),
		slog.String("user_id", notification.UserID),
	)

	return createdTask.Name, nil
}

func (c *CloudTasksClient) Cancel(ctx context.Context, notificationID string) error {
	taskPath := notificationID

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying notification cancellation",
				slog.String("notification_id", notificationID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := c.deleteTask(ctx, taskPath)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for notification cancellation",
		slog.String("notification_id", notificationID),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to cancel notification after %d retries: %w", c.maxRetries, lastErr)
}

func (c *CloudTasksClient) deleteTask(ctx context.Context, taskPath string) error {
	req := &taskspb.DeleteTaskRequest{
		Name: taskPath,
	}

	err := c.client.DeleteTask(ctx, req)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			slog.InfoContext(ctx, "task not found in Cloud Tasks (may have already fired)",
				slog.String("task_path", taskPath),
			)
			return nil
		}

		slog.Warn("failed to delete cloud task",
			slog.String("task_path", taskPath),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete cloud task: %w", err)
	}

	slog.InfoContext(ctx, "notification cancelled in Cloud Tasks",
		slog.String("task_path", taskPath),
	)
	return nil
}

func (c *CloudTasksClient) Close() error {
	return c.client.Close()
}
