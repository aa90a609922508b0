package stub

import "time"

// Wire types mirroring the push gateway task API consumed by the
// planner's local notifier client.

type TaskRequest struct {
	Task TaskPayload `json:"task"`
}

type TaskPayload struct {
	HTTPRequest HTTPRequestPayload `json:"httpRequest"`
	// RFC 3339
	ScheduleTime string `json:"scheduleTime,omitempty"`
}

type HTTPRequestPayload struct {
	// base64-encoded JSON notification body
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type TaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}

type NotificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type TaskView struct {
	ID           string    `json:"id"`
	QueueName    string    `json:"queue_name"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreatedAt    time.Time `json:"created_at"`
}

type TasksResponse struct {
	Tasks []TaskView `json:"tasks"`
	Count int        `json:"count"`
}
