package notifier

import "time"

type Notification struct {
	EventID string    `json:"-"`
	UserID  string    `json:"-"`
	FireAt  time.Time `json:"-"`

	Title string `json:"title"`
	Body  string `json:"body"`
}

type gatewayTaskRequest struct {
	Task gatewayTask `json:"task"`
}

type gatewayTask struct {
	HTTPRequest  gatewayHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type gatewayHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type gatewayTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
