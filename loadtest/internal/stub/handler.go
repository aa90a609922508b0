package stub

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	storage *TaskStorage
}

func NewHandler(storage *TaskStorage) *Handler {
	return &Handler{storage: storage}
}

// POST /tasks and POST /tasks/:queue
func (h *Handler) HandleCreateTask(c *gin.Context) {
	queueName := c.Param("queue")
	if queueName == "" {
		queueName = "default"
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var payload NotificationPayload
	if req.Task.HTTPRequest.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Task.HTTPRequest.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "body must be base64 encoded"})
			return
		}
		if err := json.Unmarshal(decoded, &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "body must decode to a notification payload"})
			return
		}
	}

	scheduleTime := time.Now()
	if req.Task.ScheduleTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.Task.ScheduleTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduleTime: " + req.Task.ScheduleTime})
			return
		}
		scheduleTime = parsed
	}

	now := time.Now()
	task := &Task{
		ID:           uuid.New().String(),
		QueueName:    queueName,
		Title:        payload.Title,
		Body:         payload.Body,
		ScheduleTime: scheduleTime,
		CreatedAt:    now,
	}
	h.storage.Add(task)

	slog.Info("task stored",
		slog.String("task_id", task.ID),
		slog.String("queue_name", queueName),
		slog.Time("schedule_time", scheduleTime),
	)

	c.JSON(http.StatusCreated, TaskResponse{
		Name:         task.ID,
		ScheduleTime: scheduleTime.Format(time.RFC3339),
		CreateTime:   now.Format(time.RFC3339),
	})
}

// DELETE /tasks/:id
func (h *Handler) HandleDeleteTask(c *gin.Context) {
	id := c.Param("id")

	if !h.storage.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	slog.Info("task deleted", slog.String("task_id", id))

	c.Status(http.StatusNoContent)
}

// GET /tasks
func (h *Handler) HandleListTasks(c *gin.Context) {
	tasks := h.storage.List()

	slog.Debug("list tasks", slog.Int("count", len(tasks)))

	c.JSON(http.StatusOK, TasksResponse{
		Tasks: tasks,
		Count: len(tasks),
	})
}

// POST /reset
func (h *Handler) HandleReset(c *gin.Context) {
	h.storage.Reset()

	slog.Info("reset tasks")

	c.JSON(http.StatusOK, gin.H{"status": "reset complete"})
}
