package stub

import (
	"sort"
	"sync"
	"time"
)

type Task struct {
	ID           string
	QueueName    string
	Title        string
	Body         string
	ScheduleTime time.Time
	CreatedAt    time.Time
}

// TaskStorage holds scheduled tasks in memory. It stands in for the
// push gateway during local development and load test runs.
type TaskStorage struct {
	mu    sync.RWMutex
	tasks map[string]*Task // taskID -> task
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		tasks: make(map[string]*Task),
	}
}

func (s *TaskStorage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]*Task)
}

func (s *TaskStorage) Add(task *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
}

// Delete removes a task and reports whether it existed.
func (s *TaskStorage) Delete(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.tasks[taskID]
	delete(s.tasks, taskID)
	return exists
}

// List returns all stored tasks ordered by schedule time.
func (s *TaskStorage) List() []TaskView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]TaskView, 0, len(s.tasks))
	for _, task := range s.tasks {
		views = append(views, TaskView{
			ID:           task.ID,
			QueueName:    task.QueueName,
			Title:        task.Title,
			Body:         task.Body,
			ScheduleTime: task.ScheduleTime,
			CreatedAt:    task.CreatedAt,
		})
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].ScheduleTime.Before(views[j].ScheduleTime)
	})

	return views
}
