package service

import (
	"context"
	"errors"
	"strings"

	"github.com/traintrack/traintrack-go/internal/model"
	"github.com/traintrack/traintrack-go/internal/repository"
)

var ErrTaskNotFound = errors.New("task not found")

const minTitleLength = 2

// TaskService validates task requests and delegates owner-scoped persistence
// to the repository.
type TaskService struct {
	repo *repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// List returns all tasks owned by ownerID, newest first.
func (s *TaskService) List(ctx context.Context, ownerID int64) ([]model.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Create validates the request, fills defaults and inserts a task owned by
// ownerID, returning the full created record.
//
// Defaults: priority "pt", status "scheduled"; completed follows the status
// unless explicitly supplied.
func (s *TaskService) Create(ctx context.Context, ownerID int64, req model.CreateTaskRequest) (*model.Task, error) {
	if len(strings.TrimSpace(req.Title)) < minTitleLength {
		return nil, validationError("title", "title must be at least 2 characters")
	}

	priority := model.Priority(req.Priority)
	if req.Priority == "" {
		priority = model.PriorityPT
	}
	if !priority.Valid() {
		return nil, validationError("priority", "priority must be one of pt, strength, cardio, group")
	}

	status := model.Status(req.Status)
	if req.Status == "" {
		status = model.StatusScheduled
	}
	if !status.Valid() {
		return nil, validationError("status", "status must be one of scheduled, completed, canceled, no_show")
	}

	completed := status == model.StatusCompleted
	if req.Completed != nil {
		completed = *req.Completed
	}

	task := &model.Task{
		OwnerID:   ownerID,
		Title:     req.Title,
		Completed: completed,
		Priority:  priority,
		Status:    status,
		DueDate:   req.DueDate,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Update validates each present field independently, checks the task belongs
// to ownerID, then applies the partial update. Fields are checked in the
// order title, completed, priority, status, dueDate and the first violation
// aborts the request.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID int64, req model.UpdateTaskRequest) error {
	if req.Title != nil && len(strings.TrimSpace(*req.Title)) < minTitleLength {
		return validationError("title", "title must be at least 2 characters")
	}
	if req.Priority != nil && !model.Priority(*req.Priority).Valid() {
		return validationError("priority", "priority must be one of pt, strength, cardio, group")
	}
	if req.Status != nil && !model.Status(*req.Status).Valid() {
		return validationError("status", "status must be one of scheduled, completed, canceled, no_show")
	}

	owned, err := s.repo.ExistsOwned(ctx, taskID, ownerID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrTaskNotFound
	}

	return s.repo.Update(ctx, taskID, ownerID, req)
}

// Delete removes an owned task. Deleting an absent or foreign id reports
// ErrTaskNotFound; the two cases are indistinguishable on purpose.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID int64) error {
	changed, err := s.repo.Delete(ctx, taskID, ownerID)
	if err != nil {
		return err
	}
	if changed == 0 {
		return ErrTaskNotFound
	}
	return nil
}
