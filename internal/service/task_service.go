package service

import (
	"context"
	"errors"

	"tasktracker/internal/domain"
	"tasktracker/internal/repository"

	"github.com/google/uuid"
)

// ErrEmptyUpdate is returned when an update request carries no fields.
var ErrEmptyUpdate = errors.New("no fields to update")

const (
	DefaultListLimit  = 50
	DefaultListOffset = 0
)

// TaskStore is the storage surface the service needs. Satisfied by
// *repository.TaskRepository.
type TaskStore interface {
	Create(ctx context.Context, ownerID uuid.UUID, title string, description *string, completed bool) (*domain.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Task, error)
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, upd repository.TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Completed   *bool
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

type ListTasksInput struct {
	Limit  *int
	Offset *int
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*domain.Task, error) {
	completed := false
	if in.Completed != nil {
		completed = *in.Completed
	}
	return s.store.Create(ctx, ownerID, in.Title, in.Description, completed)
}

func (s *TaskService) GetTasks(ctx context.Context, ownerID uuid.UUID, in ListTasksInput) ([]*domain.Task, error) {
	limit := DefaultListLimit
	if in.Limit != nil {
		limit = *in.Limit
	}
	offset := DefaultListOffset
	if in.Offset != nil {
		offset = *in.Offset
	}
	return s.store.List(ctx, ownerID, limit, offset)
}

func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return s.store.Get(ctx, ownerID, taskID)
}

// UpdateTask builds the update set from the fields present in the input.
// Presence, not value, decides inclusion; an empty set never reaches
// storage.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, in UpdateTaskInput) (*domain.Task, error) {
	upd := repository.TaskUpdate{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	}
	if upd.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	return s.store.Update(ctx, ownerID, taskID, upd)
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return s.store.Delete(ctx, ownerID, taskID)
}
