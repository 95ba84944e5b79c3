package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tomlord1122/todo-api/internal/domain"
	"github.com/Tomlord1122/todo-api/internal/repository"
)

var (
	// ErrInvalidInput marks client mistakes: a malformed id or a missing field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a well-formed id that matches no todo.
	ErrNotFound = errors.New("todo item not found")
)

// CreateTodoRequest holds the data needed to create a new todo.
// Pointers let the service tell a missing field from a zero value.
type CreateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// UpdateTodoRequest carries the full replacement for title and completed.
type UpdateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// TodoResponse is the wire representation of a todo.
type TodoResponse struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TodoService defines the operations for managing todos.
// Every method makes at most one repository call.
type TodoService interface {
	GetAllTodos(ctx context.Context) ([]TodoResponse, error)

	// CreateTodo returns the identifier assigned to the new todo.
	CreateTodo(ctx context.Context, req CreateTodoRequest) (string, error)

	GetTodoByID(ctx context.Context, id string) (*TodoResponse, error)

	UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) error

	DeleteTodo(ctx context.Context, id string) error
}

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates a new instance of todoService.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

func (s *todoService) GetAllTodos(ctx context.Context) ([]TodoResponse, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, toResponse(todo))
	}
	return responses, nil
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (string, error) {
	if err := requireFields(req.Title, req.Completed); err != nil {
		return "", err
	}

	id, err := s.repo.Insert(ctx, *req.Title, *req.Completed)
	if err != nil {
		return "", fmt.Errorf("create todo: %w", err)
	}
	return id, nil
}

func (s *todoService) GetTodoByID(ctx context.Context, id string) (*TodoResponse, error) {
	if !repository.IsValidID(id) {
		return nil, fmt.Errorf("%w: malformed id %q", ErrInvalidInput, id)
	}

	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	resp := toResponse(*todo)
	return &resp, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) error {
	if !repository.IsValidID(id) {
		return fmt.Errorf("%w: malformed id %q", ErrInvalidInput, id)
	}
	if err := requireFields(req.Title, req.Completed); err != nil {
		return err
	}

	matched, err := s.repo.UpdateByID(ctx, id, *req.Title, *req.Completed)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id string) error {
	if !repository.IsValidID(id) {
		return fmt.Errorf("%w: malformed id %q", ErrInvalidInput, id)
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func requireFields(title *string, completed *bool) error {
	switch {
	case title == nil:
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case completed == nil:
		return fmt.Errorf("%w: completed is required", ErrInvalidInput)
	}
	return nil
}

// mapRepositoryError translates repository sentinels into service errors.
// Anything unrecognised is a store failure and keeps its original chain.
func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}

func toResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{ID: todo.ID, Title: todo.Title, Completed: todo.Completed}
}
