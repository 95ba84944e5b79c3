package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Tomlord1122/todo-api/internal/domain"
)

const (
	DatabaseName   = "todo_db"
	CollectionName = "todos"
)

var (
	// ErrInvalidID is returned when an identifier is not a 24 character hex string.
	ErrInvalidID = errors.New("invalid todo id")
	// ErrNotFound is returned by FindByID when no record matches.
	ErrNotFound = errors.New("todo not found")
)

// TodoRepository defines the store operations for todo items. Implementations
// only deal in plain values so callers never see driver types.
type TodoRepository interface {
	// List returns every record in the store's natural order. An empty
	// store yields an empty, non-nil slice.
	List(ctx context.Context) ([]domain.Todo, error)
	// Insert persists a new record and returns the identifier the store assigned.
	Insert(ctx context.Context, title string, completed bool) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Todo, error)
	// UpdateByID overwrites title and completed. It reports whether a record matched.
	UpdateByID(ctx context.Context, id string, title string, completed bool) (bool, error)
	// DeleteByID reports whether a record was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// IsValidID reports whether id is a well-formed record identifier.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// parseID decodes id into an ObjectID. Hex case is not significant, so
// "65A1..." and "65a1..." name the same record.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// canonicalID returns id in the lower-case hex form the stores persist.
func canonicalID(id string) (string, error) {
	oid, err := parseID(id)
	if err != nil {
		return "", err
	}
	return oid.Hex(), nil
}

// NewID returns a fresh identifier in the same encoding the document store uses.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
