package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-api/internal/domain"
)

// TodoRecord is the relational row for a todo. Its primary key uses the same
// 24 character hex encoding as the document store so ids stay interchangeable.
type TodoRecord struct {
	ID        string `gorm:"primaryKey;type:char(24)"`
	Title     string `gorm:"not null"`
	Completed bool   `gorm:"not null"`
}

func (TodoRecord) TableName() string {
	return CollectionName
}

// gormTodoRepository implements TodoRepository using GORM
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	var records []TodoRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, wrapPgError("find todos", err)
	}

	todos := make([]domain.Todo, 0, len(records))
	for _, rec := range records {
		todos = append(todos, domain.Todo{ID: rec.ID, Title: rec.Title, Completed: rec.Completed})
	}
	return todos, nil
}

func (r *gormTodoRepository) Insert(ctx context.Context, title string, completed bool) (string, error) {
	rec := TodoRecord{ID: NewID(), Title: title, Completed: completed}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", wrapPgError("insert todo", err)
	}
	return rec.ID, nil
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	key, err := canonicalID(id)
	if err != nil {
		return nil, err
	}

	var rec TodoRecord
	err = r.db.WithContext(ctx).First(&rec, "id = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapPgError("find todo "+id, err)
	}
	return &domain.Todo{ID: rec.ID, Title: rec.Title, Completed: rec.Completed}, nil
}

func (r *gormTodoRepository) UpdateByID(ctx context.Context, id string, title string, completed bool) (bool, error) {
	key, err := canonicalID(id)
	if err != nil {
		return false, err
	}

	// A map keeps completed=false from being skipped as a zero value.
	result := r.db.WithContext(ctx).
		Model(&TodoRecord{}).
		Where("id = ?", key).
		Updates(map[string]interface{}{"title": title, "completed": completed})
	if result.Error != nil {
		return false, wrapPgError("update todo "+id, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *gormTodoRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	key, err := canonicalID(id)
	if err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Where("id = ?", key).Delete(&TodoRecord{})
	if result.Error != nil {
		return false, wrapPgError("delete todo "+id, result.Error)
	}
	return result.RowsAffected == 1, nil
}

// wrapPgError adds the SQLSTATE to driver errors so logs can tell a missing
// table from a dropped connection.
func wrapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s (sqlstate %s): %w", op, pgErr.Code, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
