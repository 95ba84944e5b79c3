package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Tomlord1122/todo-api/internal/domain"
)

type todoDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Completed bool               `bson:"completed"`
}

func (d todoDocument) toDomain() domain.Todo {
	return domain.Todo{ID: d.ID.Hex(), Title: d.Title, Completed: d.Completed}
}

// todoCollection is the subset of *mongo.Collection the repository calls.
type todoCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// mongoTodoRepository implements TodoRepository on a MongoDB collection.
// *mongo.Collection is safe for concurrent use, so no locking is needed.
type mongoTodoRepository struct {
	coll todoCollection
}

// NewMongoTodoRepository creates a repository backed by the todos collection of db.
func NewMongoTodoRepository(db *mongo.Database) TodoRepository {
	return &mongoTodoRepository{coll: db.Collection(CollectionName)}
}

func (r *mongoTodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []todoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}

	todos := make([]domain.Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.toDomain())
	}
	return todos, nil
}

func (r *mongoTodoRepository) Insert(ctx context.Context, title string, completed bool) (string, error) {
	result, err := r.coll.InsertOne(ctx, todoDocument{Title: title, Completed: completed})
	if err != nil {
		return "", fmt.Errorf("insert todo: %w", err)
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert todo: unexpected id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *mongoTodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc todoDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find todo %s: %w", id, err)
	}
	todo := doc.toDomain()
	return &todo, nil
}

func (r *mongoTodoRepository) UpdateByID(ctx context.Context, id string, title string, completed bool) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	update := bson.M{"$set": bson.M{"title": title, "completed": completed}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return false, fmt.Errorf("update todo %s: %w", id, err)
	}
	// Matched rather than modified: rewriting identical values still counts.
	return result.MatchedCount == 1, nil
}

func (r *mongoTodoRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete todo %s: %w", id, err)
	}
	return result.DeletedCount == 1, nil
}
