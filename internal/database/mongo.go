package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI            string
	ConnectTimeout time.Duration
}

// Mongo wraps a *mongo.Client shared across all handlers.
type Mongo struct {
	client *mongo.Client
	log    *zap.Logger
	mu     sync.RWMutex
	closed bool
}

// NewMongo connects to MongoDB and verifies the connection with a ping so
// that an unreachable server fails startup instead of the first request.
func NewMongo(cfg MongoConfig, log *zap.Logger) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongodb URI is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Info("MongoDB connection established")
	return &Mongo{client: client, log: log}, nil
}

// Database returns a handle on the named database. Handles are cheap and
// share the client's connection pool.
func (m *Mongo) Database(name string) *mongo.Database {
	return m.client.Database(name)
}

func (m *Mongo) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()
	if closed {
		stats["status"] = "down"
		stats["error"] = "mongodb client is closed"
		return stats
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		m.log.Warn("MongoDB health check failed", zap.Error(err))
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["sessions_in_progress"] = strconv.Itoa(m.client.NumberSessionsInProgress())
	return stats
}

// Close disconnects the client. Calling it more than once is a no-op.
func (m *Mongo) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	m.log.Info("MongoDB connection closed")
	return nil
}
