package database

import (
	"context"
	"time"
)

// healthTimeout bounds the ping issued by Health.
const healthTimeout = 1 * time.Second

// Service owns the process-wide store connection. The handle behind it is
// shared by every request and relies on the driver's own pooling.
type Service interface {
	// Health pings the store and returns a status map. "status" is "up" or "down".
	Health(ctx context.Context) map[string]string
	Close() error
}
