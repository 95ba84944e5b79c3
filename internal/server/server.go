package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Tomlord1122/todo-api/internal/database"
	"github.com/Tomlord1122/todo-api/internal/service"
)

type Server struct {
	todoService service.TodoService
	db          database.Service
	log         *zap.Logger
}

// NewServer builds the *http.Server listening on addr. The handlers share
// todoService and db; neither holds per-request state.
func NewServer(addr string, todoService service.TodoService, dbService database.Service, log *zap.Logger) *http.Server {
	appServer := &Server{
		todoService: todoService,
		db:          dbService,
		log:         log,
	}

	return &http.Server{
		Addr:         addr,
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     zap.NewStdLog(log.Named("http")),
	}
}
