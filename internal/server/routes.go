package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Tomlord1122/todo-api/internal/service"
)

const (
	msgUpdated  = "Todo item updated"
	msgDeleted  = "Todo item deleted"
	msgNotFound = "Todo item not found"
)

// maxBodyBytes caps write request bodies.
const maxBodyBytes = 1 << 20

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.healthHandler)

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", s.getAllTodosHandler)
		r.Post("/", s.createTodoHandler)
		r.Get("/{id}", s.getTodoByIDHandler)
		r.Put("/{id}", s.updateTodoHandler)
		r.Delete("/{id}", s.deleteTodoHandler)
	})

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health(r.Context())
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) getAllTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todoService.GetAllTodos(r.Context())
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to retrieve todos")
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if msg, ok := decodeJSONBody(w, r, &req); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	id, err := s.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to create todo")
		return
	}

	respondWithJSON(w, http.StatusOK, id)
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	todo, err := s.todoService.GetTodoByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to retrieve todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateTodoRequest
	if msg, ok := decodeJSONBody(w, r, &req); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	err := s.todoService.UpdateTodo(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to update todo")
		return
	}

	respondWithText(w, http.StatusOK, msgUpdated)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	err := s.todoService.DeleteTodo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to delete todo")
		return
	}

	respondWithText(w, http.StatusOK, msgDeleted)
}

// respondWithServiceError maps the service error taxonomy onto status codes.
// Store failures are logged and reported with the generic message only.
func (s *Server) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondWithText(w, http.StatusNotFound, msgNotFound)
	default:
		s.log.Error(message,
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, message)
	}
}

// decodeJSONBody decodes a single JSON object from the request body into dst.
// On failure it returns a client-facing message and false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)

	if err := decoder.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxError):
			return fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset), false
		case errors.Is(err, io.ErrUnexpectedEOF):
			return "Request body contains badly-formed JSON", false
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field == "" {
				return "Request body must be a JSON object", false
			}
			return fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset), false
		case errors.Is(err, io.EOF):
			return "Request body must not be empty", false
		case errors.As(err, &maxBytesError):
			return fmt.Sprintf("Request body must not be larger than %d bytes", maxBytesError.Limit), false
		default:
			return "Invalid request body", false
		}
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return "Request body must only contain a single JSON object", false
	}
	return "", true
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
