package taskapi

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/taskapi/tasks"
)

// IndexHandler returns the service banner.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Welcome to " + s.appName,
			"version": apiVersion,
			"status":  "active",
			"endpoints": map[string]string{
				"tasks":  "/api/tasks",
				"health": "/health",
			},
		})
	}
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "OK",
			"timestamp": time.Now().UTC(),
		})
	}
}

// ListTasksHandler returns tasks filtered by status/priority and ordered by
// the sort expression (default: newest first).
func (s *Server) ListTasksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := tasks.Filter{
			Status:   q.Get("status"),
			Priority: q.Get("priority"),
		}

		list, err := s.repo.List(filter, tasks.ParseSort(q.Get("sort")))
		if err != nil {
			s.serverError(w, err)
			return
		}
		if list == nil {
			list = []*tasks.Task{}
		}
		writeList(w, list, len(list))
	}
}

// TaskStatsHandler returns the per-status count summary.
func (s *Server) TaskStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.repo.Stats()
		if err != nil {
			s.serverError(w, err)
			return
		}
		writeData(w, http.StatusOK, stats)
	}
}

// CreateTaskHandler validates the request body against the task schema and
// stores a new task.
func (s *Server) CreateTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var task tasks.Task
		if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
			writeValidationError(w, []string{"Request body must be valid JSON"})
			return
		}

		task.ID = ""
		task.ApplyDefaults()
		if errs := task.Validate(); len(errs) > 0 {
			writeValidationError(w, tasks.Messages(errs))
			return
		}

		if err := s.repo.Create(&task); err != nil {
			s.serverError(w, err)
			return
		}
		writeData(w, http.StatusCreated, task)
	}
}

// GetTaskHandler fetches one task by id. Malformed and unknown ids are both
// a 404, never a 500.
func (s *Server) GetTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := s.repo.Get(r.PathValue("id"))
		if err != nil {
			s.taskError(w, err)
			return
		}
		writeData(w, http.StatusOK, task)
	}
}

// taskPatch mirrors the updatable task fields; pointers distinguish
// "omitted" from zero values.
type taskPatch struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *tasks.Status   `json:"status"`
	Priority    *tasks.Priority `json:"priority"`
	DueDate     *time.Time      `json:"dueDate"`
	Completed   *bool           `json:"completed"`
}

// UpdateTaskHandler applies the provided fields to an existing task, running
// the full schema validation on the result.
func (s *Server) UpdateTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch taskPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeValidationError(w, []string{"Request body must be valid JSON"})
			return
		}

		task, err := s.repo.Get(r.PathValue("id"))
		if err != nil {
			s.taskError(w, err)
			return
		}

		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.Status != nil {
			task.Status = *patch.Status
		}
		if patch.Priority != nil {
			task.Priority = *patch.Priority
		}
		if patch.DueDate != nil {
			task.DueDate = patch.DueDate
		}
		if patch.Completed != nil {
			task.Completed = *patch.Completed
		}

		if errs := task.Validate(); len(errs) > 0 {
			writeValidationError(w, tasks.Messages(errs))
			return
		}

		if err := s.repo.Update(task); err != nil {
			s.taskError(w, err)
			return
		}
		writeData(w, http.StatusOK, task)
	}
}

// DeleteTaskHandler removes a task. Deleting a missing task is a 404.
func (s *Server) DeleteTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.repo.Delete(r.PathValue("id")); err != nil {
			s.taskError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Envelope{
			Success: true,
			Message: "Task deleted successfully",
			Data:    map[string]any{},
		})
	}
}

func (s *Server) taskError(w http.ResponseWriter, err error) {
	if apperrors.Is(err, apperrors.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	s.serverError(w, err)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("task repository failure")
	writeJSON(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Error:   "Server Error",
		Message: err.Error(),
	})
}
