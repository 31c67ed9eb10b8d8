package taskapi

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", s.IndexHandler())
	s.RegisterRouteFunc("GET /health", s.HealthHandler())

	// Stats route is a literal segment, so it can never be captured by the
	// {id} wildcard below.
	s.RegisterRouteFunc("GET /api/tasks/stats", s.TaskStatsHandler())

	s.RegisterRouteFunc("GET /api/tasks", s.ListTasksHandler())
	s.RegisterRouteFunc("POST /api/tasks", s.CreateTaskHandler())
	s.RegisterRouteFunc("GET /api/tasks/{id}", s.GetTaskHandler())
	s.RegisterRouteFunc("PUT /api/tasks/{id}", s.UpdateTaskHandler())
	s.RegisterRouteFunc("DELETE /api/tasks/{id}", s.DeleteTaskHandler())

	// Everything else is an unknown route.
	s.RegisterRouteFunc("/", s.NotFoundHandler())
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, Envelope{
			Success: false,
			Error:   "Route not found",
			Path:    r.URL.Path,
		})
	}
}
