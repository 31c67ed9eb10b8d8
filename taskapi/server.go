// Package taskapi implements the task-manager REST API: routes, handlers,
// and the JSON envelope, over the tasks repository.
package taskapi

import (
	"net/http"

	"github.com/ebikepoint/erp/taskapi/tasks"
	"github.com/rs/zerolog"
)

const apiVersion = "1.0.0"

type Server struct {
	appName string
	mux     *http.ServeMux
	repo    tasks.Repo
	log     zerolog.Logger
}

func New(appName string, repo tasks.Repo, log zerolog.Logger) *Server {
	s := &Server{
		appName: appName,
		mux:     http.NewServeMux(),
		repo:    repo,
		log:     log,
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.mux.HandleFunc(pattern, ChainMiddleware(handler, s.APIMiddleware()...))
}
