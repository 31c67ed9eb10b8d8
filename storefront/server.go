// Package storefront is the HTTP layer of the dealership ERP backend. It
// wires the domain services under one mux with bearer-JWT authentication
// and role-based authorization.
package storefront

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ebikepoint/erp/analytics"
	"github.com/ebikepoint/erp/attendance"
	"github.com/ebikepoint/erp/auth"
	"github.com/ebikepoint/erp/billing"
	"github.com/ebikepoint/erp/inventory"
	"github.com/ebikepoint/erp/notifications"
	"github.com/ebikepoint/erp/orders"
	"github.com/ebikepoint/erp/products"
	"github.com/ebikepoint/erp/servicing"
	"github.com/ebikepoint/erp/token"
	"github.com/ebikepoint/erp/users"
)

const apiVersion = "1.0.0"

// Deps carries everything the server needs. All fields are required.
type Deps struct {
	Auth          *auth.Service
	Tokens        *token.Manager
	UserRepo      users.UserRepo
	Catalogue     products.Repo
	Orders        *orders.Service
	Billing       *billing.Service
	Inventory     *inventory.Service
	Servicing     *servicing.Service
	Attendance    *attendance.Service
	Notifications notifications.Repo
	Analytics     *analytics.Service
}

func (d Deps) validate() error {
	switch {
	case d.Auth == nil:
		return errors.New("auth service is required")
	case d.Tokens == nil:
		return errors.New("token manager is required")
	case d.UserRepo == nil:
		return errors.New("user repo is required")
	case d.Catalogue == nil:
		return errors.New("product repo is required")
	case d.Orders == nil:
		return errors.New("order service is required")
	case d.Billing == nil:
		return errors.New("billing service is required")
	case d.Inventory == nil:
		return errors.New("inventory service is required")
	case d.Servicing == nil:
		return errors.New("servicing service is required")
	case d.Attendance == nil:
		return errors.New("attendance service is required")
	case d.Notifications == nil:
		return errors.New("notification repo is required")
	case d.Analytics == nil:
		return errors.New("analytics service is required")
	}
	return nil
}

type Server struct {
	appName        string
	mux            *http.ServeMux
	deps           Deps
	log            zerolog.Logger
	allowedOrigins []string
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithAllowedOrigins enables CORS for the given origins ("*" allows any).
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// New initializes the storefront server with required dependencies.
func New(appName string, deps Deps, log zerolog.Logger, options ...ServerOption) (*Server, error) {
	if err := deps.validate(); err != nil {
		return nil, errors.Wrap(err, "[New]")
	}

	s := &Server{
		appName: appName,
		mux:     http.NewServeMux(),
		deps:    deps,
		log:     log,
	}
	for _, opt := range options {
		opt(s)
	}
	s.initRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// RegisterRouteFunc registers a handler wrapped in the base middleware
// chain. Authentication and role checks are added per route.
func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.mux.HandleFunc(pattern, ChainMiddleware(handler, s.APIMiddleware()...))
}
