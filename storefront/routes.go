package storefront

import (
	"net/http"

	"github.com/ebikepoint/erp/users"
)

// RegisterAuthRouteFunc registers a route behind bearer authentication.
func (s *Server) RegisterAuthRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	mw := append(s.APIMiddleware(), s.RequireAuth)
	s.mux.HandleFunc(pattern, ChainMiddleware(handler, mw...))
}

// RegisterRoleRouteFunc registers a route behind authentication plus a role
// check.
func (s *Server) RegisterRoleRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request), roles ...users.Role) {
	mw := append(s.APIMiddleware(), s.RequireAuth, s.RequireRoles(roles...))
	s.mux.HandleFunc(pattern, ChainMiddleware(handler, mw...))
}

func (s *Server) initRoutes() {
	admins := []users.Role{users.RoleSuperAdmin, users.RoleAdmin}
	sellers := []users.Role{users.RoleDealer, users.RoleEmployee}

	// system
	s.RegisterRouteFunc("GET /{$}", s.IndexHandler())
	s.RegisterRouteFunc("GET /health", s.HealthHandler())

	// auth
	s.RegisterRouteFunc("POST /auth/register", s.RegisterCustomerHandler())
	s.RegisterRouteFunc("POST /auth/login", s.LoginHandler())
	s.RegisterRouteFunc("POST /auth/token/refresh", s.RefreshHandler())
	s.RegisterRoleRouteFunc("POST /auth/register/dealer", s.RegisterDealerHandler(), admins...)
	s.RegisterRoleRouteFunc("POST /auth/register/staff", s.RegisterStaffHandler(), users.RoleDealer)
	s.RegisterAuthRouteFunc("POST /auth/logout", s.LogoutHandler())
	s.RegisterAuthRouteFunc("GET /auth/me", s.MeHandler())
	s.RegisterAuthRouteFunc("GET /auth/navigation", s.NavigationHandler())
	s.RegisterAuthRouteFunc("PUT /auth/profile", s.UpdateProfileHandler())
	s.RegisterAuthRouteFunc("POST /auth/change-password", s.ChangePasswordHandler())
	s.RegisterAuthRouteFunc("DELETE /auth/account", s.DeleteAccountHandler())

	// products: public reads, admin writes
	s.RegisterRouteFunc("GET /products", s.ListProductsHandler())
	s.RegisterRouteFunc("GET /products/{id}", s.GetProductHandler())
	s.RegisterRoleRouteFunc("POST /products", s.CreateProductHandler(), admins...)
	s.RegisterRoleRouteFunc("PUT /products/{id}", s.UpdateProductHandler(), admins...)
	s.RegisterRoleRouteFunc("DELETE /products/{id}", s.DeleteProductHandler(), admins...)

	// dealer orders
	s.RegisterRoleRouteFunc("POST /orders/dealer", s.CreateDealerOrderHandler(), users.RoleDealer)
	s.RegisterAuthRouteFunc("GET /orders/dealer", s.ListDealerOrdersHandler())
	s.RegisterAuthRouteFunc("GET /orders/dealer/{id}", s.GetDealerOrderHandler())
	s.RegisterRoleRouteFunc("POST /orders/dealer/{id}/approve", s.ApproveDealerOrderHandler(), admins...)
	s.RegisterRoleRouteFunc("POST /orders/dealer/{id}/reject", s.RejectDealerOrderHandler(), admins...)
	s.RegisterRoleRouteFunc("POST /orders/dealer/{id}/ship", s.ShipDealerOrderHandler(), admins...)
	s.RegisterRoleRouteFunc("POST /orders/dealer/{id}/deliver", s.DeliverDealerOrderHandler(), users.RoleSuperAdmin, users.RoleAdmin, users.RoleDealer)

	// customer orders
	s.RegisterRoleRouteFunc("POST /orders/customer", s.CreateCustomerOrderHandler(), users.RoleCustomer)
	s.RegisterAuthRouteFunc("GET /orders/customer", s.ListCustomerOrdersHandler())
	s.RegisterRoleRouteFunc("PUT /orders/customer/{id}/status", s.UpdateCustomerOrderStatusHandler(), admins...)

	// billing
	s.RegisterRoleRouteFunc("POST /billing/sales", s.CreateSaleHandler(), sellers...)
	s.RegisterAuthRouteFunc("GET /billing/sales", s.ListSalesHandler())
	s.RegisterRoleRouteFunc("GET /billing/purchases", s.CustomerPurchasesHandler(), users.RoleCustomer)
	s.RegisterRoleRouteFunc("GET /billing/dashboard", s.SalesDashboardHandler(), users.RoleSuperAdmin, users.RoleAdmin, users.RoleDealer)

	// inventory
	s.RegisterRoleRouteFunc("GET /inventory", s.ListInventoryHandler(), users.RoleDealer, users.RoleEmployee)
	s.RegisterRoleRouteFunc("GET /inventory/all", s.ListAllInventoryHandler(), admins...)
	s.RegisterRoleRouteFunc("GET /inventory/low-stock", s.LowStockHandler(), users.RoleDealer)
	s.RegisterRoleRouteFunc("GET /inventory/transactions", s.ListTransactionsHandler(), users.RoleDealer)
	s.RegisterRoleRouteFunc("POST /inventory/adjust", s.AdjustInventoryHandler(), users.RoleDealer)
	s.RegisterRoleRouteFunc("PUT /inventory/threshold", s.SetThresholdHandler(), users.RoleDealer)

	// servicing
	s.RegisterRoleRouteFunc("POST /service/requests", s.CreateServiceRequestHandler(), users.RoleCustomer)
	s.RegisterAuthRouteFunc("GET /service/requests", s.ListServiceRequestsHandler())
	s.RegisterRoleRouteFunc("POST /service/requests/{id}/assign", s.AssignServiceRequestHandler(), users.RoleDealer)
	s.RegisterRoleRouteFunc("PUT /service/requests/{id}/status", s.UpdateServiceStatusHandler(), users.RoleDealer, users.RoleServiceman)
	s.RegisterRoleRouteFunc("GET /service/warranty/{invoice}", s.WarrantyStatusHandler(), users.RoleCustomer)

	// attendance
	s.RegisterRoleRouteFunc("POST /attendance/clock-in", s.ClockInHandler(), users.RoleEmployee, users.RoleServiceman)
	s.RegisterRoleRouteFunc("POST /attendance/clock-out", s.ClockOutHandler(), users.RoleEmployee, users.RoleServiceman)
	s.RegisterAuthRouteFunc("GET /attendance/me", s.MyAttendanceHandler())
	s.RegisterRoleRouteFunc("GET /attendance/staff", s.StaffAttendanceHandler(), users.RoleDealer)
	s.RegisterRoleRouteFunc("PUT /attendance/{id}", s.EditAttendanceHandler(), users.RoleDealer)

	// notifications
	s.RegisterAuthRouteFunc("GET /notifications", s.ListNotificationsHandler())
	s.RegisterAuthRouteFunc("GET /notifications/unread-count", s.UnreadCountHandler())
	s.RegisterAuthRouteFunc("POST /notifications/{id}/read", s.MarkNotificationReadHandler())
	s.RegisterRoleRouteFunc("POST /notifications", s.CreateNotificationHandler(), admins...)

	// analytics
	s.RegisterRoleRouteFunc("GET /analytics/admin", s.AdminDashboardHandler(), admins...)
	s.RegisterRoleRouteFunc("GET /analytics/dealer", s.DealerDashboardHandler(), users.RoleDealer)
	s.RegisterRoleRouteFunc("GET /analytics/sales", s.SalesAnalyticsHandler(), users.RoleSuperAdmin, users.RoleAdmin, users.RoleDealer)
	s.RegisterRoleRouteFunc("GET /analytics/inventory", s.InventoryAnalyticsHandler(), admins...)

	// Everything else is an unknown route.
	s.RegisterRouteFunc("/", s.NotFoundHandler())
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	}
}
