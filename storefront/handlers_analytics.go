package storefront

import (
	"net/http"

	"github.com/ebikepoint/erp/users"
)

// AdminDashboardHandler returns the system-wide summary.
func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := s.deps.Analytics.Admin()
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, dashboard)
	}
}

// DealerDashboardHandler returns the caller's dealer summary.
func (s *Server) DealerDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := s.deps.Analytics.Dealer(s.currentUser(r).ID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, dashboard)
	}
}

// SalesAnalyticsHandler returns the sales report scoped to the caller.
func (s *Server) SalesAnalyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		dealerID := ""
		if user.Role == users.RoleDealer {
			dealerID = user.ID
		}

		report, err := s.deps.Analytics.Sales(dealerID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, report)
	}
}

// InventoryAnalyticsHandler returns the inventory report.
func (s *Server) InventoryAnalyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := s.deps.Analytics.Inventory()
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, report)
	}
}
