package storefront

import (
	"net/http"

	"github.com/ebikepoint/erp/billing"
	"github.com/ebikepoint/erp/users"
)

// CreateSaleHandler records a counter sale for the calling dealer or
// employee and returns the sale with its activated warranty.
func (s *Server) CreateSaleHandler() http.HandlerFunc {
	type saleRequest struct {
		CustomerID string  `json:"customerId"`
		ProductID  string  `json:"productId"`
		Quantity   int     `json:"quantity"`
		Discount   float64 `json:"discount"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req saleRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		seller := s.currentUser(r)
		sale, warranty, err := s.deps.Billing.CreateSale(seller, billing.SaleParams{
			DealerID:   seller.ID, // employees are re-mapped to their dealer
			CustomerID: req.CustomerID,
			ProductID:  req.ProductID,
			Quantity:   req.Quantity,
			Discount:   req.Discount,
		})
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusCreated, map[string]any{
			"sale":     sale,
			"warranty": warranty,
		})
	}
}

// ListSalesHandler shows dealers their own sales and admins all sales.
func (s *Server) ListSalesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)

		switch user.Role {
		case users.RoleDealer:
			list, err := s.deps.Billing.ListSales(user.ID)
			if err != nil {
				s.domainError(w, err)
				return
			}
			writeData(w, http.StatusOK, list)
		case users.RoleEmployee:
			list, err := s.deps.Billing.ListSales(user.DealerID)
			if err != nil {
				s.domainError(w, err)
				return
			}
			writeData(w, http.StatusOK, list)
		case users.RoleSuperAdmin, users.RoleAdmin:
			list, err := s.deps.Billing.ListAllSales()
			if err != nil {
				s.domainError(w, err)
				return
			}
			writeData(w, http.StatusOK, list)
		default:
			writeError(w, http.StatusForbidden, "Not permitted for your role")
		}
	}
}

// CustomerPurchasesHandler returns the caller's purchases with their
// warranties.
func (s *Server) CustomerPurchasesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sales, warranties, err := s.deps.Billing.CustomerPurchases(s.currentUser(r).ID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, map[string]any{
			"sales":      sales,
			"warranties": warranties,
		})
	}
}

// SalesDashboardHandler summarizes sales for the caller's scope: dealers
// see their own numbers, admins the whole system.
func (s *Server) SalesDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		dealerID := ""
		if user.Role == users.RoleDealer {
			dealerID = user.ID
		}

		dashboard, err := s.deps.Billing.SalesDashboard(dealerID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, dashboard)
	}
}
