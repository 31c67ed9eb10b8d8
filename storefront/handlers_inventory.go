package storefront

import (
	"net/http"

	"github.com/ebikepoint/erp/users"
)

// dealerScope resolves the dealer whose inventory the caller works with:
// dealers use their own id, employees their dealer's.
func dealerScope(user *users.User) string {
	if user.Role == users.RoleEmployee || user.Role == users.RoleServiceman {
		return user.DealerID
	}
	return user.ID
}

// ListInventoryHandler returns the caller's dealer inventory.
func (s *Server) ListInventoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.deps.Inventory.ListByDealer(dealerScope(s.currentUser(r)))
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, list)
	}
}

// ListAllInventoryHandler returns every dealer's inventory (admin view).
func (s *Server) ListAllInventoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.deps.Inventory.ListAll()
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, list)
	}
}

// LowStockHandler returns the caller's items at or below threshold.
func (s *Server) LowStockHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.deps.Inventory.LowStockItems(s.currentUser(r).ID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, list)
	}
}

// ListTransactionsHandler returns the caller's inventory transaction trail.
func (s *Server) ListTransactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.deps.Inventory.Transactions(s.currentUser(r).ID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, list)
	}
}

// AdjustInventoryHandler applies a signed manual correction with a reason.
func (s *Server) AdjustInventoryHandler() http.HandlerFunc {
	type adjustRequest struct {
		ProductID string `json:"productId"`
		Delta     int    `json:"delta"`
		Reason    string `json:"reason"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req adjustRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Reason == "" {
			writeValidationError(w, "Invalid adjustment", []string{"A reason is required"})
			return
		}

		user := s.currentUser(r)
		item, err := s.deps.Inventory.Adjust(user.ID, req.ProductID, req.Delta, req.Reason, user.ID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, item)
	}
}

// SetThresholdHandler changes the reorder threshold for one item.
func (s *Server) SetThresholdHandler() http.HandlerFunc {
	type thresholdRequest struct {
		ProductID string `json:"productId"`
		Threshold int    `json:"threshold"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req thresholdRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		item, err := s.deps.Inventory.SetThreshold(s.currentUser(r).ID, req.ProductID, req.Threshold)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, item)
	}
}
