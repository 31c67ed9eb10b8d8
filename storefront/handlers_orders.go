package storefront

import (
	"net/http"

	"github.com/ebikepoint/erp/orders"
	"github.com/ebikepoint/erp/users"
)

// CreateDealerOrderHandler places a stock order for the calling dealer.
func (s *Server) CreateDealerOrderHandler() http.HandlerFunc {
	type orderRequest struct {
		Items []orders.Item `json:"items"`
		Notes string        `json:"notes"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		order, err := s.deps.Orders.CreateDealerOrder(s.currentUser(r).ID, req.Items, req.Notes)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusCreated, order)
	}
}

// ListDealerOrdersHandler shows a dealer their own orders; admins see every
// order and may filter by status.
func (s *Server) ListDealerOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)

		switch user.Role {
		case users.RoleDealer:
			list, err := s.deps.Orders.ListDealerOrders(user.ID)
			if err != nil {
				s.domainError(w, err)
				return
			}
			writeData(w, http.StatusOK, list)
		case users.RoleSuperAdmin, users.RoleAdmin:
			list, err := s.deps.Orders.ListAllDealerOrders(orders.Status(r.URL.Query().Get("status")))
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

// GetDealerOrderHandler returns one dealer order. Dealers can only read
// their own.
func (s *Server) GetDealerOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		order, err := s.deps.Orders.GetDealerOrder(r.PathValue("id"))
		if err != nil {
			s.domainError(w, err)
			return
		}
		if user.Role == users.RoleDealer && order.DealerID != user.ID {
			writeError(w, http.StatusForbidden, "Not permitted for your role")
			return
		}
		writeData(w, http.StatusOK, order)
	}
}

// ApproveDealerOrderHandler approves a pending order, moving stock into the
// dealer's inventory.
func (s *Server) ApproveDealerOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := s.deps.Orders.Approve(r.PathValue("id"), s.currentUser(r).ID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, order)
	}
}

// RejectDealerOrderHandler rejects a pending order with a reason.
func (s *Server) RejectDealerOrderHandler() http.HandlerFunc {
	type rejectRequest struct {
		Reason string `json:"reason"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req rejectRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		order, err := s.deps.Orders.Reject(r.PathValue("id"), s.currentUser(r).ID, req.Reason)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, order)
	}
}

// ShipDealerOrderHandler marks an approved order shipped.
func (s *Server) ShipDealerOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := s.deps.Orders.MarkShipped(r.PathValue("id"))
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, order)
	}
}

// DeliverDealerOrderHandler marks a shipped order delivered.
func (s *Server) DeliverDealerOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := s.deps.Orders.MarkDelivered(r.PathValue("id"))
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, order)
	}
}

// CreateCustomerOrderHandler places a direct order for the caller.
func (s *Server) CreateCustomerOrderHandler() http.HandlerFunc {
	type orderRequest struct {
		ProductID       string `json:"productId"`
		Quantity        int    `json:"quantity"`
		ShippingAddress string `json:"shippingAddress"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		order, err := s.deps.Orders.CreateCustomerOrder(s.currentUser(r).ID, req.ProductID, req.Quantity, req.ShippingAddress)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusCreated, order)
	}
}

// ListCustomerOrdersHandler shows customers their own orders and admins all
// of them.
func (s *Server) ListCustomerOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)

		switch user.Role {
		case users.RoleCustomer:
			list, err := s.deps.Orders.ListCustomerOrders(user.ID)
			if err != nil {
				s.domainError(w, err)
				return
			}
			writeData(w, http.StatusOK, list)
		case users.RoleSuperAdmin, users.RoleAdmin:
			list, err := s.deps.Orders.ListAllCustomerOrders()
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

// UpdateCustomerOrderStatusHandler applies one transition to a customer
// order.
func (s *Server) UpdateCustomerOrderStatusHandler() http.HandlerFunc {
	type statusRequest struct {
		Status orders.Status `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		order, err := s.deps.Orders.UpdateCustomerOrderStatus(r.PathValue("id"), req.Status)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, order)
	}
}
