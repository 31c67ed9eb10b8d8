package storefront

import (
	"net/http"

	"github.com/ebikepoint/erp/servicing"
	"github.com/ebikepoint/erp/users"
)

// CreateServiceRequestHandler raises a service request against an invoice.
func (s *Server) CreateServiceRequestHandler() http.HandlerFunc {
	type serviceRequest struct {
		InvoiceNumber string `json:"invoiceNumber"`
		Description   string `json:"description"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req serviceRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		request, err := s.deps.Servicing.CreateRequest(s.currentUser(r).ID, req.InvoiceNumber, req.Description)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusCreated, request)
	}
}

// ListServiceRequestsHandler scopes the listing to the caller: customers
// see their own requests, servicemen their assignments, dealers and admins
// everything.
func (s *Server) ListServiceRequestsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)

		switch user.Role {
		case users.RoleCustomer:
			list, err := s.deps.Servicing.ListByCustomer(user.ID)
			if err != nil {
				s.domainError(w, err)
				return
			}
			writeData(w, http.StatusOK, list)
		case users.RoleServiceman:
			list, err := s.deps.Servicing.ListByAssignee(user.ID)
			if err != nil {
				s.domainError(w, err)
				return
			}
			writeData(w, http.StatusOK, list)
		case users.RoleDealer, users.RoleAdmin, users.RoleSuperAdmin:
			list, err := s.deps.Servicing.ListAll()
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

// AssignServiceRequestHandler hands a pending request to a serviceman.
func (s *Server) AssignServiceRequestHandler() http.HandlerFunc {
	type assignRequest struct {
		ServicemanID string `json:"servicemanId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		request, err := s.deps.Servicing.Assign(r.PathValue("id"), req.ServicemanID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, request)
	}
}

// UpdateServiceStatusHandler applies one transition to a request.
func (s *Server) UpdateServiceStatusHandler() http.HandlerFunc {
	type statusRequest struct {
		Status servicing.Status `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		request, err := s.deps.Servicing.UpdateStatus(r.PathValue("id"), req.Status)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, request)
	}
}

// WarrantyStatusHandler returns the warranty behind one of the caller's
// invoices.
func (s *Server) WarrantyStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := s.deps.Servicing.WarrantyByInvoice(s.currentUser(r).ID, r.PathValue("invoice"))
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, status)
	}
}
