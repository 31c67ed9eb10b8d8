package storefront

import (
	"net/http"

	"github.com/ebikepoint/erp/products"
)

// ListProductsHandler returns the catalogue, optionally filtered by
// category, brand, and availability.
func (s *Server) ListProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := products.Filter{
			Category:      q.Get("category"),
			Brand:         q.Get("brand"),
			OnlyAvailable: q.Get("available") == "true",
		}

		list, err := s.deps.Catalogue.List(filter)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, list)
	}
}

// GetProductHandler returns one catalogue entry.
func (s *Server) GetProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := s.deps.Catalogue.Get(r.PathValue("id"))
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, product)
	}
}

// CreateProductHandler adds a catalogue entry.
func (s *Server) CreateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var product products.Product
		if !decodeJSON(w, r, &product) {
			return
		}

		product.ID = ""
		product.ApplyDefaults()
		if err := product.Validate(); err != nil {
			writeValidationError(w, "Invalid product", []string{err.Error()})
			return
		}

		if err := s.deps.Catalogue.Upsert(&product); err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusCreated, product)
	}
}

// UpdateProductHandler replaces the editable fields of a catalogue entry.
func (s *Server) UpdateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, err := s.deps.Catalogue.Get(r.PathValue("id"))
		if err != nil {
			s.domainError(w, err)
			return
		}

		var product products.Product
		if !decodeJSON(w, r, &product) {
			return
		}
		product.ID = existing.ID
		product.CreatedAt = existing.CreatedAt
		product.ApplyDefaults()
		if err := product.Validate(); err != nil {
			writeValidationError(w, "Invalid product", []string{err.Error()})
			return
		}

		if err := s.deps.Catalogue.Upsert(&product); err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, product)
	}
}

// DeleteProductHandler removes a catalogue entry.
func (s *Server) DeleteProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.deps.Catalogue.Delete(r.PathValue("id")); err != nil {
			s.domainError(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "Product deleted")
	}
}
