// Package billing records sales at the dealer counter: invoice generation,
// discount and GST computation, and the warranty that every sale activates.
package billing

import "time"

// DefaultTaxRate is the GST rate applied to the discounted amount.
const DefaultTaxRate = 0.18

// Sale is one completed counter sale.
type Sale struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoiceNumber"`
	DealerID      string    `json:"dealerId"`
	SoldByID      string    `json:"soldById"`
	CustomerID    string    `json:"customerId"`
	ProductID     string    `json:"productId"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unitPrice"`
	Discount      float64   `json:"discount"` // absolute amount off the subtotal
	TaxRate       float64   `json:"taxRate"`
	TaxAmount     float64   `json:"taxAmount"`
	TotalAmount   float64   `json:"totalAmount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Warranty tracks the warranty activated by a sale, including the free
// service allowance consumed by the servicing flow.
type Warranty struct {
	ID                string    `json:"id"`
	SaleID            string    `json:"saleId"`
	InvoiceNumber     string    `json:"invoiceNumber"`
	CustomerID        string    `json:"customerId"`
	ProductID         string    `json:"productId"`
	StartDate         time.Time `json:"startDate"`
	ExpiryDate        time.Time `json:"expiryDate"`
	FreeServicesTotal int       `json:"freeServicesTotal"`
	FreeServicesUsed  int       `json:"freeServicesUsed"`
	Active            bool      `json:"active"`
}

// ValidAt reports whether the warranty covers the given time.
func (w *Warranty) ValidAt(t time.Time) bool {
	return w.Active && !t.Before(w.StartDate) && t.Before(w.ExpiryDate)
}

// FreeServiceAvailable reports whether a free service visit remains.
func (w *Warranty) FreeServiceAvailable() bool {
	return w.FreeServicesUsed < w.FreeServicesTotal
}

// SaleRepo abstracts sale storage.
type SaleRepo interface {
	Upsert(sale *Sale) error
	Delete(id string) error
	Get(id string) (*Sale, error)
	GetByInvoice(invoiceNumber string) (*Sale, error)
	ListByDealer(dealerID string) ([]*Sale, error)
	ListByCustomer(customerID string) ([]*Sale, error)
	ListAll() ([]*Sale, error)
}

// WarrantyRepo abstracts warranty storage.
type WarrantyRepo interface {
	Upsert(warranty *Warranty) error
	GetByInvoice(invoiceNumber string) (*Warranty, error)
	ListByCustomer(customerID string) ([]*Warranty, error)
}
