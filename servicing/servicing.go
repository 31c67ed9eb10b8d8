// Package servicing handles after-sales service requests: customers raise
// them against an invoice, free visits are accounted against the warranty,
// dealers assign servicemen, and the request walks a fixed status flow.
package servicing

import "time"

// Status is the lifecycle state of a service request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Request is one service visit raised by a customer.
type Request struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customerId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	ProductID     string    `json:"productId"`
	Description   string    `json:"description"`
	Status        Status    `json:"status"`
	AssignedToID  string    `json:"assignedToId,omitempty"`
	FreeService   bool      `json:"freeService"`
	Charge        float64   `json:"charge"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Repo abstracts service request storage.
type Repo interface {
	Upsert(request *Request) error
	Get(id string) (*Request, error)
	ListByCustomer(customerID string) ([]*Request, error)
	ListByAssignee(servicemanID string) ([]*Request, error)
	ListAll() ([]*Request, error)
}
