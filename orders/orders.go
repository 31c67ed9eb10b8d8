// Package orders covers the two order flows of the storefront: dealer stock
// orders that an admin approves against central stock, and customer orders
// placed through the public catalogue.
package orders

import "time"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// DeliveryLeadTime is added to the approval time to set the expected
// delivery date on an approved dealer order.
const DeliveryLeadTime = 7 * 24 * time.Hour

// Item is one product line on a dealer order.
type Item struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// DealerOrder is a stock order a dealer places against central stock. Only
// pending orders can be approved or rejected; approval moves stock from the
// catalogue into the dealer's inventory.
type DealerOrder struct {
	ID               string     `json:"id"`
	DealerID         string     `json:"dealerId"`
	Items            []Item     `json:"items"`
	TotalAmount      float64    `json:"totalAmount"`
	Status           Status     `json:"status"`
	Notes            string     `json:"notes,omitempty"`
	ApprovedBy       string     `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	ExpectedDelivery *time.Time `json:"expectedDelivery,omitempty"`
	RejectionReason  string     `json:"rejectionReason,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CustomerOrder is a direct purchase order placed by a customer.
type CustomerOrder struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customerId"`
	ProductID       string    `json:"productId"`
	Quantity        int       `json:"quantity"`
	TotalAmount     float64   `json:"totalAmount"`
	Status          Status    `json:"status"`
	ShippingAddress string    `json:"shippingAddress,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DealerOrderRepo abstracts dealer order storage.
type DealerOrderRepo interface {
	Upsert(order *DealerOrder) error
	Get(id string) (*DealerOrder, error)
	ListByDealer(dealerID string) ([]*DealerOrder, error)
	ListByStatus(status Status) ([]*DealerOrder, error)
	ListAll() ([]*DealerOrder, error)
}

// CustomerOrderRepo abstracts customer order storage.
type CustomerOrderRepo interface {
	Upsert(order *CustomerOrder) error
	Get(id string) (*CustomerOrder, error)
	ListByCustomer(customerID string) ([]*CustomerOrder, error)
	ListAll() ([]*CustomerOrder, error)
}
