// Package inventory tracks dealer-level stock: the quantity of each product
// a dealer holds, the transaction trail behind every quantity change, and
// the low-stock threshold used by the replenishment views.
package inventory

import "time"

// DefaultLowStockThreshold flags items for reorder when no per-item
// threshold has been set.
const DefaultLowStockThreshold = 5

// Item is one dealer/product stock row.
type Item struct {
	ID                string    `json:"id"`
	DealerID          string    `json:"dealerId"`
	ProductID         string    `json:"productId"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"lowStockThreshold"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// LowStock reports whether the item sits at or below its reorder threshold.
func (i *Item) LowStock() bool {
	threshold := i.LowStockThreshold
	if threshold == 0 {
		threshold = DefaultLowStockThreshold
	}
	return i.Quantity <= threshold
}

// TransactionKind classifies why a quantity changed.
type TransactionKind string

const (
	KindOrderApproval TransactionKind = "order_approval" // stock received from an approved dealer order
	KindSale          TransactionKind = "sale"           // stock sold to a customer
	KindAdjustment    TransactionKind = "adjustment"     // manual correction with a reason
)

// Transaction records one quantity change against a dealer's inventory.
type Transaction struct {
	ID        string          `json:"id"`
	DealerID  string          `json:"dealerId"`
	ProductID string          `json:"productId"`
	Delta     int             `json:"delta"`
	Kind      TransactionKind `json:"kind"`
	Reason    string          `json:"reason,omitempty"`
	ActorID   string          `json:"actorId,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Repo abstracts dealer inventory storage.
type Repo interface {
	UpsertItem(item *Item) error
	GetItem(dealerID, productID string) (*Item, error)
	ListByDealer(dealerID string) ([]*Item, error)
	ListAll() ([]*Item, error)
	RecordTransaction(tx *Transaction) error
	ListTransactions(dealerID string) ([]*Transaction, error)
}
