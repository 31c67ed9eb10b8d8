package products

// Filter narrows catalogue listings.
type Filter struct {
	Category      string
	Brand         string
	OnlyAvailable bool
}

// Repo abstracts catalogue storage.
type Repo interface {
	Upsert(product *Product) error
	Delete(id string) error
	Get(id string) (*Product, error)
	List(filter Filter) ([]*Product, error)
	// AdjustStock applies a delta to the central stock count. A delta that
	// would take stock below zero fails with ErrInsufficientStock.
	AdjustStock(id string, delta int) error
}
