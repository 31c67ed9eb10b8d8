package orders

import (
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/inventory"
	"github.com/ebikepoint/erp/products"
)

// Service runs the order workflows. Dealer order approval is the one
// operation that touches three stores: it re-verifies central stock for
// every line, decrements it, and moves the quantities into the dealer's
// inventory.
type Service struct {
	dealerOrders   DealerOrderRepo
	customerOrders CustomerOrderRepo
	catalogue      products.Repo
	stock          *inventory.Service
	nowTime        func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes the order service with required dependencies.
func NewService(dealerOrders DealerOrderRepo, customerOrders CustomerOrderRepo, catalogue products.Repo, stock *inventory.Service, options ...ServiceOption) (*Service, error) {
	if dealerOrders == nil {
		return nil, errors.New("[NewService] dealer order repo is required")
	}
	if customerOrders == nil {
		return nil, errors.New("[NewService] customer order repo is required")
	}
	if catalogue == nil {
		return nil, errors.New("[NewService] product repo is required")
	}
	if stock == nil {
		return nil, errors.New("[NewService] inventory service is required")
	}

	s := &Service{
		dealerOrders:   dealerOrders,
		customerOrders: customerOrders,
		catalogue:      catalogue,
		stock:          stock,
		nowTime:        time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// CreateDealerOrder prices each line from the catalogue and stores the
// order as pending. Stock is checked but not reserved; the authoritative
// check happens again at approval time.
func (s *Service) CreateDealerOrder(dealerID string, items []Item, notes string) (*DealerOrder, error) {
	if len(items) == 0 {
		return nil, errors.New("[CreateDealerOrder] at least one item is required")
	}

	var total float64
	priced := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, errors.Errorf("[CreateDealerOrder] invalid quantity %d for product %s", item.Quantity, item.ProductID)
		}
		product, err := s.catalogue.Get(item.ProductID)
		if err != nil {
			return nil, apperrors.ErrProductNotFound
		}
		if product.Stock < item.Quantity {
			return nil, apperrors.ErrInsufficientStock
		}
		item.UnitPrice = product.Price
		total += product.Price * float64(item.Quantity)
		priced = append(priced, item)
	}

	order := &DealerOrder{
		DealerID:    dealerID,
		Items:       priced,
		TotalAmount: total,
		Status:      StatusPending,
		Notes:       notes,
	}
	if err := s.dealerOrders.Upsert(order); err != nil {
		return nil, errors.Wrap(err, "[CreateDealerOrder] failed to store order")
	}
	return order, nil
}

// Approve transitions a pending dealer order to approved: central stock is
// re-verified and decremented per line, the quantities are received into the
// dealer's inventory, and the order is stamped with the approver and an
// expected delivery date.
func (s *Service) Approve(orderID, adminID string) (*DealerOrder, error) {
	order, err := s.dealerOrders.Get(orderID)
	if err != nil {
		return nil, apperrors.ErrOrderNotFound
	}
	if order.Status != StatusPending {
		return nil, apperrors.ErrInvalidTransition
	}

	// Stock may have moved since the order was placed.
	for _, item := range order.Items {
		product, err := s.catalogue.Get(item.ProductID)
		if err != nil {
			return nil, apperrors.ErrProductNotFound
		}
		if product.Stock < item.Quantity {
			return nil, apperrors.ErrInsufficientStock
		}
	}

	moved := make([]Item, 0, len(order.Items))
	for _, item := range order.Items {
		if err := s.catalogue.AdjustStock(item.ProductID, -item.Quantity); err != nil {
			s.revertStockMoves(order.DealerID, moved, adminID)
			return nil, errors.Wrap(err, "[Approve] failed to decrement central stock")
		}
		if err := s.stock.Receive(order.DealerID, item.ProductID, item.Quantity, inventory.KindOrderApproval, adminID); err != nil {
			_ = s.catalogue.AdjustStock(item.ProductID, item.Quantity)
			s.revertStockMoves(order.DealerID, moved, adminID)
			return nil, errors.Wrap(err, "[Approve] failed to receive dealer inventory")
		}
		moved = append(moved, item)
	}

	now := s.nowTime()
	expected := now.Add(DeliveryLeadTime)
	order.Status = StatusApproved
	order.ApprovedBy = adminID
	order.ApprovedAt = &now
	order.ExpectedDelivery = &expected
	if err := s.dealerOrders.Upsert(order); err != nil {
		s.revertStockMoves(order.DealerID, moved, adminID)
		return nil, errors.Wrap(err, "[Approve] failed to store order")
	}
	return order, nil
}

// revertStockMoves undoes completed per-line stock moves after a failure
// partway through approval. The catalogue and inventory repos share no
// transaction, so the compensation is best-effort.
func (s *Service) revertStockMoves(dealerID string, moved []Item, adminID string) {
	for i := len(moved) - 1; i >= 0; i-- {
		item := moved[i]
		_ = s.stock.Deduct(dealerID, item.ProductID, item.Quantity, inventory.KindAdjustment, adminID)
		_ = s.catalogue.AdjustStock(item.ProductID, item.Quantity)
	}
}

// Reject transitions a pending dealer order to rejected with a reason.
func (s *Service) Reject(orderID, adminID, reason string) (*DealerOrder, error) {
	order, err := s.dealerOrders.Get(orderID)
	if err != nil {
		return nil, apperrors.ErrOrderNotFound
	}
	if order.Status != StatusPending {
		return nil, apperrors.ErrInvalidTransition
	}

	order.Status = StatusRejected
	order.ApprovedBy = adminID
	order.RejectionReason = reason
	if err := s.dealerOrders.Upsert(order); err != nil {
		return nil, errors.Wrap(err, "[Reject] failed to store order")
	}
	return order, nil
}

// MarkShipped moves an approved dealer order to shipped.
func (s *Service) MarkShipped(orderID string) (*DealerOrder, error) {
	return s.transitionDealerOrder(orderID, StatusApproved, StatusShipped)
}

// MarkDelivered moves a shipped dealer order to delivered.
func (s *Service) MarkDelivered(orderID string) (*DealerOrder, error) {
	return s.transitionDealerOrder(orderID, StatusShipped, StatusDelivered)
}

func (s *Service) transitionDealerOrder(orderID string, from, to Status) (*DealerOrder, error) {
	order, err := s.dealerOrders.Get(orderID)
	if err != nil {
		return nil, apperrors.ErrOrderNotFound
	}
	if order.Status != from {
		return nil, apperrors.ErrInvalidTransition
	}
	order.Status = to
	if err := s.dealerOrders.Upsert(order); err != nil {
		return nil, errors.Wrapf(err, "[transitionDealerOrder] failed to store order as %s", to)
	}
	return order, nil
}

// GetDealerOrder returns one dealer order.
func (s *Service) GetDealerOrder(orderID string) (*DealerOrder, error) {
	order, err := s.dealerOrders.Get(orderID)
	if err != nil {
		return nil, apperrors.ErrOrderNotFound
	}
	return order, nil
}

// ListDealerOrders returns the dealer's own orders.
func (s *Service) ListDealerOrders(dealerID string) ([]*DealerOrder, error) {
	return s.dealerOrders.ListByDealer(dealerID)
}

// ListAllDealerOrders returns every dealer order, optionally filtered by
// status (admin view).
func (s *Service) ListAllDealerOrders(status Status) ([]*DealerOrder, error) {
	if status != "" {
		return s.dealerOrders.ListByStatus(status)
	}
	return s.dealerOrders.ListAll()
}

// CreateCustomerOrder places a direct customer order against an available
// catalogue product.
func (s *Service) CreateCustomerOrder(customerID, productID string, quantity int, shippingAddress string) (*CustomerOrder, error) {
	if quantity <= 0 {
		return nil, errors.New("[CreateCustomerOrder] quantity must be positive")
	}

	product, err := s.catalogue.Get(productID)
	if err != nil {
		return nil, apperrors.ErrProductNotFound
	}
	if !product.Available || product.Stock < quantity {
		return nil, apperrors.ErrInsufficientStock
	}

	order := &CustomerOrder{
		CustomerID:      customerID,
		ProductID:       productID,
		Quantity:        quantity,
		TotalAmount:     product.Price * float64(quantity),
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
	}
	if err := s.customerOrders.Upsert(order); err != nil {
		return nil, errors.Wrap(err, "[CreateCustomerOrder] failed to store order")
	}
	return order, nil
}

// customerTransitions is the allowed customer order state machine.
var customerTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusCancelled},
	StatusApproved: {StatusShipped, StatusCancelled},
	StatusShipped:  {StatusDelivered},
}

// UpdateCustomerOrderStatus applies one allowed transition to a customer
// order.
func (s *Service) UpdateCustomerOrderStatus(orderID string, to Status) (*CustomerOrder, error) {
	order, err := s.customerOrders.Get(orderID)
	if err != nil {
		return nil, apperrors.ErrOrderNotFound
	}

	allowed := false
	for _, next := range customerTransitions[order.Status] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.ErrInvalidTransition
	}

	order.Status = to
	if err := s.customerOrders.Upsert(order); err != nil {
		return nil, errors.Wrap(err, "[UpdateCustomerOrderStatus] failed to store order")
	}
	return order, nil
}

// ListCustomerOrders returns one customer's orders.
func (s *Service) ListCustomerOrders(customerID string) ([]*CustomerOrder, error) {
	return s.customerOrders.ListByCustomer(customerID)
}

// ListAllCustomerOrders returns every customer order (admin view).
func (s *Service) ListAllCustomerOrders() ([]*CustomerOrder, error) {
	return s.customerOrders.ListAll()
}
