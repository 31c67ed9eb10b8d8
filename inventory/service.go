package inventory

import (
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/ebikepoint/erp/internal/errors"
)

// Service provides inventory operations that keep the stock row and its
// transaction trail consistent.
type Service struct {
	repo    Repo
	nowTime func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes the inventory service.
func NewService(repo Repo, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[NewService] inventory repo is required")
	}
	s := &Service{repo: repo, nowTime: time.Now}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Receive adds quantity to a dealer's stock row, creating it on first
// receipt, and records the transaction. Used by order approval.
func (s *Service) Receive(dealerID, productID string, quantity int, kind TransactionKind, actorID string) error {
	if quantity <= 0 {
		return errors.New("[Receive] quantity must be positive")
	}

	item, err := s.repo.GetItem(dealerID, productID)
	if apperrors.Is(err, apperrors.ErrInventoryNotFound) {
		item = &Item{DealerID: dealerID, ProductID: productID}
	} else if err != nil {
		return errors.Wrap(err, "[Receive] failed to load inventory item")
	}

	item.Quantity += quantity
	if err := s.repo.UpsertItem(item); err != nil {
		return errors.Wrap(err, "[Receive] failed to store inventory item")
	}
	return s.record(dealerID, productID, quantity, kind, "", actorID)
}

// Deduct removes quantity from a dealer's stock row and records the
// transaction. Used by sale creation.
func (s *Service) Deduct(dealerID, productID string, quantity int, kind TransactionKind, actorID string) error {
	if quantity <= 0 {
		return errors.New("[Deduct] quantity must be positive")
	}

	item, err := s.repo.GetItem(dealerID, productID)
	if err != nil {
		return apperrors.ErrInventoryNotFound
	}
	if item.Quantity < quantity {
		return apperrors.ErrInsufficientStock
	}

	item.Quantity -= quantity
	if err := s.repo.UpsertItem(item); err != nil {
		return errors.Wrap(err, "[Deduct] failed to store inventory item")
	}
	return s.record(dealerID, productID, -quantity, kind, "", actorID)
}

// Adjust applies a signed manual correction with a reason.
func (s *Service) Adjust(dealerID, productID string, delta int, reason, actorID string) (*Item, error) {
	if reason == "" {
		return nil, errors.New("[Adjust] a reason is required")
	}

	item, err := s.repo.GetItem(dealerID, productID)
	if err != nil {
		return nil, apperrors.ErrInventoryNotFound
	}
	if item.Quantity+delta < 0 {
		return nil, apperrors.ErrInsufficientStock
	}

	item.Quantity += delta
	if err := s.repo.UpsertItem(item); err != nil {
		return nil, errors.Wrap(err, "[Adjust] failed to store inventory item")
	}
	if err := s.record(dealerID, productID, delta, KindAdjustment, reason, actorID); err != nil {
		return nil, err
	}
	return item, nil
}

// SetThreshold changes the reorder threshold on an existing stock row.
func (s *Service) SetThreshold(dealerID, productID string, threshold int) (*Item, error) {
	if threshold < 0 {
		return nil, errors.New("[SetThreshold] threshold cannot be negative")
	}
	item, err := s.repo.GetItem(dealerID, productID)
	if err != nil {
		return nil, apperrors.ErrInventoryNotFound
	}
	item.LowStockThreshold = threshold
	if err := s.repo.UpsertItem(item); err != nil {
		return nil, errors.Wrap(err, "[SetThreshold] failed to store inventory item")
	}
	return item, nil
}

// ListByDealer returns a dealer's stock rows.
func (s *Service) ListByDealer(dealerID string) ([]*Item, error) {
	return s.repo.ListByDealer(dealerID)
}

// ListAll returns every dealer's stock rows (admin view).
func (s *Service) ListAll() ([]*Item, error) {
	return s.repo.ListAll()
}

// LowStockItems returns the dealer's stock rows at or below threshold.
func (s *Service) LowStockItems(dealerID string) ([]*Item, error) {
	items, err := s.repo.ListByDealer(dealerID)
	if err != nil {
		return nil, errors.Wrap(err, "[LowStockItems] failed to list inventory")
	}
	low := []*Item{}
	for _, item := range items {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

// Transactions returns the dealer's quantity-change trail.
func (s *Service) Transactions(dealerID string) ([]*Transaction, error) {
	return s.repo.ListTransactions(dealerID)
}

func (s *Service) record(dealerID, productID string, delta int, kind TransactionKind, reason, actorID string) error {
	tx := &Transaction{
		DealerID:  dealerID,
		ProductID: productID,
		Delta:     delta,
		Kind:      kind,
		Reason:    reason,
		ActorID:   actorID,
		CreatedAt: s.nowTime(),
	}
	return errors.Wrap(s.repo.RecordTransaction(tx), "[record] failed to record transaction")
}
