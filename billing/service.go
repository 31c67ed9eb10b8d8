package billing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/inventory"
	"github.com/ebikepoint/erp/products"
	"github.com/ebikepoint/erp/users"
)

// Service creates sales and the records that hang off them. A sale is the
// pivot of the ERP: it deducts dealer inventory, writes a transaction, and
// activates the product's warranty for the customer.
type Service struct {
	sales      SaleRepo
	warranties WarrantyRepo
	catalogue  products.Repo
	stock      *inventory.Service
	nowTime    func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes the billing service with required dependencies.
func NewService(sales SaleRepo, warranties WarrantyRepo, catalogue products.Repo, stock *inventory.Service, options ...ServiceOption) (*Service, error) {
	if sales == nil {
		return nil, errors.New("[NewService] sale repo is required")
	}
	if warranties == nil {
		return nil, errors.New("[NewService] warranty repo is required")
	}
	if catalogue == nil {
		return nil, errors.New("[NewService] product repo is required")
	}
	if stock == nil {
		return nil, errors.New("[NewService] inventory service is required")
	}

	s := &Service{
		sales:      sales,
		warranties: warranties,
		catalogue:  catalogue,
		stock:      stock,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// SaleParams carries the fields accepted when recording a sale.
type SaleParams struct {
	DealerID   string
	CustomerID string
	ProductID  string
	Quantity   int
	Discount   float64 // absolute amount off the subtotal
}

// CreateSale records a counter sale by a dealer or employee: it validates
// the product and the dealer's inventory, prices the sale with discount and
// GST, deducts the inventory, and activates the product warranty for the
// customer.
func (s *Service) CreateSale(seller *users.User, params SaleParams) (*Sale, *Warranty, error) {
	if !seller.Role.CanSell() {
		return nil, nil, apperrors.ErrForbidden
	}
	if params.Quantity <= 0 {
		return nil, nil, errors.New("[CreateSale] quantity must be positive")
	}
	if params.CustomerID == "" {
		return nil, nil, errors.New("[CreateSale] customer is required")
	}

	dealerID := params.DealerID
	if seller.Role == users.RoleEmployee {
		// Employees always sell for their own dealer.
		dealerID = seller.DealerID
	}
	if dealerID == "" {
		return nil, nil, errors.New("[CreateSale] dealer is required")
	}

	product, err := s.catalogue.Get(params.ProductID)
	if err != nil {
		return nil, nil, apperrors.ErrProductNotFound
	}
	if !product.Available {
		return nil, nil, apperrors.ErrInsufficientStock
	}

	subtotal := product.Price * float64(params.Quantity)
	if params.Discount < 0 || params.Discount > subtotal {
		return nil, nil, errors.New("[CreateSale] discount out of range")
	}

	if err := s.stock.Deduct(dealerID, params.ProductID, params.Quantity, inventory.KindSale, seller.ID); err != nil {
		return nil, nil, err
	}

	now := s.nowTime()
	taxable := subtotal - params.Discount
	taxAmount := taxable * DefaultTaxRate

	sale := &Sale{
		InvoiceNumber: s.invoiceNumber(now),
		DealerID:      dealerID,
		SoldByID:      seller.ID,
		CustomerID:    params.CustomerID,
		ProductID:     params.ProductID,
		Quantity:      params.Quantity,
		UnitPrice:     product.Price,
		Discount:      params.Discount,
		TaxRate:       DefaultTaxRate,
		TaxAmount:     taxAmount,
		TotalAmount:   taxable + taxAmount,
		CreatedAt:     now,
	}
	if err := s.sales.Upsert(sale); err != nil {
		s.restock(dealerID, params, seller.ID)
		return nil, nil, errors.Wrap(err, "[CreateSale] failed to store sale")
	}

	warranty := &Warranty{
		SaleID:            sale.ID,
		InvoiceNumber:     sale.InvoiceNumber,
		CustomerID:        params.CustomerID,
		ProductID:         params.ProductID,
		StartDate:         now,
		ExpiryDate:        now.AddDate(0, product.Warranty.Months, 0),
		FreeServicesTotal: product.Warranty.FreeServices,
		Active:            true,
	}
	if err := s.warranties.Upsert(warranty); err != nil {
		_ = s.sales.Delete(sale.ID)
		s.restock(dealerID, params, seller.ID)
		return nil, nil, errors.Wrap(err, "[CreateSale] failed to activate warranty")
	}

	return sale, warranty, nil
}

// restock returns a deducted quantity after a failure partway through sale
// creation. The sale and inventory repos share no transaction, so the
// compensation is best-effort.
func (s *Service) restock(dealerID string, params SaleParams, actorID string) {
	_ = s.stock.Receive(dealerID, params.ProductID, params.Quantity, inventory.KindAdjustment, actorID)
}

// GetSale returns one sale.
func (s *Service) GetSale(id string) (*Sale, error) {
	sale, err := s.sales.Get(id)
	if err != nil {
		return nil, apperrors.ErrSaleNotFound
	}
	return sale, nil
}

// ListSales returns a dealer's sales.
func (s *Service) ListSales(dealerID string) ([]*Sale, error) {
	return s.sales.ListByDealer(dealerID)
}

// ListAllSales returns every sale (admin view).
func (s *Service) ListAllSales() ([]*Sale, error) {
	return s.sales.ListAll()
}

// CustomerPurchases returns a customer's sales with the warranties they
// activated.
func (s *Service) CustomerPurchases(customerID string) ([]*Sale, []*Warranty, error) {
	sales, err := s.sales.ListByCustomer(customerID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[CustomerPurchases] failed to list sales")
	}
	warranties, err := s.warranties.ListByCustomer(customerID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[CustomerPurchases] failed to list warranties")
	}
	return sales, warranties, nil
}

// Dashboard summarizes a dealer's sales.
type Dashboard struct {
	TotalSales   int     `json:"totalSales"`
	UnitsSold    int     `json:"unitsSold"`
	Revenue      float64 `json:"revenue"`
	TaxCollected float64 `json:"taxCollected"`
}

// SalesDashboard aggregates a dealer's sales into a dashboard summary. An
// empty dealerID aggregates across dealers.
func (s *Service) SalesDashboard(dealerID string) (*Dashboard, error) {
	var (
		sales []*Sale
		err   error
	)
	if dealerID == "" {
		sales, err = s.sales.ListAll()
	} else {
		sales, err = s.sales.ListByDealer(dealerID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "[SalesDashboard] failed to list sales")
	}

	dashboard := &Dashboard{}
	for _, sale := range sales {
		dashboard.TotalSales++
		dashboard.UnitsSold += sale.Quantity
		dashboard.Revenue += sale.TotalAmount
		dashboard.TaxCollected += sale.TaxAmount
	}
	return dashboard, nil
}

// invoiceNumber generates a date-prefixed invoice number with a random
// suffix, e.g. INV-20250610-3f9c2a.
func (s *Service) invoiceNumber(now time.Time) string {
	suffix := make([]byte, 3)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), hex.EncodeToString(suffix))
}
