package servicing

import (
	"time"

	"github.com/pkg/errors"

	"github.com/ebikepoint/erp/billing"
	apperrors "github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/products"
	"github.com/ebikepoint/erp/users"
)

// Service runs the service-request workflow against the warranty records
// from billing and the service charges from the product catalogue.
type Service struct {
	requests   Repo
	warranties billing.WarrantyRepo
	catalogue  products.Repo
	userRepo   users.UserRepo
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

// NewService initializes the servicing service with required dependencies.
func NewService(requests Repo, warranties billing.WarrantyRepo, catalogue products.Repo, userRepo users.UserRepo, options ...ServiceOption) (*Service, error) {
	if requests == nil {
		return nil, errors.New("[NewService] request repo is required")
	}
	if warranties == nil {
		return nil, errors.New("[NewService] warranty repo is required")
	}
	if catalogue == nil {
		return nil, errors.New("[NewService] product repo is required")
	}
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}

	s := &Service{
		requests:   requests,
		warranties: warranties,
		catalogue:  catalogue,
		userRepo:   userRepo,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// CreateRequest raises a service request against an invoice. The warranty
// must belong to the requesting customer. If the warranty is valid and a
// free service remains, the visit is free and the allowance is consumed;
// otherwise the product's first service charge applies.
func (s *Service) CreateRequest(customerID, invoiceNumber, description string) (*Request, error) {
	warranty, err := s.warranties.GetByInvoice(invoiceNumber)
	if err != nil {
		return nil, apperrors.ErrWarrantyNotFound
	}
	if warranty.CustomerID != customerID {
		return nil, apperrors.ErrForbidden
	}

	request := &Request{
		CustomerID:    customerID,
		InvoiceNumber: invoiceNumber,
		ProductID:     warranty.ProductID,
		Description:   description,
		Status:        StatusPending,
	}

	now := s.nowTime()
	if warranty.ValidAt(now) && warranty.FreeServiceAvailable() {
		request.FreeService = true
		warranty.FreeServicesUsed++
		if err := s.warranties.Upsert(warranty); err != nil {
			return nil, errors.Wrap(err, "[CreateRequest] failed to consume free service")
		}
	} else {
		request.Charge = s.serviceCharge(warranty.ProductID)
	}

	if err := s.requests.Upsert(request); err != nil {
		return nil, errors.Wrap(err, "[CreateRequest] failed to store request")
	}
	return request, nil
}

// Assign hands a pending request to a serviceman.
func (s *Service) Assign(requestID, servicemanID string) (*Request, error) {
	request, err := s.requests.Get(requestID)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}
	if request.Status != StatusPending {
		return nil, apperrors.ErrInvalidTransition
	}

	serviceman, err := s.userRepo.GetByID(servicemanID)
	if err != nil || serviceman == nil {
		return nil, apperrors.ErrUserNotFound
	}
	if serviceman.Role != users.RoleServiceman {
		return nil, apperrors.ErrForbidden
	}

	request.AssignedToID = servicemanID
	request.Status = StatusAssigned
	if err := s.requests.Upsert(request); err != nil {
		return nil, errors.Wrap(err, "[Assign] failed to store request")
	}
	return request, nil
}

// transitions is the allowed request state machine past assignment.
var transitions = map[Status][]Status{
	StatusPending:    {StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// UpdateStatus applies one allowed transition to a request.
func (s *Service) UpdateStatus(requestID string, to Status) (*Request, error) {
	request, err := s.requests.Get(requestID)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	allowed := false
	for _, next := range transitions[request.Status] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.ErrInvalidTransition
	}

	request.Status = to
	if err := s.requests.Upsert(request); err != nil {
		return nil, errors.Wrap(err, "[UpdateStatus] failed to store request")
	}
	return request, nil
}

// WarrantyStatus looks up the warranty behind an invoice for its owner.
type WarrantyStatus struct {
	Warranty      *billing.Warranty `json:"warranty"`
	Valid         bool              `json:"valid"`
	FreeRemaining int               `json:"freeRemaining"`
}

// WarrantyByInvoice returns warranty status for the customer owning it.
func (s *Service) WarrantyByInvoice(customerID, invoiceNumber string) (*WarrantyStatus, error) {
	warranty, err := s.warranties.GetByInvoice(invoiceNumber)
	if err != nil {
		return nil, apperrors.ErrWarrantyNotFound
	}
	if warranty.CustomerID != customerID {
		return nil, apperrors.ErrForbidden
	}
	return &WarrantyStatus{
		Warranty:      warranty,
		Valid:         warranty.ValidAt(s.nowTime()),
		FreeRemaining: warranty.FreeServicesTotal - warranty.FreeServicesUsed,
	}, nil
}

// ListByCustomer returns a customer's requests.
func (s *Service) ListByCustomer(customerID string) ([]*Request, error) {
	return s.requests.ListByCustomer(customerID)
}

// ListByAssignee returns a serviceman's assigned requests.
func (s *Service) ListByAssignee(servicemanID string) ([]*Request, error) {
	return s.requests.ListByAssignee(servicemanID)
}

// ListAll returns every request (dealer and admin views).
func (s *Service) ListAll() ([]*Request, error) {
	return s.requests.ListAll()
}

func (s *Service) serviceCharge(productID string) float64 {
	product, err := s.catalogue.Get(productID)
	if err != nil || len(product.ServiceCharges) == 0 {
		return 0
	}
	return product.ServiceCharges[0].Amount
}
