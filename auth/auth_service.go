// Package auth implements first-party credential issuance for the storefront
// backend: login with email and password, refresh token rotation, and the
// account management operations exposed under /auth.
package auth

import (
	"time"

	"github.com/ebikepoint/erp/token"
	"github.com/ebikepoint/erp/token/refresh"
	"github.com/ebikepoint/erp/users"
	"github.com/pkg/errors"
)

// TokenPair is the credential pair returned by Login: a short-lived signed
// access token and a longer-lived opaque refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Service provides authentication operations over the user repository and
// the token managers.
type Service struct {
	userRepo     users.UserRepo
	tokens       *token.Manager
	refreshMgr   *refresh.Manager
	nowTime      func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes the auth service with required dependencies.
func NewService(userRepo users.UserRepo, tokens *token.Manager, refreshMgr *refresh.Manager, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token manager is required")
	}
	if refreshMgr == nil {
		return nil, errors.New("[NewService] refresh manager is required")
	}

	s := &Service{
		userRepo:   userRepo,
		tokens:     tokens,
		refreshMgr: refreshMgr,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login verifies the password and account state and issues a token pair.
func (s *Service) Login(email, password string) (*TokenPair, *users.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil || user == nil {
		// Same error as a wrong password so the response does not reveal
		// which emails are registered.
		return nil, nil, InvalidCredentialsErr
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, InvalidCredentialsErr
	}

	if user.Blocked {
		return nil, nil, UserBlockedErr
	}
	if err := user.CanLogin(); err != nil {
		if user.Role == users.RoleDealer && !user.Approved {
			return nil, nil, UserNotApprovedErr
		}
		return nil, nil, errors.Wrap(err, "[Login] account state")
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	user.LastLogin = s.nowTime()
	if err := s.userRepo.Upsert(user); err != nil {
		return nil, nil, errors.Wrap(err, "[Login] failed to record last login")
	}

	return pair, user, nil
}

// Refresh validates a refresh token and issues a new access token. The
// refresh token itself is left in place; its rotation happens on login.
func (s *Service) Refresh(refreshToken string) (string, error) {
	stored, err := s.refreshMgr.Get(refreshToken)
	if err != nil || stored == nil {
		return "", InvalidRefreshTokenErr
	}

	if s.refreshMgr.IsExpired(stored) {
		_ = s.refreshMgr.Delete(stored.Token)
		return "", RefreshTokenExpiredErr
	}

	user, err := s.userRepo.GetByID(stored.UserID)
	if err != nil || user == nil {
		return "", UserNotFoundErr
	}
	if user.Blocked {
		return "", UserBlockedErr
	}

	access, err := s.tokens.CreateAccessToken(user)
	if err != nil {
		return "", errors.Wrap(err, "[Refresh] failed to create access token")
	}
	return access, nil
}

// Logout revokes the user's refresh token. The access token stays valid
// until expiry; clients discard it.
func (s *Service) Logout(userID string) error {
	return s.refreshMgr.DeleteForUser(userID)
}

// RegisterParams carries the fields accepted at registration time.
type RegisterParams struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Phone          string
	DealershipName string // dealer registration only
	Address        string
	City           string
	State          string
	Pincode        string
}

// RegisterCustomer creates a self-registered customer account.
func (s *Service) RegisterCustomer(params RegisterParams) (*users.User, error) {
	return s.register(params, users.RoleCustomer, true)
}

// RegisterDealer creates a dealer account. Registration is admin-initiated,
// so the account is approved from the start.
func (s *Service) RegisterDealer(params RegisterParams, adminID string) (*users.User, error) {
	user, err := s.register(params, users.RoleDealer, true)
	if err != nil {
		return nil, err
	}
	user.AdminID = adminID
	if err := s.userRepo.Upsert(user); err != nil {
		return nil, errors.Wrap(err, "[RegisterDealer] failed to record admin")
	}
	return user, nil
}

// RegisterStaff creates an employee or serviceman account attached to a
// dealer.
func (s *Service) RegisterStaff(params RegisterParams, role users.Role, dealerID string) (*users.User, error) {
	if role != users.RoleEmployee && role != users.RoleServiceman {
		return nil, errors.Errorf("[RegisterStaff] role %q is not a staff role", role)
	}
	user, err := s.register(params, role, true)
	if err != nil {
		return nil, err
	}
	user.DealerID = dealerID
	user.EmploymentStatus = users.EmploymentActive
	user.JoiningDate = s.nowTime()
	if err := s.userRepo.Upsert(user); err != nil {
		return nil, errors.Wrap(err, "[RegisterStaff] failed to record dealer")
	}
	return user, nil
}

func (s *Service) register(params RegisterParams, role users.Role, approved bool) (*users.User, error) {
	if err := users.ValidatePasswordStrength(params.Password); err != nil {
		return nil, errors.Wrap(WeakPasswordErr, err.Error())
	}

	if existing, err := s.userRepo.GetByEmail(params.Email); err == nil && existing != nil {
		return nil, EmailTakenErr
	}

	hash, err := users.HashPassword(params.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[register] failed to hash password")
	}

	user := &users.User{
		Email:          params.Email,
		PasswordHash:   hash,
		FirstName:      params.FirstName,
		LastName:       params.LastName,
		Phone:          params.Phone,
		Role:           role,
		DealershipName: params.DealershipName,
		Address:        params.Address,
		City:           params.City,
		State:          params.State,
		Pincode:        params.Pincode,
		DateJoined:     s.nowTime(),
		Active:         true,
		Approved:       approved,
	}
	if err := s.userRepo.Upsert(user); err != nil {
		return nil, errors.Wrap(err, "[register] failed to store user")
	}
	return user, nil
}

// ChangePassword verifies the old password before storing a new hash and
// revoking the user's refresh token.
func (s *Service) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil || user == nil {
		return UserNotFoundErr
	}

	if !users.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return InvalidCredentialsErr
	}
	if err := users.ValidatePasswordStrength(newPassword); err != nil {
		return errors.Wrap(WeakPasswordErr, err.Error())
	}

	hash, err := users.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, "[ChangePassword] failed to hash password")
	}
	user.PasswordHash = hash
	if err := s.userRepo.Upsert(user); err != nil {
		return errors.Wrap(err, "[ChangePassword] failed to store user")
	}

	// Force every other session back through login.
	return s.refreshMgr.DeleteForUser(userID)
}

// DeleteAccount removes the user and revokes any outstanding refresh token.
func (s *Service) DeleteAccount(userID string) error {
	if err := s.refreshMgr.DeleteForUser(userID); err != nil {
		return errors.Wrap(err, "[DeleteAccount] failed to revoke refresh token")
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return UserNotFoundErr
	}
	return nil
}

func (s *Service) issuePair(user *users.User) (*TokenPair, error) {
	access, err := s.tokens.CreateAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "[issuePair] failed to create access token")
	}

	refreshToken, err := s.refreshMgr.Create(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[issuePair] failed to create refresh token")
	}

	return &TokenPair{Access: access, Refresh: *refreshToken}, nil
}
