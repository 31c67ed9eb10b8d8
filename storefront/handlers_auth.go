package storefront

import (
	"net/http"

	"github.com/ebikepoint/erp/auth"
	apperrors "github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/users"
)

type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone"`
	DealershipName string `json:"dealershipName"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	Pincode        string `json:"pincode"`
}

func (r registerRequest) params() auth.RegisterParams {
	return auth.RegisterParams{
		Email:          r.Email,
		Password:       r.Password,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		DealershipName: r.DealershipName,
		Address:        r.Address,
		City:           r.City,
		State:          r.State,
		Pincode:        r.Pincode,
	}
}

// RegisterCustomerHandler self-registers a customer account.
func (s *Server) RegisterCustomerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := s.deps.Auth.RegisterCustomer(req.params())
		if err != nil {
			s.authError(w, err)
			return
		}
		writeData(w, http.StatusCreated, user)
	}
}

// RegisterDealerHandler registers an approved dealer account. The calling
// admin is recorded as the dealer's managing admin.
func (s *Server) RegisterDealerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := s.deps.Auth.RegisterDealer(req.params(), s.currentUser(r).ID)
		if err != nil {
			s.authError(w, err)
			return
		}
		writeData(w, http.StatusCreated, user)
	}
}

// RegisterStaffHandler registers an employee or serviceman under the
// calling dealer.
func (s *Server) RegisterStaffHandler() http.HandlerFunc {
	type staffRequest struct {
		registerRequest
		Role string `json:"role"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req staffRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		role, err := users.ParseRole(req.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unknown role")
			return
		}

		user, err := s.deps.Auth.RegisterStaff(req.params(), role, s.currentUser(r).ID)
		if err != nil {
			s.authError(w, err)
			return
		}
		writeData(w, http.StatusCreated, user)
	}
}

// LoginHandler issues a token pair and the account profile.
func (s *Server) LoginHandler() http.HandlerFunc {
	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		pair, user, err := s.deps.Auth.Login(req.Email, req.Password)
		if err != nil {
			s.authError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"access":  pair.Access,
			"refresh": pair.Refresh,
			"user":    user,
		})
	}
}

// RefreshHandler exchanges a refresh token for a new access token. The
// request and response shapes match what authenticated API clients expect:
// {"refresh": ...} in, {"access": ...} out.
func (s *Server) RefreshHandler() http.HandlerFunc {
	type refreshRequest struct {
		Refresh string `json:"refresh"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		access, err := s.deps.Auth.Refresh(req.Refresh)
		if err != nil {
			s.authError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access": access})
	}
}

// LogoutHandler revokes the caller's refresh token.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.deps.Auth.Logout(s.currentUser(r).ID); err != nil {
			s.domainError(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "Logged out")
	}
}

// MeHandler returns the authenticated profile.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, s.currentUser(r))
	}
}

// NavigationHandler returns the navigation set for the caller's role.
func (s *Server) NavigationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		nav, err := user.Role.Navigation()
		if err != nil {
			s.log.Error().Err(err).Str("userId", user.ID).Msg("role without navigation")
			writeError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		writeData(w, http.StatusOK, map[string]any{
			"role":       user.Role,
			"navigation": nav,
		})
	}
}

// UpdateProfileHandler applies the editable profile fields.
func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	type profileRequest struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Phone     *string `json:"phone"`
		Address   *string `json:"address"`
		City      *string `json:"city"`
		State     *string `json:"state"`
		Pincode   *string `json:"pincode"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user := s.currentUser(r)
		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.Address != nil {
			user.Address = *req.Address
		}
		if req.City != nil {
			user.City = *req.City
		}
		if req.State != nil {
			user.State = *req.State
		}
		if req.Pincode != nil {
			user.Pincode = *req.Pincode
		}

		if err := s.deps.UserRepo.Upsert(user); err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, user)
	}
}

// ChangePasswordHandler rotates the password and revokes the refresh token.
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	type changeRequest struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req changeRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := s.deps.Auth.ChangePassword(s.currentUser(r).ID, req.OldPassword, req.NewPassword); err != nil {
			s.authError(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "Password changed")
	}
}

// DeleteAccountHandler removes the caller's account.
func (s *Server) DeleteAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.deps.Auth.DeleteAccount(s.currentUser(r).ID); err != nil {
			s.authError(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "Account deleted")
	}
}

// authError maps the auth service sentinels onto HTTP statuses.
func (s *Server) authError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, auth.InvalidCredentialsErr):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case apperrors.Is(err, auth.UserBlockedErr):
		writeError(w, http.StatusForbidden, "Account is blocked")
	case apperrors.Is(err, auth.UserNotApprovedErr):
		writeError(w, http.StatusForbidden, "Account awaiting approval")
	case apperrors.Is(err, auth.EmailTakenErr):
		writeError(w, http.StatusConflict, "Email already registered")
	case apperrors.Is(err, auth.WeakPasswordErr):
		writeValidationError(w, "Password too weak", []string{err.Error()})
	case apperrors.Is(err, auth.InvalidRefreshTokenErr),
		apperrors.Is(err, auth.RefreshTokenExpiredErr):
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
	case apperrors.Is(err, auth.UserNotFoundErr):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		s.log.Error().Err(err).Msg("auth failure")
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
