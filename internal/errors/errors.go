package errors

import (
	"errors"
	"fmt"
)

// Common error types shared across the taskapi and storefront applications
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBlocked        = errors.New("user is blocked")
	ErrUserNotApproved    = errors.New("user is not approved")
	ErrUserNotFound       = errors.New("user not found")

	// Token errors
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Domain errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrInventoryNotFound = errors.New("inventory item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrAlreadyClockedOut = errors.New("already clocked out today")
	ErrNotClockedIn      = errors.New("not clocked in today")
	ErrWarrantyNotFound  = errors.New("warranty tracker not found")

	// Authorization errors
	ErrForbidden = errors.New("operation not permitted for role")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
