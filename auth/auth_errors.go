package auth

import "errors"

var (
	InvalidCredentialsErr  = errors.New("invalid credentials")
	UserNotFoundErr        = errors.New("user not found")
	UserBlockedErr         = errors.New("user blocked")
	UserNotApprovedErr     = errors.New("user not approved")
	EmailTakenErr          = errors.New("email already registered")
	InvalidRefreshTokenErr = errors.New("invalid refresh token")
	RefreshTokenExpiredErr = errors.New("refresh token expired")
	WeakPasswordErr        = errors.New("password does not meet strength requirements")
)
