package auth_test

import (
	"testing"
	"time"

	"github.com/ebikepoint/erp/auth"
	"github.com/ebikepoint/erp/token"
	"github.com/ebikepoint/erp/token/refresh"
	fakerefreshrepo "github.com/ebikepoint/erp/token/refresh/repofake"
	"github.com/ebikepoint/erp/users"
	fakeuserrepo "github.com/ebikepoint/erp/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	signingKey       = "test-signing-key"
	issuer           = "ebikepoint-test"
	testUserEmail    = "john.doe@example.com"
	testUserPassword = "Password123"
)

// testFixture holds all test dependencies
type testFixture struct {
	userRepo   users.UserRepo
	refreshMgr *refresh.Manager
	tokens     *token.Manager
	service    *auth.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	ur := fakeuserrepo.NewFakeUserRepo()
	rm := refresh.NewManager(fakerefreshrepo.NewFakeRefreshTokenRepo(), 32, 7*24*time.Hour)
	tm := token.New(signingKey, issuer)

	service, err := auth.NewService(ur, tm, rm)
	require.NoError(t, err)

	return &testFixture{
		userRepo:   ur,
		refreshMgr: rm,
		tokens:     tm,
		service:    service,
	}
}

func (f *testFixture) createUser(t *testing.T, email, password string, role users.Role) *users.User {
	t.Helper()

	hash, err := users.HashPassword(password)
	require.NoError(t, err)

	user := &users.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "John",
		LastName:     "Doe",
		Role:         role,
		Active:       true,
		Approved:     true,
	}
	require.NoError(t, f.userRepo.Upsert(user))
	return user
}

func TestLoginIssuesTokenPair(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createUser(t, testUserEmail, testUserPassword, users.RoleCustomer)

	pair, profile, err := f.service.Login(testUserEmail, testUserPassword)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	require.Equal(t, user.ID, profile.ID)

	claims, err := f.tokens.VerifyAccessToken(pair.Access)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, users.RoleCustomer, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	f := setupTestFixture(t)
	f.createUser(t, testUserEmail, testUserPassword, users.RoleCustomer)

	_, _, err := f.service.Login(testUserEmail, "WrongPassword1")
	require.ErrorIs(t, err, auth.InvalidCredentialsErr)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	f := setupTestFixture(t)

	_, _, err := f.service.Login("nobody@example.com", testUserPassword)
	require.ErrorIs(t, err, auth.InvalidCredentialsErr)
}

func TestLoginBlockedUser(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createUser(t, testUserEmail, testUserPassword, users.RoleCustomer)
	require.NoError(t, f.userRepo.SetBlocked(user.ID, true))

	_, _, err := f.service.Login(testUserEmail, testUserPassword)
	require.ErrorIs(t, err, auth.UserBlockedErr)
}

func TestLoginUnapprovedDealer(t *testing.T) {
	f := setupTestFixture(t)
	dealer := f.createUser(t, "dealer@example.com", testUserPassword, users.RoleDealer)
	require.NoError(t, f.userRepo.SetApproved(dealer.ID, false))

	_, _, err := f.service.Login("dealer@example.com", testUserPassword)
	require.ErrorIs(t, err, auth.UserNotApprovedErr)
}

func TestRegisterDealerCanLoginImmediately(t *testing.T) {
	f := setupTestFixture(t)
	admin := f.createUser(t, "admin@example.com", testUserPassword, users.RoleAdmin)

	dealer, err := f.service.RegisterDealer(auth.RegisterParams{
		Email:          "dealer@example.com",
		Password:       testUserPassword,
		FirstName:      "Dana",
		LastName:       "Dealer",
		DealershipName: "City Bikes",
	}, admin.ID)
	require.NoError(t, err)
	require.True(t, dealer.Approved)
	require.Equal(t, admin.ID, dealer.AdminID)

	pair, profile, err := f.service.Login("dealer@example.com", testUserPassword)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.Equal(t, dealer.ID, profile.ID)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createUser(t, testUserEmail, testUserPassword, users.RoleDealer)

	pair, _, err := f.service.Login(testUserEmail, testUserPassword)
	require.NoError(t, err)

	access, err := f.service.Refresh(pair.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	claims, err := f.tokens.VerifyAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
}

func TestRefreshUnknownToken(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Refresh("not-a-token")
	require.ErrorIs(t, err, auth.InvalidRefreshTokenErr)
}

func TestRefreshExpiredTokenIsDeleted(t *testing.T) {
	f := setupTestFixture(t)

	repo := fakerefreshrepo.NewFakeRefreshTokenRepo()
	rm := refresh.NewManager(repo, 32, time.Hour)
	tm := token.New(signingKey, issuer)
	service, err := auth.NewService(f.userRepo, tm, rm)
	require.NoError(t, err)

	user := f.createUser(t, testUserEmail, testUserPassword, users.RoleCustomer)
	tokenStr, err := rm.Create(user.ID)
	require.NoError(t, err)

	// Age the stored token beyond the expiry window.
	stored, err := repo.Get(*tokenStr)
	require.NoError(t, err)
	stored.Iat = time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Upsert(stored))

	_, err = service.Refresh(*tokenStr)
	require.ErrorIs(t, err, auth.RefreshTokenExpiredErr)

	_, err = repo.Get(*tokenStr)
	require.Error(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createUser(t, testUserEmail, testUserPassword, users.RoleCustomer)

	pair, _, err := f.service.Login(testUserEmail, testUserPassword)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(user.ID))

	_, err = f.service.Refresh(pair.Refresh)
	require.ErrorIs(t, err, auth.InvalidRefreshTokenErr)
}

func TestRegisterCustomerRejectsWeakPassword(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.RegisterCustomer(auth.RegisterParams{
		Email:    "new@example.com",
		Password: "short",
	})
	require.ErrorIs(t, err, auth.WeakPasswordErr)
}

func TestRegisterCustomerDuplicateEmail(t *testing.T) {
	f := setupTestFixture(t)
	f.createUser(t, testUserEmail, testUserPassword, users.RoleCustomer)

	_, err := f.service.RegisterCustomer(auth.RegisterParams{
		Email:     testUserEmail,
		Password:  testUserPassword,
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.ErrorIs(t, err, auth.EmailTakenErr)
}

func TestChangePasswordRevokesRefreshToken(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createUser(t, testUserEmail, testUserPassword, users.RoleCustomer)

	pair, _, err := f.service.Login(testUserEmail, testUserPassword)
	require.NoError(t, err)

	require.NoError(t, f.service.ChangePassword(user.ID, testUserPassword, "NewPassword123"))

	_, err = f.service.Refresh(pair.Refresh)
	require.ErrorIs(t, err, auth.InvalidRefreshTokenErr)

	_, _, err = f.service.Login(testUserEmail, "NewPassword123")
	require.NoError(t, err)
}
