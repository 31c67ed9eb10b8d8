package users

import (
	"fmt"
	"time"

	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// EmploymentStatus tracks the lifecycle of staff accounts (employees and
// servicemen attached to a dealer).
type EmploymentStatus string

const (
	EmploymentActive     EmploymentStatus = "active"
	EmploymentInactive   EmploymentStatus = "inactive"
	EmploymentTerminated EmploymentStatus = "terminated"
	EmploymentOnLeave    EmploymentStatus = "on_leave"
)

type User struct {
	ID           string `json:"id,omitempty"`    // Unique identifier for the user
	Email        string `json:"email,omitempty"` // User's email address
	PasswordHash string `json:"-"`               // Hashed version of the user's password - never serialize
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Phone        string `json:"phone,omitempty"`

	Role Role `json:"role,omitempty"` // The single role governing permissions

	// Relationships (for staff accounts)
	DealerID string `json:"dealer_id,omitempty"` // Dealer an employee/serviceman belongs to
	AdminID  string `json:"admin_id,omitempty"`  // Admin who created a dealer account

	// Dealer-specific fields
	DealershipName string `json:"dealership_name,omitempty"`

	// Location details
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`

	// Employment details
	JoiningDate      time.Time        `json:"joining_date,omitempty"`
	Salary           float64          `json:"salary,omitempty"`
	EmploymentStatus EmploymentStatus `json:"employment_status,omitempty"`

	DateJoined time.Time `json:"date_joined,omitempty"` // When the user registered
	LastLogin  time.Time `json:"last_login,omitempty"`  // Last successful login

	Active   bool `json:"is_active"`   // Inactive users cannot log in
	Approved bool `json:"is_approved"` // Dealers need admin approval before first login
	Blocked  bool `json:"blocked,omitempty"`
}

// FullName returns the display name used in order and sale records.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsStaff reports whether the user is attached to a dealer's workforce.
func (u *User) IsStaff() bool {
	return u.Role == RoleEmployee || u.Role == RoleServiceman
}

// CanLogin checks the account-state gates applied at login time.
func (u *User) CanLogin() error {
	if u.Blocked {
		return fmt.Errorf("user is blocked")
	}
	if !u.Active {
		return fmt.Errorf("user is inactive")
	}
	if u.Role == RoleDealer && !u.Approved {
		return fmt.Errorf("dealer account awaiting approval")
	}
	return nil
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

// HashCost is the bcrypt work factor. Overridable from configuration at
// startup.
var HashCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
