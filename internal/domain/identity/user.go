package identity

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/investtrack/backend/internal/domain/catalog"
	"github.com/investtrack/backend/internal/domain/shared"
)

// Password cost for bcrypt
const bcryptCost = 12

// User represents an account holder. RiskAppetite shares the catalog risk
// enumeration so recommendation matching is a direct comparison.
type User struct {
	shared.BaseAggregateRoot
	FirstName    string            `gorm:"type:varchar(100);not null"`
	LastName     string            `gorm:"type:varchar(100)"`
	Email        string            `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string            `gorm:"type:varchar(100);not null"`
	RiskAppetite catalog.RiskLevel `gorm:"type:varchar(20);not null;default:'MODERATE'"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user. An empty riskAppetite defaults to MODERATE.
func NewUser(firstName, lastName, email, password string, riskAppetite catalog.RiskLevel) (*User, error) {
	if err := validateFirstName(firstName); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if riskAppetite == "" {
		riskAppetite = catalog.RiskLevelModerate
	}
	if err := catalog.ValidateRiskLevel(riskAppetite); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		RiskAppetite:      riskAppetite,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// UpdateProfile updates the user's name fields and risk appetite
func (u *User) UpdateProfile(firstName, lastName string, riskAppetite catalog.RiskLevel) error {
	if err := validateFirstName(firstName); err != nil {
		return err
	}
	if err := catalog.ValidateRiskLevel(riskAppetite); err != nil {
		return err
	}

	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.RiskAppetite = riskAppetite
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ChangePassword verifies the current password before setting a new one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}

	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()
}

// FullName joins the name fields, tolerating a missing last name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Validation functions

func validateFirstName(firstName string) error {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return shared.NewDomainError("INVALID_NAME", "First name is required")
	}
	if len(firstName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "First name cannot exceed 100 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
