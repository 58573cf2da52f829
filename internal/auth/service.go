// Package auth handles identity accounts, credentials and bearer tokens.
//
// Accounts are separate from borrower profiles: an account is what logs in,
// a borrower is what holds loans. Registration numbers are generated per
// calendar year in the form {year}{seq:03d}.
package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/GGuiilhem/Biblioteca/internal/config"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrEmailTaken       = errors.New("email is already registered")
	ErrEmailInvalid     = errors.New("invalid email format")
	ErrNameRequired     = errors.New("name is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrBadCredentials   = errors.New("incorrect email or password")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
)

// Service handles registration, login and token validation.
type Service struct {
	db     *gorm.DB
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{db: db, config: cfg}
}

// Register creates a new account with a generated registration number.
func (s *Service) Register(name, email, password, confirmation string) (*entities.Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if password != confirmation {
		return nil, ErrPasswordMismatch
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	var existing entities.Account
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	registration, err := s.nextRegistrationNumber(time.Now().Year())
	if err != nil {
		return nil, err
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	account := &entities.Account{
		RegistrationNumber: registration,
		Name:               name,
		Email:              email,
		PasswordHash:       passwordHash,
	}
	if err := s.db.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// CreateAdmin registers an account with the admin flag set. Used by the
// create-admin bootstrap command.
func (s *Service) CreateAdmin(name, email, password string) (*entities.Account, error) {
	account, err := s.Register(name, email, password, password)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(account).Update("admin", true).Error; err != nil {
		return nil, err
	}
	account.Admin = true
	return account, nil
}

// Login validates credentials, stamps the last login and issues a bearer
// token bound to the account. The plaintext token is returned once; only its
// hash is stored.
func (s *Service) Login(email, password string) (*entities.Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var account entities.Account
	err := s.db.Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", fmt.Errorf("failed to find account: %w", err)
	}

	if err := CheckPassword(password, account.PasswordHash); err != nil {
		return nil, "", ErrBadCredentials
	}

	plaintext, hash, err := GenerateBearerToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	err = s.db.Model(&account).Updates(map[string]any{
		"last_login_at":    now,
		"token_hash":       hash,
		"token_created_at": now,
	}).Error
	if err != nil {
		return nil, "", fmt.Errorf("failed to save token: %w", err)
	}
	account.LastLoginAt = &now

	return &account, plaintext, nil
}

// ValidateToken resolves a plaintext bearer token to its account, enforcing
// the configured expiry.
func (s *Service) ValidateToken(token string) (*entities.Account, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var account entities.Account
	err := s.db.Where("token_hash = ?", HashToken(token)).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if s.config.TokenExpiry > 0 && account.TokenCreatedAt != nil {
		if time.Since(*account.TokenCreatedAt) > s.config.TokenExpiry {
			return nil, ErrTokenExpired
		}
	}

	return &account, nil
}

// GetAccountByID retrieves an account by ID.
func (s *Service) GetAccountByID(id uint) (*entities.Account, error) {
	var account entities.Account
	err := s.db.First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// TokenExpirySeconds reports the configured token lifetime for login
// responses.
func (s *Service) TokenExpirySeconds() int {
	return int(s.config.TokenExpiry.Seconds())
}

// nextRegistrationNumber assigns {year}{seq:03d} where seq is one past the
// highest suffix already issued this calendar year.
func (s *Service) nextRegistrationNumber(year int) (string, error) {
	prefix := strconv.Itoa(year)

	var accounts []entities.Account
	err := s.db.Where("registration_number LIKE ?", prefix+"%").Find(&accounts).Error
	if err != nil {
		return "", fmt.Errorf("failed to list registrations for %d: %w", year, err)
	}

	next := 1
	for _, account := range accounts {
		if len(account.RegistrationNumber) <= len(prefix) {
			continue
		}
		seq, err := strconv.Atoi(account.RegistrationNumber[len(prefix):])
		if err != nil {
			continue
		}
		if seq >= next {
			next = seq + 1
		}
	}

	return fmt.Sprintf("%s%03d", prefix, next), nil
}
