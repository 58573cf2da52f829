// Package borrowers provides database operations for borrower profiles.
// Borrowers are distinct from auth accounts; a regular account gets a profile
// created implicitly on its first loan.
package borrowers

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

var (
	ErrNotFound          = errors.New("borrower not found")
	ErrNameRequired      = errors.New("borrower name is required")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrNationalIDTaken   = errors.New("national ID is already registered")
	ErrNationalIDInvalid = errors.New("national ID must be 11 digits")
	ErrRegistrationTaken = errors.New("registration number is already registered")
)

var nationalIDPattern = regexp.MustCompile(`^\d{11}$`)

// Repository handles all borrower database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new borrowers repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new borrower profile enforcing the three uniqueness rules.
func (r *Repository) Create(borrower *entities.Borrower) error {
	if strings.TrimSpace(borrower.Name) == "" {
		return ErrNameRequired
	}
	if borrower.NationalID != "" && !nationalIDPattern.MatchString(borrower.NationalID) {
		return ErrNationalIDInvalid
	}
	if borrower.Type == "" {
		borrower.Type = entities.BorrowerTypeStudent
	}

	if err := r.checkUnique("email", borrower.Email, 0, ErrEmailTaken); err != nil {
		return err
	}
	if borrower.NationalID != "" {
		if err := r.checkUnique("national_id", borrower.NationalID, 0, ErrNationalIDTaken); err != nil {
			return err
		}
	}
	if err := r.checkUnique("registration_number", borrower.RegistrationNumber, 0, ErrRegistrationTaken); err != nil {
		return err
	}

	return r.db.Create(borrower).Error
}

// GetByID retrieves a borrower by ID.
func (r *Repository) GetByID(id uint) (*entities.Borrower, error) {
	var borrower entities.Borrower
	err := r.db.First(&borrower, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &borrower, nil
}

// GetByRegistration retrieves a borrower by registration number.
func (r *Repository) GetByRegistration(registration string) (*entities.Borrower, error) {
	var borrower entities.Borrower
	err := r.db.Where("registration_number = ?", registration).First(&borrower).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &borrower, nil
}

// GetOrCreateForAccount finds the borrower profile linked to an account by
// registration number, creating a student profile from the account data when
// none exists yet.
func (r *Repository) GetOrCreateForAccount(account *entities.Account) (*entities.Borrower, error) {
	borrower, err := r.GetByRegistration(account.RegistrationNumber)
	if err == nil {
		return borrower, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	borrower = &entities.Borrower{
		Name:               account.Name,
		Email:              account.Email,
		RegistrationNumber: account.RegistrationNumber,
		Type:               entities.BorrowerTypeStudent,
		Active:             true,
	}
	if err := r.db.Create(borrower).Error; err != nil {
		return nil, err
	}
	return borrower, nil
}

// List returns borrowers, optionally only active ones.
func (r *Repository) List(activeOnly bool, limit, offset int) ([]entities.Borrower, error) {
	var borrowers []entities.Borrower
	query := r.db.Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&borrowers).Error
	return borrowers, err
}

// Update persists changes to a borrower, re-checking uniqueness.
func (r *Repository) Update(borrower *entities.Borrower) error {
	if strings.TrimSpace(borrower.Name) == "" {
		return ErrNameRequired
	}
	if borrower.NationalID != "" && !nationalIDPattern.MatchString(borrower.NationalID) {
		return ErrNationalIDInvalid
	}

	if err := r.checkUnique("email", borrower.Email, borrower.ID, ErrEmailTaken); err != nil {
		return err
	}
	if borrower.NationalID != "" {
		if err := r.checkUnique("national_id", borrower.NationalID, borrower.ID, ErrNationalIDTaken); err != nil {
			return err
		}
	}
	if err := r.checkUnique("registration_number", borrower.RegistrationNumber, borrower.ID, ErrRegistrationTaken); err != nil {
		return err
	}

	result := r.db.Model(&entities.Borrower{}).Where("id = ?", borrower.ID).Updates(map[string]any{
		"name":                borrower.Name,
		"email":               borrower.Email,
		"national_id":         borrower.NationalID,
		"registration_number": borrower.RegistrationNumber,
		"type":                borrower.Type,
		"course":              borrower.Course,
		"phone":               borrower.Phone,
		"address":             borrower.Address,
		"birth_date":          borrower.BirthDate,
		"active":              borrower.Active,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate flips the active flag off instead of deleting the row, so loan
// history stays intact.
func (r *Repository) Deactivate(id uint) error {
	result := r.db.Model(&entities.Borrower{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) checkUnique(column, value string, excludeID uint, conflict error) error {
	var existing entities.Borrower
	query := r.db.Where(column+" = ?", value)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	err := query.First(&existing).Error
	if err == nil {
		return conflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
