// Package loans implements the loan workflow: checking a book out moves it to
// borrowed, returning it moves it back to available and settles any late fine.
// Both transitions run inside a single transaction.
package loans

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

var (
	ErrNotFound         = errors.New("loan not found")
	ErrBookNotFound     = errors.New("book not found")
	ErrBorrowerNotFound = errors.New("borrower not found")
	ErrBookUnavailable  = errors.New("book is not available for loan")
	ErrDuplicateLoan    = errors.New("borrower already has an active loan for this book")
	ErrAlreadyReturned  = errors.New("loan is not active")
	ErrBorrowerInactive = errors.New("borrower profile is not active")
)

// Policy carries the circulation constants. Values come from configuration.
type Policy struct {
	PeriodDays int
	DailyFine  float64
}

// DefaultPolicy matches the library's standing rules: 14-day loans, 2.0
// currency units per late day.
var DefaultPolicy = Policy{PeriodDays: 14, DailyFine: 2.0}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Status     entities.LoanStatus
	BorrowerID uint
	Limit      int
	Offset     int
}

// Repository handles all loan database operations.
type Repository struct {
	db     *gorm.DB
	policy Policy
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB, policy Policy) *Repository {
	if policy.PeriodDays <= 0 {
		policy.PeriodDays = DefaultPolicy.PeriodDays
	}
	if policy.DailyFine <= 0 {
		policy.DailyFine = DefaultPolicy.DailyFine
	}
	return &Repository{db: db, policy: policy}
}

// Create checks a book out to a borrower. The book must be available and the
// pair must not already have an active loan. The availability check and the
// status flip happen as one guarded UPDATE inside the transaction, so two
// concurrent requests for the same book cannot both succeed.
func (r *Repository) Create(borrowerID, bookID uint, notes string) (*entities.Loan, error) {
	var loan *entities.Loan

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var borrower entities.Borrower
		if err := tx.First(&borrower, borrowerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowerNotFound
			}
			return err
		}
		if !borrower.Active {
			return ErrBorrowerInactive
		}

		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		var activeCount int64
		err := tx.Model(&entities.Loan{}).
			Where("borrower_id = ? AND book_id = ? AND status = ?",
				borrowerID, bookID, entities.LoanStatusActive).
			Count(&activeCount).Error
		if err != nil {
			return err
		}
		if activeCount > 0 {
			return ErrDuplicateLoan
		}

		// Guarded flip: only succeeds if the book is still available at
		// commit time. RowsAffected == 0 means someone else got it first
		// or the book was never available.
		result := tx.Model(&entities.Book{}).
			Where("id = ? AND status = ?", bookID, entities.BookStatusAvailable).
			Update("status", entities.BookStatusBorrowed)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBookUnavailable
		}

		now := time.Now()
		loan = &entities.Loan{
			BorrowerID: borrowerID,
			BookID:     bookID,
			LoanedAt:   now,
			DueAt:      now.AddDate(0, 0, r.policy.PeriodDays),
			Status:     entities.LoanStatusActive,
			Notes:      notes,
		}
		return tx.Create(loan).Error
	})
	if err != nil {
		return nil, err
	}

	return loan, nil
}

// Return closes an active loan at the given time and frees the book. When the
// return is late the fine is daysLate x the daily rate, unless the caller
// supplies an explicit override.
func (r *Repository) Return(loanID uint, returnedAt time.Time, fineOverride *float64, notes string) (*entities.Loan, error) {
	var loan entities.Loan

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loan, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if loan.Status != entities.LoanStatusActive {
			return ErrAlreadyReturned
		}

		fine := 0.0
		if fineOverride != nil {
			fine = *fineOverride
		} else if returnedAt.After(loan.DueAt) {
			fine = float64(daysLate(loan.DueAt, returnedAt)) * r.policy.DailyFine
		}

		loan.ReturnedAt = &returnedAt
		loan.Status = entities.LoanStatusReturned
		loan.Fine = fine
		if notes != "" {
			loan.Notes = notes
		}
		if err := tx.Save(&loan).Error; err != nil {
			return err
		}

		return tx.Model(&entities.Book{}).
			Where("id = ?", loan.BookID).
			Update("status", entities.BookStatusAvailable).Error
	})
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

// GetByID retrieves a loan with its borrower and book.
func (r *Repository) GetByID(id uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := r.db.Preload("Borrower").Preload("Book").Preload("Book.Author").
		First(&loan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// List returns loans matching the filter, newest first.
func (r *Repository) List(filter ListFilter) ([]entities.Loan, error) {
	var loans []entities.Loan
	query := r.db.Preload("Borrower").Preload("Book").Order("loaned_at DESC")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BorrowerID > 0 {
		query = query.Where("borrower_id = ?", filter.BorrowerID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	err := query.Find(&loans).Error
	return loans, err
}

// CountActive returns the number of active loans for a book. Used by the
// catalog invariant: a book is borrowed iff exactly one active loan exists.
func (r *Repository) CountActive(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).
		Where("book_id = ? AND status = ?", bookID, entities.LoanStatusActive).
		Count(&count).Error
	return count, err
}

// daysLate counts late days, rounding partial days up.
func daysLate(due, returned time.Time) int {
	return int(math.Ceil(returned.Sub(due).Hours() / 24))
}
