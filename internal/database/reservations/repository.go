// Package reservations implements holds on currently-borrowed books.
//
// A reservation only moves from pending to cancelled. Nothing promotes one to
// a loan when the book is returned, and expiry dates are not enforced by any
// background process; ExpiresAt is recorded for the front desk to consult.
package reservations

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

var (
	ErrNotFound             = errors.New("reservation not found")
	ErrBookNotFound         = errors.New("book not found")
	ErrBorrowerNotFound     = errors.New("borrower not found")
	ErrBookNotBorrowed      = errors.New("only borrowed books can be reserved")
	ErrDuplicateReservation = errors.New("borrower already has a pending reservation for this book")
	ErrAlreadyCancelled     = errors.New("reservation is not pending")
)

// Repository handles all reservation database operations.
type Repository struct {
	db         *gorm.DB
	expiryDays int
}

// NewRepository creates a new reservations repository.
func NewRepository(db *gorm.DB, expiryDays int) *Repository {
	if expiryDays <= 0 {
		expiryDays = 7
	}
	return &Repository{db: db, expiryDays: expiryDays}
}

// Create places a hold on a borrowed book for a borrower.
func (r *Repository) Create(borrowerID, bookID uint) (*entities.Reservation, error) {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if book.Status != entities.BookStatusBorrowed {
		return nil, ErrBookNotBorrowed
	}

	var borrower entities.Borrower
	if err := r.db.First(&borrower, borrowerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBorrowerNotFound
		}
		return nil, err
	}

	var pendingCount int64
	err := r.db.Model(&entities.Reservation{}).
		Where("borrower_id = ? AND book_id = ? AND status = ?",
			borrowerID, bookID, entities.ReservationStatusPending).
		Count(&pendingCount).Error
	if err != nil {
		return nil, err
	}
	if pendingCount > 0 {
		return nil, ErrDuplicateReservation
	}

	now := time.Now()
	reservation := &entities.Reservation{
		BorrowerID: borrowerID,
		BookID:     bookID,
		ReservedAt: now,
		ExpiresAt:  now.AddDate(0, 0, r.expiryDays),
		Status:     entities.ReservationStatusPending,
	}
	if err := r.db.Create(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

// Cancel marks a pending reservation cancelled. The book's status is not
// touched.
func (r *Repository) Cancel(id uint) error {
	var reservation entities.Reservation
	if err := r.db.First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if reservation.Status != entities.ReservationStatusPending {
		return ErrAlreadyCancelled
	}
	return r.db.Model(&reservation).
		Update("status", entities.ReservationStatusCancelled).Error
}

// GetByID retrieves a reservation with its borrower and book.
func (r *Repository) GetByID(id uint) (*entities.Reservation, error) {
	var reservation entities.Reservation
	err := r.db.Preload("Borrower").Preload("Book").First(&reservation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// List returns reservations, optionally filtered by borrower, newest first.
func (r *Repository) List(borrowerID uint, limit, offset int) ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	query := r.db.Preload("Borrower").Preload("Book").Order("reserved_at DESC")
	if borrowerID > 0 {
		query = query.Where("borrower_id = ?", borrowerID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&reservations).Error
	return reservations, err
}
