package entities

import "time"

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Loan records a book checked out to a borrower. DueAt is fixed at creation
// time; Fine is computed on return when the book comes back late.
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BorrowerID uint       `gorm:"index;not null" json:"borrower_id"`
	BookID     uint       `gorm:"index;not null" json:"book_id"`
	LoanedAt   time.Time  `json:"loaned_at"`
	DueAt      time.Time  `json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Status     LoanStatus `gorm:"size:20;default:'active'" json:"status"`
	Fine       float64    `gorm:"default:0" json:"fine"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Borrower Borrower `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
	Book     Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// Reservation is a hold on a currently-borrowed book. Reservations are never
// promoted to loans or expired automatically; ExpiresAt is informational.
type Reservation struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	BorrowerID uint              `gorm:"index;not null" json:"borrower_id"`
	BookID     uint              `gorm:"index;not null" json:"book_id"`
	ReservedAt time.Time         `json:"reserved_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
	Status     ReservationStatus `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	Borrower Borrower `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
	Book     Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
}
