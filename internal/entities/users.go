package entities

import "time"

type BorrowerType string

const (
	BorrowerTypeStudent BorrowerType = "student"
	BorrowerTypeTeacher BorrowerType = "teacher"
	BorrowerTypeStaff   BorrowerType = "staff"
	BorrowerTypeAdmin   BorrowerType = "admin"
)

// Role is the capability derived from an account's admin flag. Authorization
// checks consume the role rather than re-reading the flag.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// Borrower is the library profile entitled to hold loans. It is a separate
// record from the Account used to log in; a regular account gets a borrower
// profile created on its first loan.
type Borrower struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	Name               string       `gorm:"size:100;not null" json:"name"`
	Email              string       `gorm:"uniqueIndex;size:100;not null" json:"email"`
	// NationalID is optional; uniqueness of non-empty values is enforced in
	// the repository so profiles without one do not collide on ''.
	NationalID         string       `gorm:"index;size:11" json:"national_id,omitempty"`
	RegistrationNumber string       `gorm:"uniqueIndex;size:20;not null" json:"registration_number"`
	Type               BorrowerType `gorm:"size:20;default:'student'" json:"type"`
	Course             string       `gorm:"size:100" json:"course,omitempty"`
	Phone              string       `gorm:"size:20" json:"phone,omitempty"`
	Address            string       `gorm:"type:text" json:"address,omitempty"`
	BirthDate          *time.Time   `json:"birth_date,omitempty"`
	Active             bool         `gorm:"default:true" json:"active"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`

	Loans        []Loan        `gorm:"foreignKey:BorrowerID" json:"-"`
	Reservations []Reservation `gorm:"foreignKey:BorrowerID" json:"-"`
}

// Account is the authentication identity: credentials, admin flag and the
// current API token. Kept separate from Borrower on purpose.
type Account struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	RegistrationNumber string     `gorm:"uniqueIndex;size:20;not null" json:"registration_number"`
	Name               string     `gorm:"size:100;not null" json:"name"`
	Email              string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash       string     `gorm:"size:255" json:"-"`
	Admin              bool       `gorm:"default:false" json:"admin"`
	TokenHash          string     `gorm:"index;size:64" json:"-"`
	TokenCreatedAt     *time.Time `json:"-"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Role maps the admin flag onto the capability enum.
func (a *Account) Role() Role {
	if a.Admin {
		return RoleAdmin
	}
	return RoleRegular
}

// AuthorRequest is a user-submitted proposal for a new catalog author,
// resolved by an admin. Approval spawns the Author; both transitions are
// terminal.
type AuthorRequest struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"index;size:100;not null" json:"name"`
	Nationality string        `gorm:"size:50" json:"nationality,omitempty"`
	BirthDate   *time.Time    `json:"birth_date,omitempty"`
	Biography   string        `gorm:"type:text" json:"biography,omitempty"`
	RequesterID uint          `gorm:"index;not null" json:"requester_id"`
	Status      RequestStatus `gorm:"size:20;default:'pending'" json:"status"`
	ReviewerID  *uint         `json:"reviewer_id,omitempty"`
	ReviewedAt  *time.Time    `json:"reviewed_at,omitempty"`
	Notes       string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Requester Account `gorm:"foreignKey:RequesterID" json:"-"`
}
