package entities

import "time"

type BookStatus string

const (
	BookStatusAvailable   BookStatus = "available"
	BookStatusBorrowed    BookStatus = "borrowed"
	BookStatusReserved    BookStatus = "reserved"
	BookStatusMaintenance BookStatus = "maintenance"
)

type Author struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"index;size:100;not null" json:"name"`
	Nationality string     `gorm:"size:50" json:"nationality,omitempty"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Biography   string     `gorm:"type:text" json:"biography,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Books []Book `gorm:"foreignKey:AuthorID" json:"books,omitempty"`
}

type Publisher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	City      string    `gorm:"size:50" json:"city,omitempty"`
	Country   string    `gorm:"size:50" json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Books []Book `gorm:"foreignKey:PublisherID" json:"books,omitempty"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	Books []Book `gorm:"many2many:book_categories;" json:"books,omitempty"`
}

type Book struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"index;size:200;not null" json:"title"`
	Subtitle        string     `gorm:"size:200" json:"subtitle,omitempty"`
	AuthorID        uint       `gorm:"index;not null" json:"author_id"`
	PublisherID     *uint      `gorm:"index" json:"publisher_id,omitempty"`
	ISBN            string     `gorm:"uniqueIndex;size:13;not null" json:"isbn"`
	Edition         int        `gorm:"default:1" json:"edition"`
	PublicationYear int        `json:"publication_year,omitempty"`
	Pages           int        `json:"pages,omitempty"`
	Synopsis        string     `gorm:"type:text" json:"synopsis,omitempty"`
	Language        string     `gorm:"size:20" json:"language,omitempty"`
	Status          BookStatus `gorm:"size:20;default:'available'" json:"status"`
	CoverURL        string     `gorm:"size:255" json:"cover_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Author     Author     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Publisher  *Publisher `gorm:"foreignKey:PublisherID" json:"publisher,omitempty"`
	Categories []Category `gorm:"many2many:book_categories;" json:"categories,omitempty"`
	Loans      []Loan     `gorm:"foreignKey:BookID" json:"-"`
}
