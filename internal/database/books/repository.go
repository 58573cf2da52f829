// Package books provides database operations for the book catalog, including
// the category many-to-many association.
package books

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

var (
	ErrNotFound          = errors.New("book not found")
	ErrTitleRequired     = errors.New("book title is required")
	ErrInvalidISBN       = errors.New("ISBN must be 10 or 13 digits")
	ErrISBNTaken         = errors.New("a book with this ISBN is already registered")
	ErrAuthorNotFound    = errors.New("author not found")
	ErrPublisherNotFound = errors.New("publisher not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrHasActiveLoan     = errors.New("book has an active loan")
)

var isbnDigits = regexp.MustCompile(`^\d+$`)

// NormalizeISBN strips separators and validates the digit count.
func NormalizeISBN(isbn string) (string, error) {
	cleaned := strings.NewReplacer("-", "", " ", "").Replace(isbn)
	if len(cleaned) != 10 && len(cleaned) != 13 {
		return "", ErrInvalidISBN
	}
	if !isbnDigits.MatchString(cleaned) {
		return "", ErrInvalidISBN
	}
	return cleaned, nil
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Status      entities.BookStatus
	AuthorID    uint
	PublisherID uint
	Title       string
	Limit       int
	Offset      int
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book after validating its references and ISBN.
func (r *Repository) Create(book *entities.Book) error {
	if strings.TrimSpace(book.Title) == "" {
		return ErrTitleRequired
	}

	isbn, err := NormalizeISBN(book.ISBN)
	if err != nil {
		return err
	}
	book.ISBN = isbn

	if err := r.checkReferences(book.AuthorID, book.PublisherID); err != nil {
		return err
	}

	var existing entities.Book
	err = r.db.Where("isbn = ?", book.ISBN).First(&existing).Error
	if err == nil {
		return ErrISBNTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if book.Status == "" {
		book.Status = entities.BookStatusAvailable
	}
	return r.db.Create(book).Error
}

// GetByID retrieves a book with its author, publisher and categories.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").Preload("Publisher").Preload("Categories").
		First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// GetByISBN retrieves a book by its normalized ISBN.
func (r *Repository) GetByISBN(isbn string) (*entities.Book, error) {
	cleaned, err := NormalizeISBN(isbn)
	if err != nil {
		return nil, err
	}
	var book entities.Book
	err = r.db.Preload("Author").Where("isbn = ?", cleaned).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// List returns books matching the filter, newest first.
func (r *Repository) List(filter ListFilter) ([]entities.Book, error) {
	var books []entities.Book
	query := r.db.Preload("Author").Preload("Publisher").Order("created_at DESC")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AuthorID > 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.PublisherID > 0 {
		query = query.Where("publisher_id = ?", filter.PublisherID)
	}
	if filter.Title != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Title+"%")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	err := query.Find(&books).Error
	return books, err
}

// Update persists changes to a book's descriptive fields. Status is owned by
// the loan workflow and not writable here.
func (r *Repository) Update(book *entities.Book) error {
	if strings.TrimSpace(book.Title) == "" {
		return ErrTitleRequired
	}

	isbn, err := NormalizeISBN(book.ISBN)
	if err != nil {
		return err
	}
	book.ISBN = isbn

	if err := r.checkReferences(book.AuthorID, book.PublisherID); err != nil {
		return err
	}

	var existing entities.Book
	err = r.db.Where("isbn = ? AND id != ?", book.ISBN, book.ID).First(&existing).Error
	if err == nil {
		return ErrISBNTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	result := r.db.Model(&entities.Book{}).Where("id = ?", book.ID).Updates(map[string]any{
		"title":            book.Title,
		"subtitle":         book.Subtitle,
		"author_id":        book.AuthorID,
		"publisher_id":     book.PublisherID,
		"isbn":             book.ISBN,
		"edition":          book.Edition,
		"publication_year": book.PublicationYear,
		"pages":            book.Pages,
		"synopsis":         book.Synopsis,
		"language":         book.Language,
		"cover_url":        book.CoverURL,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetMaintenance toggles a book between available and maintenance. Only the
// loan workflow moves books in or out of borrowed.
func (r *Repository) SetMaintenance(id uint, maintenance bool) error {
	target := entities.BookStatusAvailable
	source := entities.BookStatusMaintenance
	if maintenance {
		target, source = source, target
	}
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND status = ?", id, source).
		Update("status", target)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHasActiveLoan
	}
	return nil
}

// Delete removes a book. Refused while an active loan references it.
func (r *Repository) Delete(id uint) error {
	var activeLoans int64
	err := r.db.Model(&entities.Loan{}).
		Where("book_id = ? AND status = ?", id, entities.LoanStatusActive).
		Count(&activeLoans).Error
	if err != nil {
		return err
	}
	if activeLoans > 0 {
		return ErrHasActiveLoan
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&book).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&book).Error
	})
}

// AddCategory attaches a category to a book.
func (r *Repository) AddCategory(bookID, categoryID uint) error {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	var category entities.Category
	if err := r.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return r.db.Model(&book).Association("Categories").Append(&category)
}

// RemoveCategory detaches a category from a book.
func (r *Repository) RemoveCategory(bookID, categoryID uint) error {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	var category entities.Category
	if err := r.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return r.db.Model(&book).Association("Categories").Delete(&category)
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(category *entities.Category) error {
	return r.db.Create(category).Error
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories() ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *Repository) checkReferences(authorID uint, publisherID *uint) error {
	var author entities.Author
	if err := r.db.First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthorNotFound
		}
		return err
	}
	if publisherID != nil {
		var publisher entities.Publisher
		if err := r.db.First(&publisher, *publisherID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPublisherNotFound
			}
			return err
		}
	}
	return nil
}
