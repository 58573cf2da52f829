// Package authors provides database operations for catalog authors.
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	author, err := repo.GetByID(id)
package authors

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

var (
	ErrNotFound     = errors.New("author not found")
	ErrNameRequired = errors.New("author name is required")
	ErrHasBooks     = errors.New("author still has books in the catalog")
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new author.
func (r *Repository) Create(author *entities.Author) error {
	if strings.TrimSpace(author.Name) == "" {
		return ErrNameRequired
	}
	return r.db.Create(author).Error
}

// GetByID retrieves an author by ID.
func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.First(&author, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &author, nil
}

// List returns authors ordered by name, with pagination.
func (r *Repository) List(limit, offset int) ([]entities.Author, error) {
	var authors []entities.Author
	query := r.db.Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&authors).Error
	return authors, err
}

// Search finds authors by name (case-insensitive partial match).
func (r *Repository) Search(name string) ([]entities.Author, error) {
	var authors []entities.Author
	pattern := "%" + name + "%"
	err := r.db.Where("LOWER(name) LIKE LOWER(?)", pattern).Find(&authors).Error
	return authors, err
}

// NameExists reports whether an author with a similar name is already
// registered (case-insensitive substring match, used by the request workflow).
func (r *Repository) NameExists(name string) (bool, error) {
	var count int64
	pattern := "%" + name + "%"
	err := r.db.Model(&entities.Author{}).
		Where("LOWER(name) LIKE LOWER(?)", pattern).
		Count(&count).Error
	return count > 0, err
}

// Update persists changed fields of an existing author.
func (r *Repository) Update(author *entities.Author) error {
	if strings.TrimSpace(author.Name) == "" {
		return ErrNameRequired
	}
	result := r.db.Model(&entities.Author{}).Where("id = ?", author.ID).Updates(map[string]any{
		"name":        author.Name,
		"nationality": author.Nationality,
		"birth_date":  author.BirthDate,
		"biography":   author.Biography,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an author. Refused while any book still references it.
func (r *Repository) Delete(id uint) error {
	var bookCount int64
	if err := r.db.Model(&entities.Book{}).Where("author_id = ?", id).Count(&bookCount).Error; err != nil {
		return err
	}
	if bookCount > 0 {
		return ErrHasBooks
	}

	result := r.db.Delete(&entities.Author{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
