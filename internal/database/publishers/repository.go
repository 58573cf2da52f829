// Package publishers provides database operations for publishers.
package publishers

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

var (
	ErrNotFound     = errors.New("publisher not found")
	ErrNameRequired = errors.New("publisher name is required")
	ErrNameTaken    = errors.New("a publisher with this name already exists")
	ErrHasBooks     = errors.New("publisher still has books in the catalog")
)

// Repository handles all publisher database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new publishers repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new publisher. Names are unique.
func (r *Repository) Create(publisher *entities.Publisher) error {
	if strings.TrimSpace(publisher.Name) == "" {
		return ErrNameRequired
	}

	var existing entities.Publisher
	err := r.db.Where("name = ?", publisher.Name).First(&existing).Error
	if err == nil {
		return ErrNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.db.Create(publisher).Error
}

// GetByID retrieves a publisher by ID.
func (r *Repository) GetByID(id uint) (*entities.Publisher, error) {
	var publisher entities.Publisher
	err := r.db.First(&publisher, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &publisher, nil
}

// List returns all publishers ordered by name.
func (r *Repository) List() ([]entities.Publisher, error) {
	var publishers []entities.Publisher
	err := r.db.Order("name ASC").Find(&publishers).Error
	return publishers, err
}

// Update persists changes to a publisher, keeping the name unique.
func (r *Repository) Update(publisher *entities.Publisher) error {
	if strings.TrimSpace(publisher.Name) == "" {
		return ErrNameRequired
	}

	var existing entities.Publisher
	err := r.db.Where("name = ? AND id != ?", publisher.Name, publisher.ID).First(&existing).Error
	if err == nil {
		return ErrNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	result := r.db.Model(&entities.Publisher{}).Where("id = ?", publisher.ID).Updates(map[string]any{
		"name":    publisher.Name,
		"city":    publisher.City,
		"country": publisher.Country,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a publisher. Refused while it still owns books.
func (r *Repository) Delete(id uint) error {
	var bookCount int64
	if err := r.db.Model(&entities.Book{}).Where("publisher_id = ?", id).Count(&bookCount).Error; err != nil {
		return err
	}
	if bookCount > 0 {
		return ErrHasBooks
	}

	result := r.db.Delete(&entities.Publisher{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
