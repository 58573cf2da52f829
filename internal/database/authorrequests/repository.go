// Package authorrequests implements the moderation queue for user-proposed
// catalog authors. Requests start pending and end approved or rejected; both
// outcomes are terminal. Approval spawns the Author in the same transaction.
package authorrequests

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

var (
	ErrNotFound         = errors.New("author request not found")
	ErrNameRequired     = errors.New("author name is required")
	ErrAuthorExists     = errors.New("an author with a similar name is already registered")
	ErrDuplicateRequest = errors.New("a pending request with a similar name already exists")
	ErrNotPending       = errors.New("only pending requests can be resolved")
	ErrNotesRequired    = errors.New("a rejection note is required")
)

// Repository handles all author-request database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new author-requests repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create submits a request. Refused when a similar author name already exists
// in the catalog or in another pending request (case-insensitive substring).
func (r *Repository) Create(request *entities.AuthorRequest) error {
	if strings.TrimSpace(request.Name) == "" {
		return ErrNameRequired
	}

	pattern := "%" + request.Name + "%"

	var authorCount int64
	err := r.db.Model(&entities.Author{}).
		Where("LOWER(name) LIKE LOWER(?)", pattern).
		Count(&authorCount).Error
	if err != nil {
		return err
	}
	if authorCount > 0 {
		return ErrAuthorExists
	}

	var pendingCount int64
	err = r.db.Model(&entities.AuthorRequest{}).
		Where("LOWER(name) LIKE LOWER(?) AND status = ?", pattern, entities.RequestStatusPending).
		Count(&pendingCount).Error
	if err != nil {
		return err
	}
	if pendingCount > 0 {
		return ErrDuplicateRequest
	}

	request.Status = entities.RequestStatusPending
	return r.db.Create(request).Error
}

// Approve resolves a pending request and creates the author from its fields.
// Both writes commit together. A request already resolved is refused, so a
// second approval can never spawn a duplicate author.
func (r *Repository) Approve(requestID, reviewerID uint) (*entities.Author, error) {
	var author *entities.Author

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var request entities.AuthorRequest
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != entities.RequestStatusPending {
			return ErrNotPending
		}

		author = &entities.Author{
			Name:        request.Name,
			Nationality: request.Nationality,
			BirthDate:   request.BirthDate,
			Biography:   request.Biography,
		}
		if err := tx.Create(author).Error; err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(&request).Updates(map[string]any{
			"status":      entities.RequestStatusApproved,
			"reviewer_id": reviewerID,
			"reviewed_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return author, nil
}

// Reject resolves a pending request with a mandatory note.
func (r *Repository) Reject(requestID, reviewerID uint, notes string) error {
	if strings.TrimSpace(notes) == "" {
		return ErrNotesRequired
	}

	var request entities.AuthorRequest
	if err := r.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if request.Status != entities.RequestStatusPending {
		return ErrNotPending
	}

	now := time.Now()
	return r.db.Model(&request).Updates(map[string]any{
		"status":      entities.RequestStatusRejected,
		"reviewer_id": reviewerID,
		"reviewed_at": now,
		"notes":       notes,
	}).Error
}

// GetByID retrieves a request by ID.
func (r *Repository) GetByID(id uint) (*entities.AuthorRequest, error) {
	var request entities.AuthorRequest
	err := r.db.First(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// List returns requests, optionally filtered by status, newest first.
func (r *Repository) List(status entities.RequestStatus, limit, offset int) ([]entities.AuthorRequest, error) {
	var requests []entities.AuthorRequest
	query := r.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&requests).Error
	return requests, err
}

// ListByRequester returns the requests submitted by one account.
func (r *Repository) ListByRequester(requesterID uint) ([]entities.AuthorRequest, error) {
	var requests []entities.AuthorRequest
	err := r.db.Where("requester_id = ?", requesterID).
		Order("created_at DESC").Find(&requests).Error
	return requests, err
}
