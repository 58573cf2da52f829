package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GGuiilhem/Biblioteca/internal/database/borrowers"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

// BorrowerStore defines database operations for borrower profiles.
type BorrowerStore interface {
	Create(borrower *entities.Borrower) error
	GetByID(id uint) (*entities.Borrower, error)
	List(activeOnly bool, limit, offset int) ([]entities.Borrower, error)
	Update(borrower *entities.Borrower) error
	Deactivate(id uint) error
}

type BorrowersController struct {
	store BorrowerStore
}

func NewBorrowersController(store BorrowerStore) *BorrowersController {
	return &BorrowersController{store: store}
}

type borrowerRequest struct {
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"required"`
	NationalID         string `json:"national_id"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	Type               string `json:"type"`
	Course             string `json:"course"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	BirthDate          string `json:"birth_date"` // YYYY-MM-DD
	Active             *bool  `json:"active"`
}

func (req *borrowerRequest) toEntity() (*entities.Borrower, error) {
	borrower := &entities.Borrower{
		Name:               req.Name,
		Email:              req.Email,
		NationalID:         req.NationalID,
		RegistrationNumber: req.RegistrationNumber,
		Type:               entities.BorrowerType(req.Type),
		Course:             req.Course,
		Phone:              req.Phone,
		Address:            req.Address,
		Active:             true,
	}
	if req.Active != nil {
		borrower.Active = *req.Active
	}
	if req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, err
		}
		borrower.BirthDate = &birthDate
	}
	return borrower, nil
}

func respondBorrowerError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, borrowers.ErrNotFound):
		respondNotFound(c, "borrower not found")
	case errors.Is(err, borrowers.ErrNameRequired),
		errors.Is(err, borrowers.ErrEmailTaken),
		errors.Is(err, borrowers.ErrNationalIDTaken),
		errors.Is(err, borrowers.ErrNationalIDInvalid),
		errors.Is(err, borrowers.ErrRegistrationTaken):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// Create registers a borrower profile
// POST /api/borrowers
func (bc *BorrowersController) Create(c *gin.Context) {
	var req borrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name, email and registration_number are required")
		return
	}

	borrower, err := req.toEntity()
	if err != nil {
		respondBadRequest(c, "birth_date must be YYYY-MM-DD")
		return
	}

	if err := bc.store.Create(borrower); err != nil {
		respondBorrowerError(c, err, "create borrower")
		return
	}

	respondCreated(c, borrower)
}

// Get returns a single borrower
// GET /api/borrowers/:id
func (bc *BorrowersController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	borrower, err := bc.store.GetByID(id)
	if err != nil {
		respondBorrowerError(c, err, "get borrower")
		return
	}

	c.JSON(http.StatusOK, borrower)
}

// List returns borrowers
// GET /api/borrowers?active=true&limit=&offset=
func (bc *BorrowersController) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	activeOnly := c.Query("active") == "true"

	list, err := bc.store.List(activeOnly, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list borrowers")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Update modifies a borrower profile
// PUT /api/borrowers/:id
func (bc *BorrowersController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req borrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name, email and registration_number are required")
		return
	}

	borrower, err := req.toEntity()
	if err != nil {
		respondBadRequest(c, "birth_date must be YYYY-MM-DD")
		return
	}
	borrower.ID = id

	if err := bc.store.Update(borrower); err != nil {
		respondBorrowerError(c, err, "update borrower")
		return
	}

	updated, err := bc.store.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "reload borrower")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Deactivate flips the active flag off, keeping loan history
// DELETE /api/borrowers/:id
func (bc *BorrowersController) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.Deactivate(id); err != nil {
		respondBorrowerError(c, err, "deactivate borrower")
		return
	}

	respondSuccess(c, "borrower deactivated")
}
