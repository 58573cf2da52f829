package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GGuiilhem/Biblioteca/internal/auth"
	"github.com/GGuiilhem/Biblioteca/internal/database/reservations"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

// ReservationStore defines database operations for holds on borrowed books.
type ReservationStore interface {
	Create(borrowerID, bookID uint) (*entities.Reservation, error)
	Cancel(id uint) error
	GetByID(id uint) (*entities.Reservation, error)
	List(borrowerID uint, limit, offset int) ([]entities.Reservation, error)
}

type ReservationsController struct {
	store     ReservationStore
	borrowers BorrowerResolver
	accounts  AccountLookup
}

func NewReservationsController(store ReservationStore, borrowers BorrowerResolver, accounts AccountLookup) *ReservationsController {
	return &ReservationsController{store: store, borrowers: borrowers, accounts: accounts}
}

func respondReservationError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, reservations.ErrNotFound):
		respondNotFound(c, "reservation not found")
	case errors.Is(err, reservations.ErrBookNotFound):
		respondNotFound(c, "book not found")
	case errors.Is(err, reservations.ErrBorrowerNotFound):
		respondNotFound(c, "borrower not found")
	case errors.Is(err, reservations.ErrBookNotBorrowed),
		errors.Is(err, reservations.ErrDuplicateReservation),
		errors.Is(err, reservations.ErrAlreadyCancelled):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// Create places a hold on a borrowed book. A regular account always reserves
// for itself.
// POST /api/reservations
func (rc *ReservationsController) Create(c *gin.Context) {
	var req struct {
		BorrowerID uint `json:"borrower_id"`
		BookID     uint `json:"book_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}

	borrowerID := req.BorrowerID
	if auth.GetRole(c) != entities.RoleAdmin {
		account, err := rc.accounts.GetAccountByID(auth.GetAccountID(c))
		if err != nil {
			respondInternalError(c, err, "resolve account")
			return
		}
		borrower, err := rc.borrowers.GetOrCreateForAccount(account)
		if err != nil {
			respondInternalError(c, err, "resolve borrower profile")
			return
		}
		borrowerID = borrower.ID
	} else if borrowerID == 0 {
		respondBadRequest(c, "borrower_id is required")
		return
	}

	reservation, err := rc.store.Create(borrowerID, req.BookID)
	if err != nil {
		respondReservationError(c, err, "create reservation")
		return
	}

	respondCreated(c, reservation)
}

// Cancel withdraws a pending reservation
// DELETE /api/reservations/:id
func (rc *ReservationsController) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := rc.store.Cancel(id); err != nil {
		respondReservationError(c, err, "cancel reservation")
		return
	}

	respondSuccess(c, "reservation cancelled")
}

// Get returns a single reservation
// GET /api/reservations/:id
func (rc *ReservationsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := rc.store.GetByID(id)
	if err != nil {
		respondReservationError(c, err, "get reservation")
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// List returns reservations, optionally filtered by borrower
// GET /api/reservations?borrower_id=&limit=&offset=
func (rc *ReservationsController) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	list, err := rc.store.List(parseQueryUint(c, "borrower_id"), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list reservations")
		return
	}
	c.JSON(http.StatusOK, list)
}
