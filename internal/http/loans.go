package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GGuiilhem/Biblioteca/internal/auth"
	"github.com/GGuiilhem/Biblioteca/internal/database/loans"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

// LoanStore defines the loan workflow operations.
type LoanStore interface {
	Create(borrowerID, bookID uint, notes string) (*entities.Loan, error)
	Return(loanID uint, returnedAt time.Time, fineOverride *float64, notes string) (*entities.Loan, error)
	GetByID(id uint) (*entities.Loan, error)
	List(filter loans.ListFilter) ([]entities.Loan, error)
}

// BorrowerResolver links auth accounts to borrower profiles.
type BorrowerResolver interface {
	GetOrCreateForAccount(account *entities.Account) (*entities.Borrower, error)
}

// AccountLookup loads accounts for the self-service loan path.
type AccountLookup interface {
	GetAccountByID(id uint) (*entities.Account, error)
}

type LoansController struct {
	store     LoanStore
	borrowers BorrowerResolver
	accounts  AccountLookup
}

func NewLoansController(store LoanStore, borrowers BorrowerResolver, accounts AccountLookup) *LoansController {
	return &LoansController{store: store, borrowers: borrowers, accounts: accounts}
}

func respondLoanError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, loans.ErrNotFound):
		respondNotFound(c, "loan not found")
	case errors.Is(err, loans.ErrBookNotFound):
		respondNotFound(c, "book not found")
	case errors.Is(err, loans.ErrBorrowerNotFound):
		respondNotFound(c, "borrower not found")
	case errors.Is(err, loans.ErrBookUnavailable),
		errors.Is(err, loans.ErrDuplicateLoan),
		errors.Is(err, loans.ErrAlreadyReturned),
		errors.Is(err, loans.ErrBorrowerInactive):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// Create checks a book out. Admins may loan to any borrower; a regular
// account always borrows for itself, with its borrower profile created on
// first use.
// POST /api/loans
func (lc *LoansController) Create(c *gin.Context) {
	var req struct {
		BorrowerID uint   `json:"borrower_id"`
		BookID     uint   `json:"book_id" binding:"required"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}

	borrowerID := req.BorrowerID
	if auth.GetRole(c) != entities.RoleAdmin {
		account, err := lc.accounts.GetAccountByID(auth.GetAccountID(c))
		if err != nil {
			respondInternalError(c, err, "resolve account")
			return
		}
		borrower, err := lc.borrowers.GetOrCreateForAccount(account)
		if err != nil {
			respondInternalError(c, err, "resolve borrower profile")
			return
		}
		borrowerID = borrower.ID
	} else if borrowerID == 0 {
		respondBadRequest(c, "borrower_id is required")
		return
	}

	loan, err := lc.store.Create(borrowerID, req.BookID, req.Notes)
	if err != nil {
		respondLoanError(c, err, "create loan")
		return
	}

	respondCreated(c, loan)
}

// Return closes an active loan, computing the late fine unless overridden
// PUT /api/loans/:id/return
func (lc *LoansController) Return(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Fine       *float64 `json:"fine"`
		Notes      string   `json:"notes"`
		ReturnedAt string   `json:"returned_at"` // RFC 3339, defaults to now
	}
	// Body is optional; a bare return uses the defaults.
	_ = c.ShouldBindJSON(&req)

	if req.Fine != nil && *req.Fine < 0 {
		respondBadRequest(c, "fine must not be negative")
		return
	}

	returnedAt := time.Now()
	if req.ReturnedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ReturnedAt)
		if err != nil {
			respondBadRequest(c, "returned_at must be RFC 3339")
			return
		}
		returnedAt = parsed
	}

	loan, err := lc.store.Return(id, returnedAt, req.Fine, req.Notes)
	if err != nil {
		respondLoanError(c, err, "return loan")
		return
	}

	c.JSON(http.StatusOK, loan)
}

// Get returns a single loan
// GET /api/loans/:id
func (lc *LoansController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := lc.store.GetByID(id)
	if err != nil {
		respondLoanError(c, err, "get loan")
		return
	}

	c.JSON(http.StatusOK, loan)
}

// List returns loans filtered by status and borrower
// GET /api/loans?status=&borrower_id=&limit=&offset=
func (lc *LoansController) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := loans.ListFilter{
		Status:     entities.LoanStatus(c.Query("status")),
		BorrowerID: parseQueryUint(c, "borrower_id"),
		Limit:      limit,
		Offset:     offset,
	}

	list, err := lc.store.List(filter)
	if err != nil {
		respondInternalError(c, err, "list loans")
		return
	}
	c.JSON(http.StatusOK, list)
}
