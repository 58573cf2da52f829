package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GGuiilhem/Biblioteca/internal/auth"
	"github.com/GGuiilhem/Biblioteca/internal/database/books"
	"github.com/GGuiilhem/Biblioteca/internal/database/loans"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

type UIController struct {
	books BookStore
	loans LoanStore
}

func NewUIController(bookStore BookStore, loanStore LoanStore) *UIController {
	return &UIController{
		books: bookStore,
		loans: loanStore,
	}
}

// DashboardPage renders the front-desk overview with catalog counts.
func (controller *UIController) DashboardPage(c *gin.Context) {
	allBooks, err := controller.books.List(books.ListFilter{})
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	available, borrowed := 0, 0
	for _, book := range allBooks {
		switch book.Status {
		case entities.BookStatusAvailable:
			available++
		case entities.BookStatusBorrowed:
			borrowed++
		}
	}

	activeLoans, err := controller.loans.List(loans.ListFilter{Status: entities.LoanStatusActive})
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading loans: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"TotalBooks":     len(allBooks),
		"AvailableBooks": available,
		"BorrowedBooks":  borrowed,
		"ActiveLoans":    activeLoans,
		"AccountName":    auth.GetAccountName(c),
	})
}

// BooksPage lists the catalog, optionally filtered by title.
func (controller *UIController) BooksPage(c *gin.Context) {
	filter := books.ListFilter{
		Title:  c.Query("q"),
		Status: entities.BookStatus(c.Query("status")),
	}

	list, err := controller.books.List(filter)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "books.html", gin.H{
		"Books":       list,
		"Query":       filter.Title,
		"AccountName": auth.GetAccountName(c),
	})
}

// BookPage renders a single book with its author, publisher and categories.
func (controller *UIController) BookPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.books.GetByID(id)
	if err != nil {
		c.String(http.StatusNotFound, "Book not found")
		return
	}

	c.HTML(http.StatusOK, "book.html", gin.H{
		"Book":        book,
		"AccountName": auth.GetAccountName(c),
	})
}

// LoginPage renders the login form.
func (controller *UIController) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// RegisterPage renders the registration form.
func (controller *UIController) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}
