package http

import (
	"html/template"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Resolve bearer tokens before any route runs; the Require gates below
	// decide per-route whether anonymous access is acceptable.
	router.Use(cfg.AuthMiddleware.Handler())

	if cfg.TemplatesPath != "" {
		tmpl := template.Must(template.New("").ParseGlob(cfg.TemplatesPath + "/*.html"))
		router.SetHTMLTemplate(tmpl)
	}
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	authController := NewAuthController(cfg.AuthService)
	authorsController := NewAuthorsController(cfg.AuthorStore)
	publishersController := NewPublishersController(cfg.PublisherStore)
	booksController := NewBooksController(cfg.BookStore)
	borrowersController := NewBorrowersController(cfg.BorrowerStore)
	loansController := NewLoansController(cfg.LoanStore, cfg.BorrowerResolver, cfg.AccountLookup)
	reservationsController := NewReservationsController(cfg.ReservationStore, cfg.BorrowerResolver, cfg.AccountLookup)
	requestsController := NewAuthorRequestsController(cfg.AuthorRequestStore)

	requireAuth := cfg.AuthMiddleware.RequireAuth()
	requireAdmin := cfg.AuthMiddleware.RequireAdmin()

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Auth endpoints
	router.POST("/api/auth/register", authController.Register)
	router.POST("/api/auth/login", authController.Login)
	router.GET("/api/auth/me", requireAuth, authController.Me)
	router.POST("/api/auth/logout", requireAuth, authController.Logout)

	// Author endpoints; catalog reads are public, writes are admin-only
	router.GET("/api/authors", authorsController.List)
	router.GET("/api/authors/:id", authorsController.Get)
	router.POST("/api/authors", requireAdmin, authorsController.Create)
	router.PUT("/api/authors/:id", requireAdmin, authorsController.Update)
	router.DELETE("/api/authors/:id", requireAdmin, authorsController.Delete)

	// Publisher endpoints
	router.GET("/api/publishers", publishersController.List)
	router.GET("/api/publishers/:id", publishersController.Get)
	router.POST("/api/publishers", requireAdmin, publishersController.Create)
	router.PUT("/api/publishers/:id", requireAdmin, publishersController.Update)
	router.DELETE("/api/publishers/:id", requireAdmin, publishersController.Delete)

	// Book endpoints
	router.GET("/api/books", booksController.List)
	router.GET("/api/books/:id", booksController.Get)
	router.POST("/api/books", requireAdmin, booksController.Create)
	router.PUT("/api/books/:id", requireAdmin, booksController.Update)
	router.PUT("/api/books/:id/maintenance", requireAdmin, booksController.SetMaintenance)
	router.DELETE("/api/books/:id", requireAdmin, booksController.Delete)
	router.POST("/api/books/:id/categories", requireAdmin, booksController.AddCategory)
	router.DELETE("/api/books/:id/categories/:categoryId", requireAdmin, booksController.RemoveCategory)

	// Category endpoints
	router.GET("/api/categories", booksController.ListCategories)
	router.POST("/api/categories", requireAdmin, booksController.CreateCategory)

	// Borrower endpoints
	router.GET("/api/borrowers", requireAdmin, borrowersController.List)
	router.GET("/api/borrowers/:id", requireAdmin, borrowersController.Get)
	router.POST("/api/borrowers", requireAdmin, borrowersController.Create)
	router.PUT("/api/borrowers/:id", requireAdmin, borrowersController.Update)
	router.DELETE("/api/borrowers/:id", requireAdmin, borrowersController.Deactivate)

	// Loan endpoints; any account may borrow for itself, the rest is admin
	router.POST("/api/loans", requireAuth, loansController.Create)
	router.PUT("/api/loans/:id/return", requireAdmin, loansController.Return)
	router.GET("/api/loans", requireAdmin, loansController.List)
	router.GET("/api/loans/:id", requireAdmin, loansController.Get)

	// Reservation endpoints
	router.POST("/api/reservations", requireAuth, reservationsController.Create)
	router.DELETE("/api/reservations/:id", requireAuth, reservationsController.Cancel)
	router.GET("/api/reservations", requireAdmin, reservationsController.List)
	router.GET("/api/reservations/:id", requireAdmin, reservationsController.Get)

	// Author request endpoints
	router.POST("/api/author-requests", requireAuth, requestsController.Create)
	router.GET("/api/author-requests/mine", requireAuth, requestsController.ListMine)
	router.GET("/api/author-requests", requireAdmin, requestsController.List)
	router.GET("/api/author-requests/:id", requireAdmin, requestsController.Get)
	router.PUT("/api/author-requests/:id/approve", requireAdmin, requestsController.Approve)
	router.PUT("/api/author-requests/:id/reject", requireAdmin, requestsController.Reject)

	// UI routes
	if cfg.TemplatesPath != "" {
		uiController := NewUIController(cfg.BookStore, cfg.LoanStore)
		router.GET("/", uiController.DashboardPage)
		router.GET("/books", uiController.BooksPage)
		router.GET("/books/:id", uiController.BookPage)
		router.GET("/login", uiController.LoginPage)
		router.POST("/login", authController.LoginForm)
		router.GET("/register", uiController.RegisterPage)
		router.POST("/register", authController.RegisterForm)
		router.POST("/logout", authController.LogoutForm)
	}

	return router
}
