package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GGuiilhem/Biblioteca/internal/auth"
	"github.com/GGuiilhem/Biblioteca/internal/config"
	"github.com/GGuiilhem/Biblioteca/internal/database"
	"github.com/GGuiilhem/Biblioteca/internal/database/authorrequests"
	"github.com/GGuiilhem/Biblioteca/internal/database/authors"
	"github.com/GGuiilhem/Biblioteca/internal/database/books"
	"github.com/GGuiilhem/Biblioteca/internal/database/borrowers"
	"github.com/GGuiilhem/Biblioteca/internal/database/loans"
	"github.com/GGuiilhem/Biblioteca/internal/database/publishers"
	"github.com/GGuiilhem/Biblioteca/internal/database/reservations"
	http_controllers "github.com/GGuiilhem/Biblioteca/internal/http"
)

func Serve(router *gin.Engine, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Biblioteca v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	authService := auth.NewService(db.DB, cfg.Auth)
	authMiddleware := auth.NewMiddleware(authService)

	borrowerRepo := borrowers.NewRepository(db.DB)
	loanPolicy := loans.Policy{
		PeriodDays: cfg.Circulation.LoanPeriodDays,
		DailyFine:  cfg.Circulation.DailyFine,
	}

	routerCfg := http_controllers.RouterConfig{
		Database:           db,
		AuthService:        authService,
		AuthMiddleware:     authMiddleware,
		AuthorStore:        authors.NewRepository(db.DB),
		PublisherStore:     publishers.NewRepository(db.DB),
		BookStore:          books.NewRepository(db.DB),
		BorrowerStore:      borrowerRepo,
		BorrowerResolver:   borrowerRepo,
		AccountLookup:      authService,
		LoanStore:          loans.NewRepository(db.DB, loanPolicy),
		ReservationStore:   reservations.NewRepository(db.DB, cfg.Circulation.ReservationExpiryDays),
		AuthorRequestStore: authorrequests.NewRepository(db.DB),
		TemplatesPath:      cfg.UI.TemplatesPath,
		StaticPath:         cfg.UI.StaticPath,
		Version:            version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg)
}
