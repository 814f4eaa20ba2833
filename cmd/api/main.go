package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/paydown/finance-tracker/internal/config"
	"github.com/paydown/finance-tracker/internal/handler"
	"github.com/paydown/finance-tracker/internal/jobs"
	"github.com/paydown/finance-tracker/internal/middleware"
	"github.com/paydown/finance-tracker/internal/repository"
	"github.com/paydown/finance-tracker/internal/service"
	"github.com/paydown/finance-tracker/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, cfg)
	h := handler.NewHandler(svc, logger)
	sender := email.NewSender(cfg, logger)

	// Background jobs
	scheduler, err := jobs.NewScheduler(cfg, svc, sender, logger)
	if err != nil {
		logger.Fatalf("Failed to set up scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/cards", h.CreateCardAccount).Methods("POST")
	authRouter.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	authRouter.HandleFunc("/loans/{loanID}/payments", h.RecordLoanPayment).Methods("POST")
	authRouter.HandleFunc("/loans/{loanID}/refinance", h.AnalyzeRefinance).Methods("POST")
	authRouter.HandleFunc("/projection", h.GetProjection).Methods("GET")
	authRouter.HandleFunc("/strategy", h.GetStrategy).Methods("GET")
	authRouter.HandleFunc("/what-if", h.RunWhatIf).Methods("POST")
	authRouter.HandleFunc("/export", h.ExportData).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
