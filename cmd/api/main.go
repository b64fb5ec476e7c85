package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/config"
	"github.com/wezzertop/zafinan/internal/handler"
	"github.com/wezzertop/zafinan/internal/integrations/keyrate"
	"github.com/wezzertop/zafinan/internal/middleware"
	"github.com/wezzertop/zafinan/internal/repository"
	"github.com/wezzertop/zafinan/internal/service"
	"github.com/wezzertop/zafinan/internal/utils/email"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	users := repository.NewPostgresUserRepository(db)
	accounts := repository.NewPostgresAccountRepository(db)
	categories := repository.NewPostgresCategoryRepository(db)
	transactions := repository.NewPostgresTransactionRepository(db)
	recurring := repository.NewPostgresRecurringTransactionRepository(db)
	purchases := repository.NewPostgresPurchaseRepository(db)
	loans := repository.NewPostgresLoanRepository(db)

	authService := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenExpiry, logger)
	accountService := service.NewAccountService(accounts, cfg.HMACSecret, logger)
	categoryService := service.NewCategoryService(categories, logger)
	transactionService := service.NewTransactionService(transactions, accounts, logger)
	recurringService := service.NewRecurringService(recurring, transactions, accounts, logger)
	purchaseService := service.NewPurchaseService(purchases, transactions, accounts, logger)
	loanService := service.NewLoanService(loans, transactions, accounts, logger)
	analyticsService := service.NewAnalyticsService(transactions, loans, accounts, logger)

	sender := email.NewSender(cfg, logger)
	reminderService := service.NewReminderService(purchases, loans, sender, 3*24*time.Hour, logger)
	rateClient := keyrate.NewClient(cfg.KeyRateURL, logger)

	r := mux.NewRouter()
	handler.NewAuthHandler(authService, logger).RegisterRoutes(r.PathPrefix("/auth").Subrouter())

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(authService))
	handler.NewAccountHandler(accountService, logger).RegisterRoutes(api.PathPrefix("/accounts").Subrouter())
	handler.NewCategoryHandler(categoryService, logger).RegisterRoutes(api.PathPrefix("/categories").Subrouter())
	handler.NewTransactionHandler(transactionService, logger).RegisterRoutes(api.PathPrefix("/transactions").Subrouter())
	handler.NewRecurringHandler(recurringService, logger).RegisterRoutes(api.PathPrefix("/recurring-transactions").Subrouter())
	handler.NewPurchaseHandler(purchaseService, logger).RegisterRoutes(api.PathPrefix("/purchases").Subrouter())
	handler.NewLoanHandler(loanService, logger).RegisterRoutes(api.PathPrefix("/loans").Subrouter())
	handler.NewAnalyticsHandler(analyticsService, logger).RegisterRoutes(api.PathPrefix("/analytics").Subrouter())
	handler.NewRateHandler(rateClient, logger).RegisterRoutes(api)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ReminderCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := reminderService.Run(ctx); err != nil {
			logger.WithError(err).Error("Payment reminder run failed")
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule reminder job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}
