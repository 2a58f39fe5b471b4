package main

import (
	"database/sql"
	"log"

	"github.com/redis/go-redis/v9"

	"easyserve/internal/cache"
	"easyserve/internal/config"
	"easyserve/internal/handlers"
	"easyserve/internal/repositories"
	"easyserve/internal/services"
	"easyserve/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB
	cfg      config.Config

	signingKey string
	wsManager  *WebSocketManager

	userRepo       *repositories.UserRepository
	requestService *services.ServiceRequestService

	userHandler     *handlers.UserHandler
	providerHandler *handlers.ProviderHandler
	categoryHandler *handlers.CategoryHandler
	requestHandler  *handlers.ServiceRequestHandler
	bidHandler      *handlers.BidHandler
	bookingHandler  *handlers.BookingHandler
	paymentHandler  *handlers.PaymentHandler
	statsHandler    *handlers.StatsHandler
	uploadHandler   *handlers.UploadHandler
}

func initializeApp(db *sql.DB, redisClient *redis.Client, cfg config.Config, errorLog, infoLog *log.Logger) (*application, error) {
	tokenManager, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		return nil, err
	}

	var storage *utils.S3Storage
	if cfg.Storage.AccessKey != "" {
		storage, err = utils.NewS3Storage(
			cfg.Storage.AccessKey, cfg.Storage.SecretKey,
			cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.Endpoint,
		)
		if err != nil {
			return nil, err
		}
	}

	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	providerRepo := repositories.ProviderRepository{DB: db}
	categoryRepo := repositories.CategoryRepository{DB: db}
	requestRepo := repositories.ServiceRequestRepository{DB: db}
	bidRepo := repositories.BidRepository{DB: db}
	bookingRepo := repositories.BookingRepository{DB: db}
	walletRepo := repositories.WalletRepository{DB: db}
	paymentRepo := repositories.PaymentRepository{DB: db}

	wsManager := NewWebSocketManager()

	// Services
	userService := &services.UserService{UserRepo: &userRepo, TokenManager: tokenManager}
	providerService := &services.ProviderService{
		ProviderRepo: &providerRepo,
		CategoryRepo: &categoryRepo,
		UserRepo:     &userRepo,
		TokenManager: tokenManager,
	}
	categoryService := &services.CategoryService{
		CategoryRepo: &categoryRepo,
		Cache:        &cache.Cache{Client: redisClient},
	}
	requestService := &services.ServiceRequestService{
		RequestRepo:  &requestRepo,
		CategoryRepo: &categoryRepo,
		UserRepo:     &userRepo,
		ProviderRepo: &providerRepo,
	}
	bidService := &services.BidService{
		BidRepo:      &bidRepo,
		RequestRepo:  &requestRepo,
		ProviderRepo: &providerRepo,
	}
	paymentService := &services.PaymentService{
		PaymentRepo:        &paymentRepo,
		WalletRepo:         &walletRepo,
		BookingRepo:        &bookingRepo,
		FeeRate:            cfg.Payments.FeeRate,
		RequireBankDetails: cfg.Payments.RequireBankDetails,
	}
	bookingService := &services.BookingService{
		BookingRepo: &bookingRepo,
		RequestRepo: &requestRepo,
		Payments:    paymentService,
		Notifier:    wsManager,
	}
	statsService := &services.StatsService{
		UserRepo:     &userRepo,
		ProviderRepo: &providerRepo,
		BookingRepo:  &bookingRepo,
		CategoryRepo: &categoryRepo,
	}

	return &application{
		errorLog:   errorLog,
		infoLog:    infoLog,
		db:         db,
		cfg:        cfg,
		signingKey: cfg.Auth.SigningKey,
		wsManager:  wsManager,

		userRepo:       &userRepo,
		requestService: requestService,

		userHandler:     &handlers.UserHandler{Service: userService},
		providerHandler: &handlers.ProviderHandler{Service: providerService},
		categoryHandler: &handlers.CategoryHandler{Service: categoryService},
		requestHandler:  &handlers.ServiceRequestHandler{Service: requestService},
		bidHandler:      &handlers.BidHandler{Service: bidService},
		bookingHandler:  &handlers.BookingHandler{Service: bookingService},
		paymentHandler:  &handlers.PaymentHandler{Service: paymentService},
		statsHandler:    &handlers.StatsHandler{Service: statsService},
		uploadHandler:   &handlers.UploadHandler{Storage: storage},
	}, nil
}
