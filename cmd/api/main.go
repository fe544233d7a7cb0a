package main

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"unimarket/internal/adapter/api"
	"unimarket/internal/adapter/api/handler"
	apimiddleware "unimarket/internal/adapter/api/middleware"
	"unimarket/internal/adapter/api/router"
	"unimarket/internal/adapter/repository"
	"unimarket/internal/infrastructure/firebase"
	"unimarket/internal/infrastructure/ratelimit"
	"unimarket/internal/infrastructure/storage"
	"unimarket/internal/infrastructure/websocket"
	"unimarket/internal/usecase"
	"unimarket/pkg/config"
	"unimarket/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	categoryRepo := repository.NewFirestoreCategoryRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	listingMediaRepo := repository.NewFirestoreListingMediaRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)
	dealRepo := repository.NewFirestoreDealRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	authUseCase := usecase.NewAuthUseCase(firebaseAuthClient, userRepo, wsManager)
	userUseCase := usecase.NewUserUseCase(userRepo, storageClient)
	inboxUseCase := usecase.NewInboxUseCase(chatRepo, messageRepo, listingRepo, userRepo, wsManager)
	chatUseCase := usecase.NewChatUseCase(chatRepo, messageRepo, listingRepo, userRepo, dealRepo, storageClient, wsManager, inboxUseCase, rateLimiter)
	listingUseCase := usecase.NewListingUseCase(listingRepo, listingMediaRepo, categoryRepo, reviewRepo, storageClient, rateLimiter, cfg.RelatedLimit)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, listingRepo)

	// The hub calls back into the chat use case for room membership checks and
	// the idempotent mark-read on visibility regain.
	wsManager.SetJoinAuthorizer(chatUseCase.AuthorizeJoin)
	wsManager.SetReadMarker(func(ctx context.Context, userID, chatID string) error {
		return chatUseCase.MarkChatAsRead(ctx, userID, chatID)
	})

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)

	healthHandler := handler.NewHealthHandler(cfg.Environment)
	authHandler := handler.NewAuthHandler(authUseCase)
	userHandler := handler.NewUserHandler(userUseCase)
	listingHandler := handler.NewListingHandler(listingUseCase)
	chatHandler := handler.NewChatHandler(chatUseCase)
	inboxHandler := handler.NewInboxHandler(inboxUseCase)
	reviewHandler := handler.NewReviewHandler(reviewUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager)

	router.SetupHealthRouter(e, healthHandler)
	router.SetupAuthRouter(e, authHandler, authMiddleware)
	router.SetupUserRouter(e, userHandler, authMiddleware)
	router.SetupListingRouter(e, listingHandler, authMiddleware)
	router.SetupChatRouter(e, chatHandler, inboxHandler, authMiddleware)
	router.SetupReviewRouter(e, reviewHandler, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler, authMiddleware)

	logger.Info("Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
