package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"lokapasar/internal/adapter/api"
	"lokapasar/internal/adapter/api/handler"
	apimiddleware "lokapasar/internal/adapter/api/middleware"
	"lokapasar/internal/adapter/api/router"
	"lokapasar/internal/adapter/repository"
	"lokapasar/internal/infrastructure/firebase"
	"lokapasar/internal/infrastructure/ratelimit"
	"lokapasar/internal/infrastructure/websocket"
	"lokapasar/internal/usecase"
	"lokapasar/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	// Service account JSON in the environment wins (production);
	// otherwise fall back to a credentials file (local development).
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./serviceAccountKey.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	botResponseRepo := repository.NewFirestoreBotResponseRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	wsManager := websocket.NewManager()

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine(ctx)

	botUseCase := usecase.NewBotUseCase(botResponseRepo)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, botUseCase, wsManager, rateLimiter)

	// Room access checks on join_room go through the chat use case.
	wsManager.SetAuthorizer(chatUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	handlers := router.Handlers{
		Chat:        handler.NewChatHandler(chatUseCase),
		BotResponse: handler.NewBotResponseHandler(botUseCase),
		WebSocket:   handler.NewWebSocketHandler(wsManager, firebaseAuthClient),
		Health:      handler.NewHealthHandler(firebaseAuthClient),
	}

	router.Setup(e, handlers, authMiddleware, adminMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
