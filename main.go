package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transylvania/config"
	"transylvania/cron"
	"transylvania/database"
	bookingRepoPkg "transylvania/database/repository/booking"
	chatlogRepoPkg "transylvania/database/repository/chatlog"
	profileRepoPkg "transylvania/database/repository/profile"
	ratingRepoPkg "transylvania/database/repository/rating"
	roomRepoPkg "transylvania/database/repository/room"
	"transylvania/handlers"
	"transylvania/middleware"
	"transylvania/routes"
	"transylvania/services/admin"
	"transylvania/services/assistant"
	"transylvania/services/reservation"
	"transylvania/services/room"
	"transylvania/services/storage"
	"transylvania/services/user"
	"transylvania/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Image storage is optional: the catalogue works without it.
	var storageSvc storage.StorageService
	if cloudinarySvc, err := storage.NewCloudinaryStorage(); err != nil {
		logger.Warn("cloudinary storage disabled", zap.Error(err))
	} else {
		storageSvc = cloudinarySvc
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	roomRepo := roomRepoPkg.NewMongoRoomRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	profileRepo := profileRepoPkg.NewMongoProfileRepo()
	ratingRepo := ratingRepoPkg.NewMongoRatingRepo()
	chatlogRepo := chatlogRepoPkg.NewMongoChatLogRepo()

	// services.
	roomService := &room.DefaultService{
		Repo:  roomRepo,
		Cache: utils.GetCacheClient(),
	}
	userService := &user.DefaultService{
		Repo:      profileRepo,
		AuthCache: utils.GetAuthCacheClient(),
	}
	reservationEngine := &reservation.DefaultEngine{
		Rooms:  roomRepo,
		Ledger: bookingRepo,
		Feed:   roomService,
	}
	adminService := &admin.DefaultService{
		Rooms:    roomService,
		Ledger:   bookingRepo,
		Profiles: profileRepo,
		Ratings:  ratingRepo,
		ChatLogs: chatlogRepo,
	}

	oracle := &assistant.LedgerOracle{Ledger: bookingRepo, Rooms: roomService}
	dialogStore := assistant.NewRedisDialogStore(utils.GetChatCtxCacheClient(), 30*time.Minute)
	faqTable := assistant.NewFAQTable(config.AppConfig.FAQPath)

	var modelClient assistant.ModelClient
	if config.AppConfig.OpenAIAPIKey != "" {
		modelClient = assistant.NewOpenAIClient(config.AppConfig.OpenAIAPIKey, config.AppConfig.OpenAIModel)
	} else {
		logger.Warn("OPENAI_API_KEY not set; chat falls back to the fixed sentence")
	}
	chatEngine := assistant.NewEngine(roomService, oracle, faqTable, dialogStore, modelClient, chatlogRepo, reservationEngine)

	// Background archival worker.
	cron.InitArchiveWorker(reservationEngine)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ProfileRepo: profileRepo,

		SignUpHandler:        handlers.SignUpHandler(userService),
		SignInHandler:        handlers.SignInHandler(userService),
		SignOutHandler:       handlers.SignOutHandler(userService),
		GetProfileHandler:    handlers.GetProfileHandler(userService),
		UpdateProfileHandler: handlers.UpdateProfileHandler(userService),
		DeleteProfileHandler: handlers.DeleteProfileHandler(userService),

		ListRoomsHandler: handlers.ListRoomsHandler(roomService),
		GetRoomHandler:   handlers.GetRoomHandler(roomService, ratingRepo),
		RateRoomHandler:  handlers.RateRoomHandler(roomService, ratingRepo),
		RoomFeedHandler:  handlers.RoomFeedHandler(roomService),

		ReserveHandler:       handlers.ReserveHandler(reservationEngine),
		CancelBookingHandler: handlers.CancelBookingHandler(reservationEngine),
		MyBookingsHandler:    handlers.MyBookingsHandler(bookingRepo),
		AvailabilityHandler:  handlers.AvailabilityHandler(oracle),

		ChatMessageHandler:        handlers.ChatMessageHandler(chatEngine),
		GuidedBookingStartHandler: handlers.GuidedBookingStartHandler(chatEngine),
		ChatConfirmHandler:        handlers.ChatConfirmHandler(chatEngine),
		ChatCancelHandler:         handlers.ChatCancelHandler(chatEngine),
		ChatHistoryHandler:        handlers.ChatHistoryHandler(chatlogRepo),

		AnalyticsHandler:       handlers.AnalyticsHandler(adminService),
		AdminBookingsHandler:   handlers.AdminBookingsHandler(adminService),
		AdminHistoryHandler:    handlers.AdminHistoryHandler(adminService),
		AdminUsersHandler:      handlers.AdminUsersHandler(adminService),
		SetAdminHandler:        handlers.SetAdminHandler(adminService),
		AdminChatLogsHandler:   handlers.AdminChatLogsHandler(adminService),
		SaveRoomHandler:        handlers.SaveRoomHandler(roomService),
		DeleteRoomHandler:      handlers.DeleteRoomHandler(roomService),
		UploadRoomImageHandler: handlers.UploadRoomImageHandler(roomService, storageSvc),
		SeedRoomsHandler:       handlers.SeedRoomsHandler(roomService),
	}

	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("mongo disconnect failed", zap.Error(err))
	}
}
