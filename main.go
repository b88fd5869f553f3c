package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"recycle-rewards-system/handlers"
	"recycle-rewards-system/models"
	"recycle-rewards-system/services"
	"recycle-rewards-system/utils"
	"recycle-rewards-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // reward images only
	})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-API-Key",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.UserProfile{},
		&models.Entry{},
		&models.RewardItem{},
		&models.RedeemedPoints{},
		&models.Device{},
		&models.DeviceLog{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	profileService := services.NewProfileService(db)
	entryService := services.NewEntryService(db)
	rewardService := services.NewRewardService(db)
	redemptionService := services.NewRedemptionService(db)
	deviceService := services.NewDeviceService(db)
	telemetryService := services.NewTelemetryService(db)

	// --- Identity service sync configuration ---
	identityServiceURL := os.Getenv("IDENTITY_SERVICE_URL")
	if identityServiceURL == "" {
		log.Fatal("IDENTITY_SERVICE_URL environment variable not set")
	}
	identityServiceToken := os.Getenv("IDENTITY_SERVICE_TOKEN")
	if identityServiceToken == "" {
		log.Fatal("IDENTITY_SERVICE_TOKEN environment variable not set")
	}

	syncWorker := workers.NewAccountSyncWorker(db, identityServiceURL, "/api/v1/public/accounts", identityServiceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Starting Account Sync Worker...")
		syncWorker.Start(ctx)
	}()

	// Devices that stop reporting for 5 minutes are flipped offline.
	deviceService.StartHeartbeatSweeper(5 * time.Minute)

	handlers.SetupAdminRoutes(app, profileService, entryService, rewardService, redemptionService, deviceService)
	handlers.SetupTelemetryRoutes(app, db, telemetryService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Account Sync Worker running")
	log.Println("✅ Heartbeat sweeper running (every 1m, stale after 5m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
