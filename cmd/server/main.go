package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/beside-app/beside-backend/internal/config"
	"github.com/beside-app/beside-backend/internal/database"
	"github.com/beside-app/beside-backend/internal/handlers"
	"github.com/beside-app/beside-backend/internal/middleware"
	"github.com/beside-app/beside-backend/internal/routes"
	"github.com/beside-app/beside-backend/internal/services"
	"github.com/beside-app/beside-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	mongoClient, db, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect(mongoClient)

	if err := store.EnsureIndexes(context.Background(), db); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	redisClient, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Initialize Cloudinary
	if cfg.CloudinaryName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		log.Fatal("Cloudinary credentials not found. Set CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET")
	}
	cloudinaryService, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatal("Failed to initialize Cloudinary:", err)
	}
	log.Println("✅ Cloudinary service initialized")

	// Wire stores, services, handlers
	users := store.NewMongoUserStore(db)
	tripRequests := store.NewMongoTripRequestStore(db)
	trips := store.NewMongoTripStore(db)

	mailer := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	authService := services.NewAuthService(users, mailer, cfg.JWTSecret, cfg.FrontendURL)
	otpService := services.NewOTPService(users, mailer, services.NewRedisResendLimiter(redisClient))
	tripService := services.NewTripService(users, tripRequests, trips, cloudinaryService, services.NewTripIDGenerator())

	authHandler := handlers.NewAuthHandler(authService, otpService)
	tripHandler := handlers.NewTripHandler(tripService)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: security headers + per-IP token bucket on top of the
	// Redis window limiter. Non-production: Redis window limiter only.
	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.NewIPRateLimiter(rate.Limit(1), 10).Middleware)
		log.Println("✅ Production security enabled (security headers, per-IP rate limiting)")
	}
	r.Use(middleware.RedisRateLimit(redisClient))

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, authHandler, tripHandler, middleware.Protect(authService))

	log.Println("📋 Registered routes:")
	log.Println("  GET   /health")
	log.Println("  POST  /api/v1/auth/register")
	log.Println("  POST  /api/v1/auth/login")
	log.Println("  GET   /api/v1/auth/logout")
	log.Println("  GET   /api/v1/auth/current-user")
	log.Println("  POST  /api/v1/auth/verify")
	log.Println("  POST  /api/v1/auth/forgot-password")
	log.Println("  POST  /api/v1/auth/reset-password/{token}")
	log.Println("  POST  /api/v1/auth/send-email-otp")
	log.Println("  POST  /api/v1/auth/verify-email-otp")
	log.Println("  POST  /api/v1/trips")
	log.Println("  POST  /api/v1/trips/get")
	log.Println("  POST  /api/v1/trips/request")
	log.Println("  POST  /api/v1/trips/request/get")
	log.Println("  PATCH /api/v1/trips/request/{tripReqId}")
	log.Println("  POST  /api/v1/trips/request/{tripReqId}/photo")

	log.Printf("🚀 BeSide backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
