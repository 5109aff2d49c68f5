// api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"fomosite/api/database"
	"fomosite/api/handlers"
	"fomosite/api/middleware"
	"fomosite/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL Database (for admin accounts) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse Database (for the event log) ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Initialize Stores ---
	adminStore := store.NewAdminStore(dbClient.DB)
	analyticsStore := store.NewAnalyticsStore(chClient)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	if err := adminStore.EnsureSchema(startupCtx); err != nil {
		log.Fatalf("Failed to ensure admin schema: %v", err)
	}
	if err := analyticsStore.EnsureSchema(startupCtx); err != nil {
		log.Fatalf("Failed to ensure analytics schema: %v", err)
	}
	if err := bootstrapAdmin(startupCtx, adminStore); err != nil {
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	// --- Initialize Handlers ---
	authHandlers := handlers.NewAuthHandlers(adminStore)
	// No geolocation collaborator is wired in; events carry "Unknown"
	// country/city until one is.
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsStore, nil)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Admin session endpoints (no authentication required)
		api.POST("/admin/login", authHandlers.Login)
		api.POST("/admin/verify", authHandlers.Verify)
		api.POST("/admin/logout", authHandlers.Logout)

		// Event ingest is called from the public site's browser code.
		api.POST("/analytics/track", analyticsHandlers.TrackEvent)

		// Protected routes (require a valid admin JWT)
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/analytics/stats", analyticsHandlers.GetStats)
			protected.DELETE("/analytics/clear", analyticsHandlers.ClearEvents)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Analytics API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Analytics API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// bootstrapAdmin provisions the admin account from ADMIN_EMAIL /
// ADMIN_PASSWORD when it does not exist yet. There is no public signup;
// this is the only way accounts come into being.
func bootstrapAdmin(ctx context.Context, adminStore *store.AdminStore) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set; skipping admin bootstrap.")
		return nil
	}

	_, err := adminStore.GetAdminByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrAdminNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := adminStore.CreateAdmin(ctx, email, hashed); err != nil {
		return err
	}
	log.Printf("Bootstrapped admin account for %s", email)
	return nil
}
