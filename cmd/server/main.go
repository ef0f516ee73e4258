package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "mealplan/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"mealplan/internal/auth"
	"mealplan/internal/cache"
	"mealplan/internal/client"
	"mealplan/internal/config"
	"mealplan/internal/db"
	"mealplan/internal/handler"
	"mealplan/internal/model"
	"mealplan/internal/repository"
	"mealplan/internal/router"
	"mealplan/internal/service"
)

// @title Meal Planning API
// @version 1.0
// @description Recipe discovery, preferences, shopping cart, pantry and grocery pricing with JWT authentication.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.NewSQL(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.GroceryCredential{},
			&model.AdminRecipe{},
			&model.BannedWord{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	mongoClient, mongoDB, err := db.NewMongo(connectCtx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		cancel()
		log.Fatalf("mongo init: %v", err)
	}
	if err := db.EnsureIndexes(connectCtx, mongoDB); err != nil {
		cancel()
		log.Fatalf("mongo indexes: %v", err)
	}
	cancel()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		log.Printf("Warning: redis unreachable at %s, caching disabled until it recovers: %v", cfg.RedisAddr, err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	bannedWordRepo := repository.NewBannedWordRepository(gormDB)
	adminRecipeRepo := repository.NewAdminRecipeRepository(gormDB)
	credentialRepo := repository.NewGroceryCredentialRepository(gormDB)
	prefsRepo := repository.NewPreferencesRepository(mongoDB)
	cartRepo := repository.NewCartRepository(mongoDB)
	pantryRepo := repository.NewPantryRepository(mongoDB)

	// Initialize external clients
	recipeAPI := client.NewRecipeClient(cfg.RecipeAPIURL, cfg.RecipeAPIKey)
	groceryAPI := client.NewGroceryClient(cfg.GroceryAPIURL, cfg.GroceryClientID, cfg.GroceryClientSecret, cfg.GroceryRedirectURI)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	stateStore := auth.NewStateStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	recipeService := service.NewRecipeService(recipeAPI, prefsRepo, cacheClient)
	preferenceService := service.NewPreferenceService(prefsRepo, recipeService)
	cartService := service.NewCartService(cartRepo)
	pantryService := service.NewPantryService(pantryRepo)
	groceryService := service.NewGroceryService(groceryAPI, stateStore, credentialRepo, cartService, cacheClient, service.PriceOptions{
		Concurrency: cfg.PriceLookupConcurrency,
		Timeout:     cfg.PriceLookupTimeout,
	})
	moderationService := service.NewModerationService(bannedWordRepo, userRepo)
	adminRecipeService := service.NewAdminRecipeService(adminRecipeRepo)
	statsService := service.NewStatsService(prefsRepo, recipeService)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, jwtService, router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Preferences: handler.NewPreferenceHandler(preferenceService),
		Cart:        handler.NewCartHandler(cartService),
		Pantry:      handler.NewPantryHandler(pantryService),
		Recipes:     handler.NewRecipeHandler(recipeService),
		Grocery:     handler.NewGroceryHandler(groceryService),
		Admin:       handler.NewAdminHandler(moderationService, adminRecipeService, statsService),
	})

	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := mongoClient.Disconnect(shutCtx); err != nil {
		log.Printf("mongo disconnect: %v", err)
	}
	if err := cacheClient.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// swaggerURL builds the UI address; SWAGGER_HOST may already carry a scheme.
func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
