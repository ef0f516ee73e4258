package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	DBDriver    string
	DatabaseDSN string
	MongoURI    string
	MongoDB     string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	JWTTTL      time.Duration
	SwaggerHost string

	RecipeAPIURL string
	RecipeAPIKey string

	GroceryAPIURL       string
	GroceryClientID     string
	GroceryClientSecret string
	GroceryRedirectURI  string

	PriceLookupConcurrency int
	PriceLookupTimeout     time.Duration
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN: getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/mealplan?charset=utf8mb4&parseTime=True&loc=Local"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "mealplan"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		JWTTTL:      getEnvDuration("JWT_TTL", 2*time.Hour),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		RecipeAPIURL: getEnv("RECIPE_API_URL", "https://api.spoonacular.com"),
		RecipeAPIKey: os.Getenv("RECIPE_API_KEY"),

		GroceryAPIURL:       getEnv("GROCERY_API_URL", "https://api.kroger.com/v1"),
		GroceryClientID:     os.Getenv("GROCERY_CLIENT_ID"),
		GroceryClientSecret: os.Getenv("GROCERY_CLIENT_SECRET"),
		GroceryRedirectURI:  getEnv("GROCERY_REDIRECT_URI", "http://localhost:8080/auth/krogerCallback"),

		PriceLookupConcurrency: getEnvInt("PRICE_LOOKUP_CONCURRENCY", 4),
		PriceLookupTimeout:     getEnvDuration("PRICE_LOOKUP_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
