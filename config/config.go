package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "secret_key_123"

// Config holds the API server settings loaded from the environment.
type Config struct {
	ServerPort           string
	MongoURI             string
	MongoDBName          string
	MongoUseTransactions bool
	JWTSecret            string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	CassandraHosts       string
	CORSOrigin           string
	LogFile              string
	LogLevel             string
	AdminPassword        string
	PasswordBlacklist    string
}

// Load reads an optional .env file and then the process environment.
// A missing .env file is not an error.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set
		_ = godotenv.Load(f)
	}

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:          getEnv("MONGO_DB_NAME", "taskboard"),
		MongoUseTransactions: getEnvBool("MONGO_USE_TRANSACTIONS", false),
		JWTSecret:            getEnv("JWT_SECRET", defaultJWTSecret),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		CassandraHosts:       os.Getenv("CASS_DB"),
		CORSOrigin:           getEnv("CORS_ORIGIN", "*"),
		LogFile:              getEnv("LOG_FILE", "logs/taskboard.log"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		AdminPassword:        getEnv("ADMIN_PASSWORD", "admin123"),
		PasswordBlacklist:    os.Getenv("PASSWORD_BLACKLIST_FILE"),
	}
}

// UsesDefaultSecret reports whether JWT_SECRET was left unset.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
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

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
