package config // package config loads application configuration from environment variables

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DatabaseConfig holds the MySQL connection settings.
type DatabaseConfig struct {
	User string
	Pass string // optional
	Host string
	Port string
	Name string
}

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DB           DatabaseConfig
	JWTSecret    string        // secret used to sign tokens
	TokenTTL     time.Duration // TOKEN_TTL_DAYS, default 7
	BcryptCost   int           // bcrypt work factor, default 10
	RabbitURL    string        // empty disables event publishing
	LogLevel     string
}

// LoadDotEnv loads a .env file when one exists. Variables already present
// in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}
}

// Load reads configuration values from the environment. Missing required
// variables cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("APP_PORT", "8080"),
		DB:           LoadDatabase(),
		JWTSecret:    must("JWT_SECRET"),
		TokenTTL:     time.Duration(intOr("TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,
		BcryptCost:   intOr("BCRYPT_COST", 10),
		RabbitURL:    os.Getenv("RABBITMQ_URL"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}
}

// LoadDatabase reads only the database settings. The migrate command uses
// it so it does not need a signing secret.
func LoadDatabase() DatabaseConfig {
	return DatabaseConfig{
		User: must("DB_USER"),
		Pass: os.Getenv("DB_PASS"),
		Host: must("DB_HOST"),
		Port: getenv("DB_PORT", "3306"),
		Name: must("DB_NAME"),
	}
}

// must retrieves the value of a required environment variable.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatal().Str("key", key).Msg("missing required env var")
	}
	return v
}

// intOr returns def when key is unset and exits when it is set to
// something that is not an integer.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatal().Str("key", key).Str("value", s).Msg("invalid int")
	}
	return n
}
