package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time types for pool and token lifetimes
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values cause a fatal error when missing;
// tunables fall back to sensible defaults so a bare .env is enough to run the
// service against a local database.
type Config struct {
	Env          string        // application environment (e.g. "dev", "prod")
	Port         string        // HTTP port to listen on
	DBUser       string        // database username
	DBPass       string        // database password (optional)
	DBHost       string        // database host address
	DBPort       string        // database port number
	DBName       string        // database name
	DBMaxConns   int           // connection pool bound (open and idle)
	DBConnTTL    time.Duration // recycle age for pooled connections
	JWTSecret    string        // secret used to sign session tokens
	TokenTTLDays int           // session token time-to-live in days
	BcryptCost   int           // bcrypt cost for password hashing
	FrontendURL  string        // origin allowed by CORS (the admin SPA)
	RabbitMQURL  string        // AMQP broker URL; empty disables the event stream
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("APP_PORT", "3000"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       getenv("DB_PORT", "3306"),
		DBName:       must("DB_NAME"),
		DBMaxConns:   envInt("DB_MAX_CONNS", 25),
		DBConnTTL:    envDur("DB_CONN_TTL", 30*time.Minute),
		JWTSecret:    must("JWT_SECRET"),
		TokenTTLDays: envInt("JWT_EXPIRES_DAYS", 7),
		BcryptCost:   envInt("BCRYPT_COST", 10),
		FrontendURL:  getenv("FRONTEND_URL", "http://localhost:5173"),
		RabbitMQURL:  rabbitURL(),
	}
}

// rabbitURL accepts either RABBITMQ_URL or the conventional AMQP_URL.
func rabbitURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or a default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt reads an integer variable, falling back to def on absence or
// malformed input.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}
