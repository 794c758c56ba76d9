package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses durations for TTLs and intervals
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Durations use Go duration syntax (e.g.
// "10m", "30s").  The advisory redis and rabbitmq settings have no
// required variables because both layers are optional: the engine
// degrades to store-only operation when they are absent.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret string // secret used to verify access tokens from the auth layer

	HoldTTL         time.Duration // how long a seat hold stays valid
	ReaperInterval  time.Duration // how often the expiry reaper sweeps
	ReaperLockTTL   time.Duration // TTL of the advisory reaper lock
	HoldCachePrefix string        // redis key prefix for the hold mirror

	FlatFeeCents uint32 // flat booking fee applied by the default fee policy

	AMQPURL string // rabbitmq URL for notifications (optional)
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional values
// fall back to defaults suitable for local development.
func Load() Config {
	return Config{
		Env:    must("APP_ENV"),
		Port:   must("APP_PORT"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTSecret: must("JWT_SECRET"),

		HoldTTL:         getdur("HOLD_TTL", 10*time.Minute),
		ReaperInterval:  getdur("REAPER_INTERVAL", 30*time.Second),
		ReaperLockTTL:   getdur("REAPER_LOCK_TTL", 20*time.Second),
		HoldCachePrefix: getenv("HOLD_CACHE_PREFIX", "hold"),

		FlatFeeCents: uint32(getint("BOOKING_FLAT_FEE_CENTS", 150)),

		AMQPURL: getenv("RABBITMQ_URL", ""),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or the given default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getint parses an integer variable, falling back to the default on
// absence or parse failure.
func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getdur parses a duration variable, falling back to the default on
// absence or parse failure.  A zero or negative configured value also
// falls back, since none of the engine's timers tolerate it.
func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
