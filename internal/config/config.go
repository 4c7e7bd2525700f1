// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Values are read once at start-up and passed to
// the components that need them; nothing reads the environment afterwards.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	LogLevel       string        // zerolog level name
	MongoURI       string        // document store connection string
	MongoDB        string        // document store database name
	JWTSecret      string        // secret used to sign and verify tokens
	TokenTTL       time.Duration // lifetime of tokens issued by POST /jwt
	StripeKey      string        // payment gateway secret key
	ClientURLs     []string      // allowed CORS origins
	PaymentStore   string        // "mongo" or "mysql"
	Ledger         LedgerConfig  // MySQL payment ledger (PaymentStore == "mysql")
	AMQPURL        string        // broker for fan-out recovery; empty disables it
	RequestTimeout time.Duration // per-request storage deadline
	S3             S3Config      // meal image uploads
}

// LedgerConfig describes the MySQL database that holds the payment ledger.
type LedgerConfig struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// S3Config describes the bucket used for meal images.  An empty Bucket
// disables uploads.
type S3Config struct {
	Bucket    string
	Region    string
	PublicURL string
}

// Load reads configuration values from the environment.  A .env file in the
// working directory is loaded first when present.  Required variables are
// enforced by must() and missing values stop the process.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("config: .env present but unreadable")
	}

	cfg := Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("PORT", "5000"),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		MongoURI:       mongoURI(),
		MongoDB:        envStr("MONGO_DB", "TitansDb"),
		JWTSecret:      must("ACCESS_TOKEN_SECRET"),
		TokenTTL:       envDur("ACCESS_TOKEN_TTL", time.Hour),
		StripeKey:      must("STRIPE_KEY"),
		ClientURLs:     splitList(envStr("CLIENT_URLS", "http://localhost:5173,http://localhost:5174")),
		PaymentStore:   strings.ToLower(envStr("PAYMENT_STORE", "mongo")),
		AMQPURL:        amqpURL(),
		RequestTimeout: envDur("REQUEST_TIMEOUT", 5*time.Second),
		S3: S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    envStr("S3_REGION", os.Getenv("AWS_REGION")),
			PublicURL: strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),
		},
	}

	if cfg.PaymentStore == "mysql" {
		cfg.Ledger = LedgerConfig{
			User: must("LEDGER_DB_USER"),
			Pass: os.Getenv("LEDGER_DB_PASS"), // empty allowed
			Host: must("LEDGER_DB_HOST"),
			Port: envStr("LEDGER_DB_PORT", "3306"),
			Name: must("LEDGER_DB_NAME"),
		}
	}
	return cfg
}

// mongoURI prefers MONGO_URI.  Otherwise it assembles an SRV URI from the
// DB_USER/DB_PASS credentials and MONGO_HOST, and falls back to a local
// server when no credentials are configured.
func mongoURI() string {
	if v := os.Getenv("MONGO_URI"); v != "" {
		return v
	}
	user, pass := os.Getenv("DB_USER"), os.Getenv("DB_PASS")
	host := os.Getenv("MONGO_HOST")
	if user == "" || host == "" {
		return "mongodb://localhost:27017"
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(user), url.QueryEscape(pass), host)
}

func amqpURL() string {
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
		log.Fatal().Str("key", key).Msg("missing required env var")
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}
