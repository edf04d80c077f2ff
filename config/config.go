// Package config reads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds values read from environment variables at startup
type Config struct {
	Port string

	// MongoURI is MONGODB_URI, or an Atlas SRV URI built from DB_USER,
	// DB_PASS and DB_HOST.
	MongoURI     string
	DatabaseName string

	TokenSecret     string
	StripeSecretKey string

	// PostmarkToken empty disables payment receipts
	PostmarkToken string
	EmailSender   string

	AllowedOrigins []string

	// InMemory serves from process memory instead of MongoDB
	InMemory bool
}

// ErrMissingSecret is returned when ACCESS_TOKEN_SECRET is not set
var ErrMissingSecret = errors.New("ACCESS_TOKEN_SECRET is not set")

// Load reads the configuration from the environment. A database connection
// setting is only required when inMemory is false.
func Load(inMemory bool) (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "5000"),
		DatabaseName:    getEnv("DB_NAME", "techAppsDB"),
		TokenSecret:     os.Getenv("ACCESS_TOKEN_SECRET"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		PostmarkToken:   os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:     os.Getenv("EMAIL_SENDER"),
		AllowedOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		InMemory:        inMemory,
	}

	if cfg.TokenSecret == "" {
		return nil, ErrMissingSecret
	}

	if !inMemory {
		uri, err := mongoURI()
		if err != nil {
			return nil, err
		}
		cfg.MongoURI = uri
	}
	return cfg, nil
}

func mongoURI() (string, error) {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri, nil
	}

	user, pass, host := os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_HOST")
	if user == "" || pass == "" || host == "" {
		return "", errors.New("set MONGODB_URI, or DB_USER, DB_PASS and DB_HOST")
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(user), url.QueryEscape(pass), host), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
