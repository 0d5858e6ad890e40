package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries all environment-driven settings, including the two policy
// toggles that differ between deployments: whether college students may
// request and search other college students, and whether search demands a
// non-empty query.
type Config struct {
	Port           string
	AWSRegion      string
	S3Bucket       string
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	AllowCollegeToCollege bool
	RequireSearchQuery    bool
	SearchLimit           int
	FeaturedLimit         int
}

func Load() Config {
	return Config{
		Port:           getenv("PORT", "8080"),
		AWSRegion:      getenv("AWS_REGION", "us-east-1"),
		S3Bucket:       getenv("S3_BUCKET_NAME", ""),
		JWTSecret:      getenv("JWT_SECRET", ""),
		JWTIssuer:      getenv("JWT_ISSUER", "edubridge"),
		AccessTokenTTL: getenvDuration("ACCESS_TOKEN_TTL", 30*24*time.Hour),

		AllowCollegeToCollege: getenvBool("ALLOW_COLLEGE_TO_COLLEGE", false),
		RequireSearchQuery:    getenvBool("REQUIRE_SEARCH_QUERY", false),
		SearchLimit:           getenvInt("SEARCH_LIMIT", 50),
		FeaturedLimit:         getenvInt("FEATURED_LIMIT", 20),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
