package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port      string
	DBDSN     string
	JWTSecret string
	// APIKey, when set, allows server-to-server callers to authenticate with
	// an X-API-Key header instead of a session token.
	APIKey      string
	AutoMigrate bool
	// DeleteCascade controls whether deleting a user also deletes their
	// transactions. Default false: orphaned records are retained.
	DeleteCascade bool
}

func loadConfig() *Config {
	return &Config{
		Port:          getEnv("PORT", "8081"),
		DBDSN:         getEnv("DB_DSN", ""),
		JWTSecret:     getEnv("JWT_SECRET", "dev-insecure-secret-change"),
		APIKey:        getEnv("API_KEY", ""),
		AutoMigrate:   getEnvBool("DB_AUTO_MIGRATE", true),
		DeleteCascade: getEnvBool("USER_DELETE_CASCADE", false),
	}
}

// Validate returns an error describing every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		problems = append(problems, "DB_DSN is not set; a Postgres DSN is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.ToLower(os.Getenv(key))
	switch v {
	case "":
		return fallback
	case "false", "0", "no":
		return false
	default:
		return true
	}
}
