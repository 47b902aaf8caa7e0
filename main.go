package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	cfg       *Config
	jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)
)

func main() {
	// Auto-load ./.env if present before reading vars; already-set variables win.
	_ = godotenv.Load()
	cfg = loadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	jwtSecret = []byte(cfg.JWTSecret)

	// Support a lightweight migrate command: `./bankline migrate`
	// It runs AutoMigrate then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := initDB(); err != nil {
			log.Fatal(err)
		}
		fmt.Println("migration completed")
		return
	}

	if err := initDB(); err != nil {
		log.Fatal(err)
	}
	defer closeDB()

	r := gin.Default()

	setupRoutes(r)

	r.Run(":" + cfg.Port)
}
