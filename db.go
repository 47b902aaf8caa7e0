package main

import (
	"log"
	"sync"

	"bankline/models"

	"golang.org/x/sync/singleflight"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// The database handle is a process-wide lazily-initialized singleton.
// Concurrent first requests racing to establish the connection are collapsed
// into one attempt by the singleflight group, so the process never holds
// duplicate connections.
var (
	dbMu    sync.Mutex
	db      *gorm.DB
	connect singleflight.Group
)

// getDB returns the shared handle, establishing it on first use.
func getDB() (*gorm.DB, error) {
	dbMu.Lock()
	cached := db
	dbMu.Unlock()
	if cached != nil {
		return cached, nil
	}
	v, err, _ := connect.Do("db", func() (interface{}, error) {
		dbMu.Lock()
		if db != nil {
			cached := db
			dbMu.Unlock()
			return cached, nil
		}
		dbMu.Unlock()
		conn, err := openDB()
		if err != nil {
			return nil, err
		}
		dbMu.Lock()
		db = conn
		dbMu.Unlock()
		return conn, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gorm.DB), nil
}

func openDB() (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		migrateDB(conn)
	}
	return conn, nil
}

// initDB eagerly establishes the connection at startup; request handlers go
// through getDB so serverless-style deployments can skip the eager path.
func initDB() error {
	_, err := getDB()
	return err
}

// closeDB tears down the shared handle. Not required for serverless-style
// deployments, supported for long-running ones.
func closeDB() {
	dbMu.Lock()
	defer dbMu.Unlock()
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	db = nil
}

func migrateDB(conn *gorm.DB) {
	// Migrate models individually so a failure on one doesn't block others.
	// Permission errors are logged and ignored.
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		log.Printf("migration warning (users): %v", err)
	}
	if err := conn.AutoMigrate(&models.Transaction{}); err != nil {
		log.Printf("migration warning (transactions): %v", err)
	}
	if err := conn.AutoMigrate(&models.RefreshToken{}); err != nil {
		log.Printf("migration warning (refresh_tokens): %v", err)
	}
}
