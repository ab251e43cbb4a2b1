package main

import (
	"log"

	"podbot-be/internal/config"
	"podbot-be/internal/model"
	"podbot-be/pkg/database"
)

// Creates the tables used when STORAGE_DRIVER=postgres.
func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.Close(db)

	log.Println("Migrating session index and chat log tables...")
	if err := database.AutoMigrate(db, model.AllModels()...); err != nil {
		log.Fatal("Error: ", err)
	}
	log.Println("Migration complete")
}
