package main

import (
	"finance_sandbox/internal/config" // Custom import path (Config)
	"finance_sandbox/internal/db"     // Custom import path (Database)
	"flag"                            // Command line flags

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	promote := flag.String("promote", "", "username to grant the admin role after migrating")
	flag.Parse()

	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if *promote != "" {
		if err := db.PromoteAdmin(database, *promote); err != nil {
			logrus.Fatalf("promote failed: %v", err)
		}
	}
}
