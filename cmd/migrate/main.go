package main

import (
	"flag"
	"log"

	"github.com/pageza/alchemorsel-v2/mealplan/config"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/database"
)

func main() {
	check := flag.Bool("check", false, "Only verify the database connection")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.StoreDriver != config.StoreSQLite && cfg.StoreDriver != config.StorePostgres {
		log.Fatalf("store driver %q has no schema to migrate", cfg.StoreDriver)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if *check {
		log.Printf("Database %s is reachable", db.Dialector.Name())
		return
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Printf("Migrations applied to %s store", cfg.StoreDriver)
}
