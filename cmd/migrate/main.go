package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/repository/postgres"
	"github.com/pratik-mahalle/reminderflow/migrations"
)

func main() {
	status := flag.Bool("status", false, "print which migrations have been applied and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := postgres.New(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Printf("Connected to %s database successfully\n", db.Driver())

	if *status {
		applied, err := postgres.MigrationStatus(db, migrations.Files)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read migration status: %v\n", err)
			os.Exit(1)
		}
		names := make([]string, 0, len(applied))
		for name := range applied {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			mark := "pending"
			if applied[name] {
				mark = "applied"
			}
			fmt.Printf("%-8s %s\n", mark, name)
		}
		return
	}

	n, err := postgres.RunMigrations(db, migrations.Files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	if n == 0 {
		fmt.Println("Database is up to date")
		return
	}
	fmt.Printf("\nApplied %d migration(s) successfully!\n", n)
}
