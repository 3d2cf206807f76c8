package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		log.Fatalf("failed to create migrations table: %v", err)
	}

	migrationsDir := "migrations"
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		log.Fatalf("failed to read migrations directory: %v", err)
	}

	var migrationFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) == ".sql" && !strings.HasSuffix(name, "_rollback.sql") {
			migrationFiles = append(migrationFiles, name)
		}
	}
	// Sort files to apply in order
	sort.Strings(migrationFiles)

	if *rollback {
		var lastMigration struct {
			Version string
			Name    string
		}
		err := db.QueryRow(`
			SELECT version, name
			FROM schema_migrations
			ORDER BY applied_at DESC
			LIMIT 1
		`).Scan(&lastMigration.Version, &lastMigration.Name)
		if err != nil {
			if err == sql.ErrNoRows {
				log.Fatal("No migrations to rollback")
			}
			log.Fatalf("failed to get last migration: %v", err)
		}

		rollbackFile := fmt.Sprintf("%s_rollback.sql", strings.TrimSuffix(lastMigration.Name, ".sql"))
		rollbackPath := filepath.Join(migrationsDir, rollbackFile)

		content, err := os.ReadFile(rollbackPath)
		if err != nil {
			log.Fatalf("failed to read rollback file: %v", err)
		}

		tx, err := db.Begin()
		if err != nil {
			log.Fatalf("failed to start transaction: %v", err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			log.Fatalf("failed to execute rollback: %v", err)
		}

		if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", lastMigration.Version); err != nil {
			tx.Rollback()
			log.Fatalf("failed to remove migration record: %v", err)
		}

		if err := tx.Commit(); err != nil {
			log.Fatalf("failed to commit rollback: %v", err)
		}

		fmt.Printf("Successfully rolled back migration: %s\n", lastMigration.Name)
		return
	}

	for _, file := range migrationFiles {
		// Filenames follow VERSION_NAME.sql
		version := strings.Split(file, "_")[0]

		var applied bool
		err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", version).Scan(&applied)
		if err != nil {
			log.Fatalf("failed to check migration status: %v", err)
		}

		if applied {
			fmt.Printf("Migration already applied: %s\n", file)
			continue
		}

		path := filepath.Join(migrationsDir, file)
		fmt.Printf("Applying migration: %s\n", path)

		tx, err := db.Begin()
		if err != nil {
			log.Fatalf("failed to start transaction: %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			tx.Rollback()
			log.Fatalf("failed to read migration %s: %v", file, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			log.Fatalf("failed to apply migration %s: %v", file, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", version, file); err != nil {
			tx.Rollback()
			log.Fatalf("failed to record migration: %v", err)
		}

		if err := tx.Commit(); err != nil {
			log.Fatalf("failed to commit migration: %v", err)
		}

		fmt.Printf("Successfully applied migration: %s\n", file)
	}

	fmt.Println("All migrations applied successfully.")
}
