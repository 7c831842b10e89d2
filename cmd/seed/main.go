package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/taskman-io/taskman/config"
	"github.com/taskman-io/taskman/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := "demo"
	email := "demo@example.com"
	password := "password123"
	hash, err := helpers.HashPasswordWithCost(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, username, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d username=%s password=%s\n", id, username, password)

	samples := []struct {
		title, description string
		done               bool
	}{
		{"Buy groceries", "Milk, eggs, bread", false},
		{"Write project report", "", true},
	}
	for _, s := range samples {
		if _, err := db.Exec(`
			INSERT INTO tasks (title, description, is_completed, user_id)
			VALUES ($1, NULLIF($2, ''), $3, $4)
		`, s.title, s.description, s.done, id); err != nil {
			log.Fatalf("failed to seed task %q: %v", s.title, err)
		}
	}
	fmt.Printf("seeded %d sample tasks for user %d\n", len(samples), id)
}
