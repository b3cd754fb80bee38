package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/captionly/captionly/config"
	"github.com/captionly/captionly/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@captionly.app"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	captions := []struct {
		prompt  string
		caption string
	}{
		{"sunset at the beach", "Chasing the sun until it melts into the sea. 🌅 #sunset #beachlife #goldenhour"},
		{"morning coffee", "First sip of the day, best sip of the day. ☕ #coffeetime #morningritual"},
	}
	for _, c := range captions {
		if _, err := db.Exec(`
			INSERT INTO captions (user_id, prompt, caption)
			VALUES ($1, $2, $3)
		`, id, c.prompt, c.caption); err != nil {
			log.Fatalf("failed to seed caption: %v", err)
		}
	}
	fmt.Printf("seeded %d captions for demo user\n", len(captions))
}
