package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-social-users/config"
	"github.com/oksasatya/go-social-users/internal/domain/entity"
	"github.com/oksasatya/go-social-users/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	staff := seedUser(db, entity.User{Email: "staff@example.com", FirstName: "Demo", LastName: "Staff", IsStaff: true}, "password123")
	member := seedUser(db, entity.User{Email: "member@example.com", FirstName: "Demo", LastName: "Member"}, "password123")

	posts := []entity.Post{
		{AuthorID: staff.ID, Body: "Welcome to the network."},
		{AuthorID: staff.ID, Body: "House rules are pinned."},
		{AuthorID: member.ID, Body: "Hello everyone!"},
	}
	for i := range posts {
		if err := db.QueryRow(`
			INSERT INTO posts (author_id, body) VALUES ($1, $2)
			RETURNING id, created_at
		`, posts[i].AuthorID, posts[i].Body).Scan(&posts[i].ID, &posts[i].CreatedAt); err != nil {
			log.Fatalf("failed to seed post: %v", err)
		}
	}

	// member likes both staff posts
	for _, p := range posts[:2] {
		if _, err := db.Exec(`
			INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT (post_id, user_id) DO NOTHING
		`, p.ID, member.ID); err != nil {
			log.Fatalf("failed to seed like: %v", err)
		}
	}
	fmt.Printf("seeded %d posts; %s liked 2\n", len(posts), member.Email)
}

func seedUser(db *sql.DB, u entity.User, password string) entity.User {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name, is_staff)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name
		RETURNING id, date_joined
	`, u.Email, hash, u.FirstName, u.LastName, u.IsStaff).Scan(&u.ID, &u.DateJoined)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", u.Email, err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, password)
	return u
}
