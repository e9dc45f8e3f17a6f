// Command seed resets the database and loads a small demo dataset: two
// users (alice and bob, password "password123"), three items and a handful
// of reviews and comments.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	database "github.com/FACorreiaa/go-item-reviews/app/db"
	"github.com/FACorreiaa/go-item-reviews/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		log.Fatalf("FATAL: Error generating database config: %v", err)
	}

	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		log.Fatalf("FATAL: Error running migrations: %v", err)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		log.Fatalf("FATAL: Error initializing database pool: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	logger.Info("Start seeding ...")

	// Delete in dependency order; comments.review_id is RESTRICT.
	for _, table := range []string{"comments", "reviews", "users", "items"} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			log.Fatalf("FATAL: Error clearing %s: %v", table, err)
		}
		logger.Info("Deleted records", slog.String("table", table))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("FATAL: Error hashing seed password: %v", err)
	}

	createUser := func(username, email string) uuid.UUID {
		var id uuid.UUID
		err := pool.QueryRow(ctx,
			`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
			username, email, string(hashed),
		).Scan(&id)
		if err != nil {
			log.Fatalf("FATAL: Error creating user %s: %v", username, err)
		}
		logger.Info("Created user", slog.String("id", id.String()), slog.String("username", username))
		return id
	}

	createItem := func(name, description, category string) uuid.UUID {
		var id uuid.UUID
		err := pool.QueryRow(ctx,
			`INSERT INTO items (name, description, category) VALUES ($1, $2, $3) RETURNING id`,
			name, description, category,
		).Scan(&id)
		if err != nil {
			log.Fatalf("FATAL: Error creating item %s: %v", name, err)
		}
		logger.Info("Created item", slog.String("id", id.String()), slog.String("name", name))
		return id
	}

	createReview := func(text string, rating int, userID, itemID uuid.UUID) uuid.UUID {
		var id uuid.UUID
		err := pool.QueryRow(ctx,
			`INSERT INTO reviews (text, rating, user_id, item_id) VALUES ($1, $2, $3, $4) RETURNING id`,
			text, rating, userID, itemID,
		).Scan(&id)
		if err != nil {
			log.Fatalf("FATAL: Error creating review: %v", err)
		}
		logger.Info("Created review", slog.String("id", id.String()))
		return id
	}

	createComment := func(text string, userID, reviewID uuid.UUID) {
		var id uuid.UUID
		err := pool.QueryRow(ctx,
			`INSERT INTO comments (text, user_id, review_id) VALUES ($1, $2, $3) RETURNING id`,
			text, userID, reviewID,
		).Scan(&id)
		if err != nil {
			log.Fatalf("FATAL: Error creating comment: %v", err)
		}
		logger.Info("Created comment", slog.String("id", id.String()))
	}

	alice := createUser("alice", "alice@example.com")
	bob := createUser("bob", "bob@example.com")

	cafe := createItem("The Cozy Cafe", "A warm place for coffee and pastries.", "restaurant")
	gadget := createItem("Modern Tech Gadget", "The latest and greatest gadget you never knew you needed.", "product")
	createItem("Silent Library", "A quiet place to read and study.", "place")

	review1 := createReview("Great atmosphere and delicious croissants!", 5, alice, cafe)
	review2 := createReview("Coffee was a bit cold, but the staff was friendly.", 3, bob, cafe)
	createReview("Works as advertised, very sleek design.", 4, alice, gadget)

	createComment("I agree, the croissants are the best!", bob, review1)
	createComment("Maybe give the espresso a try next time?", alice, review2)

	logger.Info("Seeding finished.")
}
