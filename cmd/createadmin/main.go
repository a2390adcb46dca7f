package main

import (
	"context"
	"flag"
	"log"
	"os"

	"tasktracker/internal/auth"
	"tasktracker/internal/db"
	"tasktracker/internal/domain"
	"tasktracker/internal/repository"

	"github.com/joho/godotenv"
)

// Bootstraps an admin account. Expects DATABASE_URL in the environment.
func main() {
	_ = godotenv.Load()

	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	name := flag.String("name", "Admin", "admin display name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: createadmin --email <email> --password <password> [--name <name>]")
	}
	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	if existing, err := repo.GetByEmail(ctx, *email); err == nil {
		log.Printf("user already exists id=%s role=%s", existing.ID, existing.Role)
		return
	}

	user, err := repo.Create(ctx, *name, *email, domain.RoleAdmin)
	if err != nil {
		log.Fatalf("create user: %v", err)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	if err := repo.CreateAccount(ctx, user.ID, "credential", hash); err != nil {
		log.Fatalf("create account: %v", err)
	}

	log.Printf("admin created id=%s email=%s", user.ID, user.Email)
}
