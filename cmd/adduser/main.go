// cmd/adduser/main.go
// Creates an API user, or resets the password of an existing one.
//
// Usage:
//
//	go run ./cmd/adduser -username admin -password testing
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/padraicbc/keibadb/config"
	bundb "github.com/padraicbc/keibadb/db"
	"github.com/padraicbc/keibadb/handlers"
	"github.com/padraicbc/keibadb/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	flag.Parse()

	hash, err := handlers.HashPasswordForUser(*username, *password)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	user := &models.User{
		Username: strings.TrimSpace(*username),
		Password: hash,
	}

	_, err = db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password").
		Exec(ctx)
	if err != nil {
		log.Fatal("insert user:", err)
	}

	role := "reader"
	if cfg.IsAdmin(user.Username) {
		role = "admin"
	}
	fmt.Printf("user %q saved (%s)\n", user.Username, role)
}
