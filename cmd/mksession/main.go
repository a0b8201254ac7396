// Command mksession seeds a user and mints a session token against the
// configured store. In production sessions come from the identity provider;
// this exists for local development and smoke testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/RitochitGhosh/summarAIze/internal/config"
	"github.com/RitochitGhosh/summarAIze/internal/store"
)

func main() {
	name := flag.String("name", "dev", "user name")
	email := flag.String("email", "", "user email")
	ttl := flag.Duration("ttl", 24*time.Hour, "session lifetime")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	var db store.DataStore
	if cfg.DatabaseURL != "" {
		if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
			fatal(err)
		}
		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			fatal(err)
		}
		defer pgStore.Close()
		db = pgStore
	} else {
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			fatal(err)
		}
		defer sqliteStore.Close()
		db = sqliteStore
	}

	user, err := db.CreateUser(ctx, *name, *email)
	if err != nil {
		fatal(err)
	}

	token := ulid.Make().String()
	session, err := db.CreateSession(ctx, token, user.ID, time.Now().Add(*ttl))
	if err != nil {
		fatal(err)
	}

	fmt.Printf("User ID:    %s\n", user.ID)
	fmt.Printf("Token:      %s\n", session.Token)
	fmt.Printf("Expires at: %s\n", session.ExpiresAt.Format(time.RFC3339))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
