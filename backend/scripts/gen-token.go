// ABOUTME: Mints gateway API tokens for local development
// ABOUTME: Signs with TOKEN_SECRET so the CLI can talk to a local gateway without OAuth

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/markalston/visionary-gallery/backend/models"
	"github.com/markalston/visionary-gallery/backend/services"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <email> [name] [ttl]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reads TOKEN_SECRET (or SESSION_SECRET) from the environment.\n")
		os.Exit(1)
	}

	secret := os.Getenv("TOKEN_SECRET")
	if secret == "" {
		secret = os.Getenv("SESSION_SECRET")
	}
	if secret == "" {
		fmt.Fprintln(os.Stderr, "TOKEN_SECRET is not set")
		os.Exit(1)
	}

	identity := models.Identity{Email: os.Args[1]}
	if len(os.Args) > 2 {
		identity.Name = os.Args[2]
	}

	ttl := 24 * time.Hour
	if len(os.Args) > 3 {
		d, err := time.ParseDuration(os.Args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid ttl %q: %v\n", os.Args[3], err)
			os.Exit(1)
		}
		ttl = d
	}

	token, expires, err := services.NewTokenManager(secret, ttl, nil).Issue(identity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issuing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expires.Format(time.RFC3339))
}
