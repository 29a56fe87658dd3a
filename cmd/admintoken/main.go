package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/a-mirror/mirror-api/internal/config"
	"github.com/a-mirror/mirror-api/internal/tokens"
)

// admintoken mints an admin JWT for the /api/admin routes using the same
// ADMIN_SECRET the server verifies with.
func main() {
	subject := flag.String("subject", "admin", "subject claim to embed in the token")
	ttl := flag.Duration("ttl", 0, "token lifetime (default: ADMIN_TOKEN_TTL from config)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lifetime := cfg.Admin.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	tok, err := tokens.GenerateAdminToken(cfg, *subject, lifetime)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	fmt.Println(tok)
	log.Printf("admin token for %q expires %s", *subject, time.Now().Add(lifetime).Format(time.RFC3339))
}
