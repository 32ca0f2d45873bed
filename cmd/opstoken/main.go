// opstoken prints an operator token for the audit endpoints.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/vaultpass/passforge/internal/config"
	"github.com/vaultpass/passforge/internal/crypto"
	"github.com/vaultpass/passforge/internal/logging"
)

func main() {
	var (
		operator string
		ttl      time.Duration
	)
	flag.StringVar(&operator, "operator", "", "Operator name recorded in the token (required)")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRY)")
	flag.Parse()

	_ = godotenv.Load()
	logging.Setup(os.Stderr, "warn", "text")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if ttl == 0 {
		ttl = cfg.JWTExpiry
	}

	token, err := crypto.GenerateToken(operator, cfg.JWTSecret, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
