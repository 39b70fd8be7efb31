// migrate applies the embedded schema migrations.
// Usage: go run ./cmd/migrate [-direction up|down]
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"secure-chat/backend/internal/config"
	"secure-chat/backend/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up",
		`"up" applies pending migrations, "down" rolls them all back`)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	switch err := migrate.Run(cfg.DatabaseURL, *direction); {
	case err == nil:
	case errors.Is(err, migrate.ErrNoChange):
		// Already at the target version counts as success.
	default:
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
