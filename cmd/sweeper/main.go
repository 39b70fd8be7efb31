// sweeper deletes retired refresh sessions past the retention window.
// Retired rows (revoked or replaced) are kept after expiry so that
// replay of an old credential is still detected as reuse; once the
// retention window has also passed they carry no signal and are purged.
// Set RETENTION_WINDOW to tune the window; pass -once for a single pass.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secure-chat/backend/internal/config"
	"secure-chat/backend/internal/db"
	"secure-chat/backend/internal/refresh/repository"
)

func main() {
	interval := flag.Duration("interval", time.Hour, "Time between sweep passes")
	once := flag.Bool("once", false, "Run a single sweep pass and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("sweeper: DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	repo := repository.NewPostgresRepository(conn)
	retention := cfg.Retention()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("sweeper: shutting down...")
		cancel()
	}()

	sweep := func() {
		sweepCtx, sweepCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer sweepCancel()

		cutoff := time.Now().UTC().Add(-retention)
		deleted, err := repo.DeleteRetired(sweepCtx, cutoff)
		if err != nil {
			log.Printf("sweeper: delete failed: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("sweeper: purged %d retired sessions older than %s", deleted, cutoff.Format(time.RFC3339))
		}
	}

	log.Printf("sweeper: retention %s, interval %s", retention, *interval)
	sweep()
	if *once {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("sweeper: stopped")
			return
		case <-ticker.C:
			sweep()
		}
	}
}
