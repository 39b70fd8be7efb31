// revoke is a breach-response tool: it revokes every active refresh
// session for a user, forcing re-authentication on all their devices.
// Usage: go run ./cmd/revoke -user 42 [-history 20]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"secure-chat/backend/internal/audit"
	auditrepo "secure-chat/backend/internal/audit/repository"
	"secure-chat/backend/internal/config"
	"secure-chat/backend/internal/db"
	"secure-chat/backend/internal/refresh/repository"
	"secure-chat/backend/internal/refresh/service"
	"secure-chat/backend/internal/security"
	"secure-chat/backend/internal/telemetry"
	otelsetup "secure-chat/backend/internal/telemetry/otel"
)

func main() {
	userID := flag.Int64("user", 0, "ID of the user whose sessions to revoke")
	history := flag.Int("history", 0, "Print the user's N most recent audit events after revoking")
	flag.Parse()

	if *userID <= 0 {
		log.Fatal("revoke: -user is required and must be positive")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("revoke: DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, "secure-chat-revoke", false)
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	metrics, err := telemetry.NewMetrics(providers.MeterProvider.Meter("securechat.refresh"))
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	auditRepo := auditrepo.NewPostgresRepository(conn)
	auditLog := audit.NewLogger(
		auditRepo,
		otelsetup.NewAuditEmitter(providers.LoggerProvider),
	)

	hasher := security.NewHasher(cfg.BcryptCost)
	svc := service.NewService(
		repository.NewPostgresRepository(conn),
		hasher,
		cfg.RefreshLifetime(),
		auditLog,
		metrics,
	)

	if err := svc.RevokeAllForUser(ctx, *userID); err != nil {
		log.Fatalf("revoke: %v", err)
	}
	log.Printf("revoke: all sessions for user %d revoked", *userID)

	if *history > 0 {
		events, err := auditRepo.ListByUser(ctx, *userID, int32(*history), 0)
		if err != nil {
			log.Fatalf("revoke: list audit events: %v", err)
		}
		for _, e := range events {
			fmt.Println(audit.FormatEvent(e))
		}
	}
}
