package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oFernandesx/TCC/internal/infrastructure/pubsub/adapter"
	"github.com/oFernandesx/TCC/internal/infrastructure/realtime"
	httpHandler "github.com/oFernandesx/TCC/internal/pkg/chat/presentation/http"
	"github.com/oFernandesx/TCC/internal/pkg/assistant/relay"
)

// busTopic is the redis channel used for cross-node frame fan-out.
const busTopic = "portal:realtime"

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	hub := realtime.NewHub(logger)
	defer hub.Close()

	// Cross-node fan-out is optional; without REDIS_URL the hub runs
	// single-node and clients on other nodes reconcile via REST.
	if os.Getenv("REDIS_URL") != "" {
		bus, err := adapter.NewRedisBusFromEnv()
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer bus.Close()
		if err := hub.AttachBus(context.Background(), bus, busTopic); err != nil {
			log.Fatalf("failed to attach bus: %v", err)
		}
	}

	completer, err := relay.NewCompletionClientFromEnv()
	if err != nil {
		log.Fatalf("failed to configure assistant relay: %v", err)
	}

	r := gin.Default()
	httpHandler.RegisterRoutes(r, hub, completer, logger)

	addr := ":" + envOr("PORT", "3000")
	// Start HTTP server (blocks until shutdown)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
