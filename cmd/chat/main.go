package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/oFernandesx/TCC/internal/pkg/assistant"
	"github.com/oFernandesx/TCC/internal/pkg/chat/backend"
	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
	"github.com/oFernandesx/TCC/internal/pkg/chat/session"
	"github.com/oFernandesx/TCC/internal/tui"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Keep slog output away from the terminal UI.
	logFile, err := os.OpenFile("chat.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))
	slog.SetDefault(logger)

	backendURL := envOr("BACKEND_URL", "http://localhost:3000")
	hubURL := envOr("HUB_URL", "http://localhost:3000")

	userID, err := strconv.ParseInt(os.Getenv("USER_ID"), 10, 64)
	if err != nil || userID <= 0 {
		log.Fatalf("USER_ID environment variable must be a positive integer")
	}

	api := backend.New(backendURL, backend.WithLogger(logger))

	self, err := resolveSelf(api, userID)
	if err != nil {
		log.Fatalf("failed to resolve logged-in user: %v", err)
	}

	transport := session.NewTransport(hubURL, logger)
	chat := session.NewSession(self, api, transport, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := chat.Start(ctx); err != nil {
		log.Fatalf("failed to start session: %v", err)
	}
	defer chat.Close()

	overlay := assistant.NewSession(assistant.NewRelayClient(hubURL), self.Name, logger)

	program := tea.NewProgram(tui.NewModel(chat, overlay), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui stopped: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// resolveSelf looks the logged-in user up in the directory; session
// bootstrap proper (login) is owned by the portal, not this client.
func resolveSelf(api *backend.Client, userID int64) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	users, err := api.Users(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == userID {
			return u, nil
		}
	}
	return domain.User{ID: userID, Name: "Usuário " + strconv.FormatInt(userID, 10)}, nil
}
