package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/bootstrap"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/config"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/agent"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Close()

	// 3. Identify the user
	username := envOr("ASSISTANT_USER", "demo")
	role, err := auth.ParseRole(envOr("ASSISTANT_ROLE", "employee"))
	if err != nil {
		log.Fatalf("Invalid role: %v", err)
	}
	user := agent.User{
		ID:       uuid.New(),
		Username: username,
		Role:     role,
	}

	ctx := context.Background()
	session, err := container.Assistant.CreateSession(ctx, user)
	if err != nil {
		log.Fatalf("Unable to create session: %v", err)
	}

	fmt.Printf("FinSolve AI assistant. User %s (%s). Type 'exit' to quit.\n", user.Username, user.Role)

	// 4. REPL
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		resp, err := container.Assistant.ProcessQuery(ctx, user, session.ID, query)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		fmt.Println()
		fmt.Println(resp.Content)
		fmt.Println()
		if len(resp.Sources) > 0 {
			fmt.Printf("Sources: %s\n", strings.Join(resp.Sources, ", "))
		}
		fmt.Printf("Confidence: %.2f | Kind: %s | Took: %s\n",
			resp.Confidence, resp.QueryKind, resp.ProcessingTime.Round(1e6))
		if resp.Visualization != nil {
			fmt.Printf("Chart: %s (%s)\n", resp.Visualization.Title, resp.Visualization.Type)
		}
		fmt.Println()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
