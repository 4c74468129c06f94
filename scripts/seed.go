// Seed script for creating demo documents and sessions in lide.
// Needs a running annotator (ANNOTATOR_URL).
// Run with: go run ./scripts/seed.go
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/interpret"
	"github.com/Harshitk-cp/lide/internal/nlp"
	"github.com/Harshitk-cp/lide/internal/pipeline"
	"github.com/Harshitk-cp/lide/internal/service"
	"github.com/Harshitk-cp/lide/internal/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment
	envFile := os.Getenv("LIDE_ENV")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	backend := os.Getenv("STORAGE_BACKEND")
	dsn := os.Getenv("DATABASE_URL")
	if backend == "" || backend == "memory" {
		// A memory store would vanish with this process.
		backend = "sqlite"
	}
	if backend == "sqlite" {
		dsn = os.Getenv("SQLITE_PATH")
		if dsn == "" {
			dsn = "lide.db"
		}
	}
	annotatorURL := os.Getenv("ANNOTATOR_URL")
	if annotatorURL == "" {
		annotatorURL = "http://localhost:8001"
	}

	ctx := context.Background()

	st, err := store.Open(ctx, backend, dsn)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", backend, err)
	}
	defer st.Close()
	fmt.Printf("Opened %s store\n", backend)

	logger := zap.NewNop()
	kb, err := interpret.LoadKnowledgeBase(os.Getenv("TRUTH_KB_PATH"))
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}
	p := pipeline.New(nlp.NewHTTPAnnotator(annotatorURL, 30*time.Second), logger)
	in := interpret.NewInterpreter(interpret.NewRegistry(interpret.NewTruthChecker(kb), interpret.NewDiscourseMarker()), logger)
	analysis := service.NewAnalysisService(st, st, p, in, logger)
	sessions := service.NewSessionService(st, st, st, p, in, logger)

	// Standalone documents, analysed in the mode that suits them
	docs := []struct {
		id   string
		text string
		mode string
	}{
		{"demo-oxymoron", "I saw a tall short building.", "Map"},
		{"demo-kafka", "Gregor Samsa woke up. He transformed into an insect.", "Truth"},
		{"demo-fiction", "The coffee is hot. The coffee is cold.", "Fiction"},
	}
	for _, d := range docs {
		if _, err := analysis.CreateDocument(ctx, d.id, d.text, "en"); err != nil {
			log.Printf("Warning: Failed to create document %s: %v", d.id, err)
			continue
		}
		res, err := analysis.Analyze(ctx, d.id, service.AnalyzeOptions{Mode: domain.ProcessingMode(d.mode)})
		if err != nil {
			log.Printf("Warning: Failed to analyse %s: %v", d.id, err)
			continue
		}
		fmt.Printf("Analysed %s [%s]: %d nodes, %d diagnostics shown\n",
			d.id, d.mode, res.GraphSummary.Nodes, len(res.TopDiagnostics))
	}

	// A conversation that contradicts itself across turns
	sess, err := sessions.Create(ctx, "demo-session", "Demo: the building")
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	for _, text := range []string{
		"The building is tall.",
		"It is short.",
		"I want to build a fast application.",
		"The application should be slow.",
	} {
		turn, err := sessions.AddMessage(ctx, sess.ID, text, "")
		if err != nil {
			log.Printf("Warning: Failed to add message: %v", err)
			continue
		}
		fmt.Printf("Turn %d: %s\n", turn.MessageCount, truncate(text, 50))
		if turn.Warning != "" {
			fmt.Printf("  %s\n", turn.Warning)
		}
	}

	fmt.Println("\n=== Seed Complete ===")
	fmt.Println("\nTo protect the API, set for example:")
	fmt.Printf("API_KEY=%s\n", generateAPIKey())
	fmt.Println("\nTo inspect the session:")
	fmt.Printf("curl 'http://localhost:8080/v0/sessions/%s/export?format=markdown'\n", sess.ID)
}

func generateAPIKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("Failed to generate API key: %v", err)
	}
	return "lide_" + base64.URLEncoding.EncodeToString(b)[:40]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
