// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/docsage"
	"github.com/poiesic/docsage/ai"
	"github.com/poiesic/docsage/ai/openai"
	"github.com/poiesic/docsage/reindex"
	"github.com/poiesic/docsage/session"
	"github.com/poiesic/docsage/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "docsage",
		Usage: "Session-scoped document Q&A with semantic retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "chat",
				Usage:  "Ingest a document and ask questions about it",
				Action: chatCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "pdf",
						Usage: "PDF file to ingest before the first question",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "all-minilm",
					},
					&cli.StringFlag{
						Name:  "completion-host",
						Usage: "Completion service host URL",
						Value: "https://api.groq.com/openai/v1",
					},
					&cli.StringFlag{
						Name:  "completion-model",
						Usage: "Completion model name",
						Value: "llama-3.1-8b-instant",
					},
					&cli.StringFlag{
						Name:    "token",
						Usage:   "API token for the completion service",
						Value:   "none",
						EnvVars: []string{"GROQ_API_KEY"},
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Regenerate embeddings for all stored chunks",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithCompletionHost(c.String("completion-host")),
		ai.WithCompletionModel(c.String("completion-model")),
		ai.WithToken(c.String("token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	assistant, err := docsage.NewAssistant(c.String("db"), docsage.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open assistant: %w", err)
	}
	defer assistant.Close()

	sess := assistant.NewSession()

	// Expire leftovers from previous runs before taking questions
	assistant.Sweep(ctx, sess)

	if pdfPath := c.String("pdf"); pdfPath != "" {
		count, err := assistant.IngestPDF(ctx, sess, pdfPath)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", pdfPath, err)
		}
		fmt.Printf("Ingested %s (%d chunks)\n", pdfPath, count)
	}

	fmt.Printf("Session %s. Ask a question, or /paste, /clear, /status, /quit.\n", sess.ID())

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit", "/exit":
			return scanner.Err()
		case "/clear":
			sess.Clear()
			fmt.Println("History cleared. Ingested documents are kept.")
			continue
		case "/status":
			fmt.Println(statusLine(sess))
			continue
		case "/paste":
			text, err := readPaste(scanner)
			if err != nil {
				return err
			}
			count, err := assistant.IngestText(ctx, sess, text)
			if err != nil {
				fmt.Printf("Ingest failed after %d chunks: %v\n", count, err)
			} else {
				fmt.Printf("Ingested %d chunks\n", count)
			}
			continue
		}

		for fragment := range assistant.Ask(ctx, sess, line) {
			fmt.Print(fragment)
		}
		fmt.Println()
		fmt.Println(statusLine(sess))
	}

	return scanner.Err()
}

// readPaste collects lines until a lone "." terminator.
func readPaste(scanner *bufio.Scanner) (string, error) {
	fmt.Println("Paste document text. End with a single '.' on its own line.")
	var sb strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String(), scanner.Err()
}

func statusLine(sess *session.Session) string {
	switch sess.Status() {
	case session.StatusHealthy:
		return "[status: healthy]"
	case session.StatusDegraded:
		return "[status: degraded - free-tier limits may be reached]"
	default:
		return "[status: error - service issue, try later]"
	}
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("database path is required")
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer := reindex.NewReindexer(repo, embedder, reindexConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reindexer.Run(ctx); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	return nil
}

func setup(c *cli.Context) error {
	// .env is optional; flags and real env vars win
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
