package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Tmtan95/GenAI-demo/pkg/cache"
	"github.com/Tmtan95/GenAI-demo/pkg/config"
	"github.com/Tmtan95/GenAI-demo/pkg/extractor"
	"github.com/Tmtan95/GenAI-demo/pkg/llm"
	"github.com/Tmtan95/GenAI-demo/pkg/ollama"
	"github.com/Tmtan95/GenAI-demo/pkg/processor"
	"github.com/Tmtan95/GenAI-demo/pkg/rag"
)

var (
	flagConfig     string
	flagOllamaURL  string
	flagModel      string
	flagEmbedModel string
	flagDocuments  string
	flagCacheDir   string
	flagTopK       int
	flagNoServe    bool
)

type app struct {
	cfg     *config.Config
	rag     *rag.Orchestrator
	chat    *llm.ChatEngine
	manager *ollama.Manager
}

func main() {
	// A .env next to the binary may carry OLLAMA_BASE_URL and friends.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "genai",
		Short:         "Chat with a local Ollama model and ask questions about your PDF documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), true, runMenu)
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&flagOllamaURL, "ollama-url", "", "Ollama server URL")
	root.PersistentFlags().StringVar(&flagModel, "model", "", "chat model name")
	root.PersistentFlags().StringVar(&flagEmbedModel, "embed-model", "", "embedding model name")
	root.PersistentFlags().StringVar(&flagDocuments, "documents", "", "folder holding PDF documents")
	root.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "folder holding cached embeddings")
	root.PersistentFlags().IntVar(&flagTopK, "top-k", 0, "number of chunks retrieved per question")
	root.PersistentFlags().BoolVar(&flagNoServe, "no-serve", false, "do not start an Ollama server automatically")

	root.AddCommand(
		&cobra.Command{
			Use:   "chat",
			Short: "Open an interactive chat session",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), true, runChat)
			},
		},
		&cobra.Command{
			Use:   "docs",
			Short: "Index the documents folder and answer questions about it",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), true, runDocs)
			},
		},
		&cobra.Command{
			Use:   "ask [question]",
			Short: "Ask a single question about the documents and exit",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), true, func(ctx context.Context, a *app) error {
					return runAsk(ctx, a, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Check that the Ollama server, models and documents are ready",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), false, runCheck)
			},
		},
	)

	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		return nil, err
	}

	// Command line flags win over file and environment values.
	if flagOllamaURL != "" {
		cfg.LLM.BaseURL = flagOllamaURL
	}
	if flagModel != "" {
		cfg.LLM.Model = flagModel
	}
	if flagEmbedModel != "" {
		cfg.Embedding.Model = flagEmbedModel
	}
	if flagDocuments != "" {
		cfg.Documents.Folder = flagDocuments
	}
	if flagCacheDir != "" {
		cfg.Cache.Folder = flagCacheDir
	}
	if flagTopK > 0 {
		cfg.Retrieval.TopK = flagTopK
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			color.Red("config: %v", err)
		}
		return nil, fmt.Errorf("invalid configuration")
	}

	return cfg, nil
}

// withApp builds the application from config and flags, making sure an
// Ollama server is up first when the command needs one. A server started
// here is stopped again when the command returns.
func withApp(ctx context.Context, needServer bool, fn func(context.Context, *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	manager := ollama.NewManager(ollama.ManagerConfig{
		BaseURL:        cfg.LLM.BaseURL,
		StartupTimeout: time.Duration(cfg.Server.StartupTimeout) * time.Second,
	})

	if needServer && !flagNoServe {
		if manager.Probe(ctx) != ollama.StatusRunning {
			color.Yellow("Ollama server not detected, starting one...")
		}
		stop, err := manager.Ensure(ctx)
		if err != nil {
			return err
		}
		defer stop()
	}

	a, err := buildApp(cfg, manager)
	if err != nil {
		return err
	}
	return fn(ctx, a)
}

func buildApp(cfg *config.Config, manager *ollama.Manager) (*app, error) {
	chatEngine, err := llm.NewWithConfig(llm.ChatConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		BaseURL:     cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat engine: %v", err)
	}

	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:   cfg.Embedding.Model,
		BaseURL: cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %v", err)
	}

	store, err := cache.New(cfg.Cache.Folder)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Documents.Folder, 0755); err != nil {
		return nil, fmt.Errorf("creating documents folder: %v", err)
	}

	chunker := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:      cfg.Retrieval.ChunkSize,
		ChunkOverlap:   cfg.Retrieval.ChunkOverlap,
		MinChunkLength: cfg.Retrieval.MinChunkLength,
	})

	orchestrator := rag.New(rag.Config{TopK: cfg.Retrieval.TopK}, rag.Deps{
		Extractor: extractor.New(),
		Chunker:   &chunker,
		Embedder:  embedder,
		Chat:      chatEngine,
		Cache:     store,
	})

	return &app{
		cfg:     cfg,
		rag:     orchestrator,
		chat:    chatEngine,
		manager: manager,
	}, nil
}
