package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rishinpoolat/portfolio/internal/adapters/driven/ai"
	"github.com/rishinpoolat/portfolio/internal/adapters/driven/config/file"
	"github.com/rishinpoolat/portfolio/internal/adapters/driven/storage"
	"github.com/rishinpoolat/portfolio/internal/adapters/driven/storage/memory"
	"github.com/rishinpoolat/portfolio/internal/adapters/driving/cli"
	"github.com/rishinpoolat/portfolio/internal/connectors/filesystem"
	"github.com/rishinpoolat/portfolio/internal/core/services"
	"github.com/rishinpoolat/portfolio/internal/logger"
	"github.com/rishinpoolat/portfolio/internal/normalisers/markdown"
	"github.com/rishinpoolat/portfolio/internal/postprocessors/chunker"
)

const promptsDir = "prompts"

// buildServices assembles the service graph from settings.
func buildServices(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	if loaded, err := file.LoadEnvFiles(file.DefaultEnvFile); err != nil {
		return nil, err
	} else if len(loaded) > 0 {
		logger.Debug("Loaded environment from %v", loaded)
	}

	dir := opts.ConfigDir
	if dir == "" {
		var err error
		if dir, err = file.DefaultConfigDir(); err != nil {
			return nil, err
		}
	}
	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if !opts.Verbose {
		logger.SetLevel(settings.LogLevel)
	}

	svc := &cli.Services{Settings: settingsService, App: settings}
	if opts.SettingsOnly {
		return svc, nil
	}

	if opts.RequireLLM {
		if err := services.ValidateSettings(settings); err != nil {
			return nil, err
		}
	}

	aiResult, err := ai.Init(ctx, settings, opts.RequireLLM)
	if err != nil {
		return nil, err
	}
	for _, w := range aiResult.Warnings {
		logger.Warn("%s", w)
	}

	store, err := storage.OpenVectorStore(ctx, settings.VectorStore)
	if err != nil {
		aiResult.Close()
		return nil, err
	}
	guard := services.NewVectorGuard(store)

	source := filesystem.New(settings.Portfolio.DataPath)
	textChunker := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	classifier := services.NewClassifier()

	svc.Index = services.NewIndexService(
		source, markdown.New(), textChunker, aiResult.EmbeddingService, guard,
		services.WithHealthLLM(aiResult.LLMService),
	)
	svc.Search = services.NewSearchService(guard, aiResult.EmbeddingService)
	svc.Classifier = classifier
	svc.Watcher = source
	svc.Close = func() {
		if err := guard.Close(); err != nil {
			logger.Warn("Closing vector store: %v", err)
		}
		aiResult.Close()
	}

	if aiResult.LLMService == nil {
		return svc, nil
	}

	prompts, err := file.NewPromptStore(filepath.Join(dir, promptsDir))
	if err != nil {
		svc.Close()
		return nil, err
	}
	owner := settings.Portfolio.OwnerName
	retrieval := services.NewRetrievalService(guard, aiResult.EmbeddingService, classifier, settings.Retrieval.K)
	generator := services.NewGenerator(aiResult.LLMService, prompts, owner)
	sessions := services.NewSessionService(
		memory.NewSessionStore(settings.Session.Timeout),
		classifier,
		services.WithOwnerName(owner),
	)
	svc.Chat = services.NewChatService(sessions, retrieval, generator)

	return svc, nil
}
