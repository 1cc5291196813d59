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


package psenrich

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/psenrich/ai"
	"github.com/poiesic/psenrich/ai/gemini"
	"github.com/poiesic/psenrich/ai/openai"
	"github.com/poiesic/psenrich/catalog"
	"github.com/poiesic/psenrich/core"
	"github.com/poiesic/psenrich/enrichment"
	"github.com/poiesic/psenrich/storage"
	"github.com/poiesic/psenrich/storage/badger"
)

// Database wires the record store and the AI provider together.
type Database struct {
	backend     *badger.Backend
	problemRepo *badger.ProblemRepository
	runRepo     *badger.RunRepository
	provider    ai.AIProvider
	logger      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the configuration used to build the AI provider.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses provider instead of building one from the AI config.
// The Database takes ownership and closes it.
func WithProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all records in memory. The path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// NewDatabase opens the record store at filePath and builds the AI provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory, options.logger)
	if err != nil {
		return nil, err
	}

	// Create problem repository
	problemRepo, err := badger.NewProblemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create run repository
	runRepo := badger.NewRunRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = newProvider(options.aiConfig)
		if err != nil {
			problemRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:     backend,
		problemRepo: problemRepo,
		runRepo:     runRepo,
		provider:    provider,
		logger:      options.logger.With("component", "database"),
	}, nil
}

func newProvider(config *ai.Config) (ai.AIProvider, error) {
	if config == nil {
		config = ai.DefaultConfig()
	}
	config.Normalize()
	switch config.Provider {
	case ai.ProviderGemini:
		return gemini.NewProvider(context.Background(), config)
	default:
		return openai.NewProvider(config)
	}
}

// Close releases the provider, the repositories and the backend, in that order.
func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.problemRepo.Close(); err != nil {
		db.logger.Error("error closing problem repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) ProblemRepository() storage.ProblemRepository {
	return db.problemRepo
}

func (db *Database) RunRepository() storage.RunRepository {
	return db.runRepo
}

// NewPipeline creates an enrichment pipeline over this database.
func (db *Database) NewPipeline(opts ...enrichment.Option) (*enrichment.Pipeline, error) {
	opts = append([]enrichment.Option{enrichment.WithLogger(db.logger)}, opts...)
	return enrichment.NewPipeline(db.problemRepo, db.provider.Analyzer(), opts...)
}

// EnrichFile loads the catalog at path and enriches every candidate in it.
// A catalog that cannot be loaded fails before anything is processed.
// The run is recorded as the latest batch run.
func (db *Database) EnrichFile(ctx context.Context, path string, opts ...enrichment.Option) (*enrichment.RunSummary, error) {
	candidates, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	pipeline, err := db.NewPipeline(opts...)
	if err != nil {
		return nil, err
	}

	summary := pipeline.ProcessBatch(ctx, candidates)
	if err := db.runRepo.SaveRun(context.WithoutCancel(ctx), summary.RunRecord()); err != nil {
		return summary, fmt.Errorf("save run: %w", err)
	}
	return summary, nil
}

// EnrichOne enriches the single candidate with the given external id from
// the catalog at path.
func (db *Database) EnrichOne(ctx context.Context, path, externalID string, opts ...enrichment.Option) (*enrichment.RunSummary, error) {
	candidates, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	pipeline, err := db.NewPipeline(opts...)
	if err != nil {
		return nil, err
	}

	summary, err := pipeline.RunSingle(ctx, externalID, candidates)
	if err != nil {
		return nil, err
	}
	if err := db.runRepo.SaveRun(context.WithoutCancel(ctx), summary.RunRecord()); err != nil {
		return summary, fmt.Errorf("save run: %w", err)
	}
	return summary, nil
}

// Status describes the contents of the store.
type Status struct {
	Records    int
	LastBatch  *core.RunRecord
	LastSingle *core.RunRecord
}

// Status reports the record count and the latest run of each mode.
func (db *Database) Status(ctx context.Context) (*Status, error) {
	count, err := db.problemRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	batch, err := db.runRepo.LastRun(ctx, core.RunModeBatch)
	if err != nil {
		return nil, err
	}
	single, err := db.runRepo.LastRun(ctx, core.RunModeSingle)
	if err != nil {
		return nil, err
	}
	return &Status{Records: count, LastBatch: batch, LastSingle: single}, nil
}

// Stale lists stored records whose catalog entry at path has changed since
// they were enriched.
func (db *Database) Stale(ctx context.Context, path string) ([]string, error) {
	candidates, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	pipeline, err := db.NewPipeline(enrichment.WithPacing(0))
	if err != nil {
		return nil, err
	}
	return pipeline.Stale(ctx, candidates)
}
