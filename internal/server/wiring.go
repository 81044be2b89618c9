package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agenthands/veritas/internal/archive"
	"github.com/agenthands/veritas/internal/cache"
	"github.com/agenthands/veritas/internal/config"
	"github.com/agenthands/veritas/internal/core"
	"github.com/agenthands/veritas/internal/core/extraction"
	"github.com/agenthands/veritas/internal/core/relevance"
	"github.com/agenthands/veritas/internal/core/signal"
	"github.com/agenthands/veritas/internal/driver"
	"github.com/agenthands/veritas/internal/llm"
)

// NewServer builds every component from cfg. Redis and Memgraph are
// optional: when unset or unreachable the server runs without the judgment
// cache or the archive.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	llmClient, embedderClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	s := &Server{}

	var oracle signal.JudgmentOracle = signal.NewLLMOracle(llmClient, cfg.Oracle.JudgePrompt, cfg.Oracle.RequestsPerSecond)
	if cfg.Redis.Addr != "" {
		store := cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := store.Ping(ctx); err != nil {
			slog.Warn("redis unavailable, judgment cache disabled", "addr", cfg.Redis.Addr, "error", err)
			_ = store.Close()
		} else {
			oracle = signal.NewCachedOracle(oracle, store, cfg.Oracle.CacheTTL.Duration)
			s.closers = append(s.closers, func() { _ = store.Close() })
		}
	}

	extractor := signal.NewExtractor(oracle, cfg.Oracle.MaxRetries, cfg.Oracle.CallTimeout.Duration)
	verifier := core.NewVerifier(extractor, NewClassifier(cfg, llmClient, embedderClient), cfg)

	ex := extraction.NewExtractor(llmClient, cfg.Extraction)
	s.Verifier = verifier
	s.Pipeline = &core.Pipeline{
		Claimer:  ex,
		Queries:  ex,
		Answerer: ex,
		Verifier: verifier,
		Gather:   core.GatherOptionsFromConfig(cfg.Retrieval),
	}

	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			slog.Warn("memgraph unavailable, archive disabled", "uri", cfg.Memgraph.URI, "error", err)
		} else {
			_ = d.BuildIndices(ctx)
			s.Archive = archive.New(d)
			s.closers = append(s.closers, func() { _ = d.Close(context.Background()) })
		}
	}

	return s, nil
}

// NewClassifier picks the relevance classifier named by cfg.Relevance.Mode.
// Embedding mode needs an embedder and falls back to lexical without one.
func NewClassifier(cfg *config.Config, client llm.LLMClient, embedder llm.EmbedderClient) relevance.Classifier {
	lexical := relevance.NewLexical(cfg.Scoring.RelevanceThreshold)
	switch cfg.Relevance.Mode {
	case "embedding":
		if embedder == nil {
			slog.Warn("no embedder for the configured provider, using lexical relevance", "provider", cfg.LLM.Provider)
			return lexical
		}
		return relevance.NewEmbedding(embedder, cfg.Relevance.EmbeddingThreshold, lexical)
	case "llm":
		return relevance.NewLLMSelector(client, lexical)
	default:
		return lexical
	}
}
