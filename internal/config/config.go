package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// OracleConfig controls how the judgment oracle is called. Prompt templates
// receive claim, passage, domain, published_at and retriever (in that order).
type OracleConfig struct {
	JudgePrompt       string   `toml:"judge_prompt"`
	MaxRetries        int      `toml:"max_retries"`
	CallTimeout       Duration `toml:"call_timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	CacheTTL          Duration `toml:"cache_ttl"`
}

// ExtractionPrompts override the built-in claim, query and answer prompts.
type ExtractionPrompts struct {
	Claims  string `toml:"claims"`
	Queries string `toml:"queries"`
	Answer  string `toml:"answer"`
}

// ScoringConfig holds the ScoreCombiner weights and aggregation knobs.
// The weights are the canonical final-aggregation set; the older
// 0.45/0.30/0.15/0.10 per-evidence set is not supported.
type ScoringConfig struct {
	NLIWeight          float64 `toml:"nli_weight"`
	StanceWeight       float64 `toml:"stance_weight"`
	CredibilityWeight  float64 `toml:"credibility_weight"`
	TemporalWeight     float64 `toml:"temporal_weight"`
	RelevanceThreshold float64 `toml:"relevance_threshold"`
	MaxPrimarySources  int     `toml:"max_primary_sources"`
	CredibilityBoost   float64 `toml:"credibility_boost"`
}

// RelevanceConfig picks the claim/evidence relevance classifier: "lexical",
// "embedding" or "llm". The lexical threshold is scoring.relevance_threshold.
type RelevanceConfig struct {
	Mode               string  `toml:"mode"`
	EmbeddingThreshold float64 `toml:"embedding_threshold"`
}

type RetrievalConfig struct {
	MaxQueries      int      `toml:"max_queries"`
	MaxPerQuery     int      `toml:"max_per_query"`
	PerQueryTimeout Duration `toml:"per_query_timeout"`
}

type ConcurrencyConfig struct {
	Oracle int `toml:"oracle"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	Redis       RedisConfig       `toml:"redis"`
	Oracle      OracleConfig      `toml:"oracle"`
	Extraction  ExtractionPrompts `toml:"extraction"`
	Scoring     ScoringConfig     `toml:"scoring"`
	Relevance   RelevanceConfig   `toml:"relevance"`
	Retrieval   RetrievalConfig   `toml:"retrieval"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
}

// Duration lets TOML files carry "20s"-style values.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a complete configuration. Empty prompt templates mean the
// built-in prompts are used.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "gpt-oss:latest",
			BaseURL:  "http://localhost:11434",
		},
		Oracle: OracleConfig{
			MaxRetries:  2,
			CallTimeout: Duration{20 * time.Second},
			CacheTTL:    Duration{24 * time.Hour},
		},
		Scoring: ScoringConfig{
			NLIWeight:          0.45,
			StanceWeight:       0.30,
			CredibilityWeight:  0.20,
			TemporalWeight:     0.05,
			RelevanceThreshold: 0.25,
			MaxPrimarySources:  8,
			CredibilityBoost:   0.2,
		},
		Relevance: RelevanceConfig{
			Mode:               "lexical",
			EmbeddingThreshold: 0.55,
		},
		Retrieval: RetrievalConfig{
			MaxQueries:      6,
			MaxPerQuery:     8,
			PerQueryTimeout: Duration{30 * time.Second},
		},
		Concurrency: ConcurrencyConfig{
			Oracle: 8,
		},
	}
}

// Load reads a TOML file on top of Default, so a partial file keeps the
// defaults for everything it omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when present.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		c.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("RELEVANCE_MODE"); v != "" {
		c.Relevance.Mode = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("ORACLE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Oracle.MaxRetries = n
		}
	}
}

func (c *Config) Validate() error {
	s := c.Scoring
	for name, w := range map[string]float64{
		"nli_weight":         s.NLIWeight,
		"stance_weight":      s.StanceWeight,
		"credibility_weight": s.CredibilityWeight,
		"temporal_weight":    s.TemporalWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("scoring.%s must be within [0,1], got %v", name, w)
		}
	}
	sum := s.NLIWeight + s.StanceWeight + s.CredibilityWeight + s.TemporalWeight
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	if s.RelevanceThreshold < 0 || s.RelevanceThreshold > 1 {
		return fmt.Errorf("scoring.relevance_threshold must be within [0,1], got %v", s.RelevanceThreshold)
	}
	switch c.Relevance.Mode {
	case "", "lexical", "embedding", "llm":
	default:
		return fmt.Errorf("relevance.mode must be lexical, embedding or llm, got %q", c.Relevance.Mode)
	}
	if s.MaxPrimarySources <= 0 {
		return fmt.Errorf("scoring.max_primary_sources must be positive")
	}
	if c.Oracle.MaxRetries < 0 {
		return fmt.Errorf("oracle.max_retries must not be negative")
	}
	if c.Oracle.CallTimeout.Duration <= 0 {
		return fmt.Errorf("oracle.call_timeout must be positive")
	}
	if c.Retrieval.MaxQueries <= 0 || c.Retrieval.MaxPerQuery <= 0 {
		return fmt.Errorf("retrieval limits must be positive")
	}
	if c.Concurrency.Oracle <= 0 {
		return fmt.Errorf("concurrency.oracle must be positive")
	}
	return nil
}
