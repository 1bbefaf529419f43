package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the application's configuration
type Config struct {
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	WebPort           int           `mapstructure:"WEB_PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	CorpusPath        string        `mapstructure:"CORPUS_PATH"`
	EmbeddingLLMHost  string        `mapstructure:"EMBEDDING_LLM_HOST"`
	MainLLMHost       string        `mapstructure:"MAIN_LLM_HOST"`
	LLMRequestTimeout time.Duration `mapstructure:"LLM_REQUEST_TIMEOUT"`
	MaxRetries        int           `mapstructure:"MAX_RETRIES"`

	// Ranking parameters. Defaults are the empirically tuned production
	// values; they are surfaced here instead of being hardcoded in the engine.
	RankResults              int     `mapstructure:"RANK_RESULTS"`
	MinStructuredCandidates  int     `mapstructure:"MIN_STRUCTURED_CANDIDATES"`
	StructuredLineWeight     float64 `mapstructure:"STRUCTURED_LINE_WEIGHT"`
	StructuredLocationWeight float64 `mapstructure:"STRUCTURED_LOCATION_WEIGHT"`
	StructuredProblemWeight  float64 `mapstructure:"STRUCTURED_PROBLEM_WEIGHT"`
	StructuredKeywordWeight  float64 `mapstructure:"STRUCTURED_KEYWORD_WEIGHT"`
	StructuredScoreFloor     float64 `mapstructure:"STRUCTURED_SCORE_FLOOR"`
	EmbeddingMatchThreshold  float64 `mapstructure:"EMBEDDING_MATCH_THRESHOLD"`
	EmbeddingExactThreshold  float64 `mapstructure:"EMBEDDING_EXACT_THRESHOLD"`
	LexicalMatchThreshold    float64 `mapstructure:"LEXICAL_MATCH_THRESHOLD"`
	EmbeddingBoostWeight     float64 `mapstructure:"EMBEDDING_BOOST_WEIGHT"`
	LexicalBoostWeight       float64 `mapstructure:"LEXICAL_BOOST_WEIGHT"`

	// Response cache and conversation memory.
	CacheMaxEntries  int           `mapstructure:"CACHE_MAX_ENTRIES"`
	CacheTTL         time.Duration `mapstructure:"CACHE_TTL_MINUTES"`
	HistoryMaxTurns  int           `mapstructure:"HISTORY_MAX_TURNS"`
	SessionCacheSize int           `mapstructure:"SESSION_CACHE_SIZE"`

	// Per-session inquiry rate limiting at the API edge.
	RateLimitInquiriesPerMin int `mapstructure:"RATE_LIMIT_INQUIRIES_PER_MIN"`
	RateLimitBurstSize       int `mapstructure:"RATE_LIMIT_BURST_SIZE"`

	// Validator thresholds.
	MinResponseLength  int     `mapstructure:"MIN_RESPONSE_LENGTH"`
	HebrewRatioMinimum float64 `mapstructure:"HEBREW_RATIO_MINIMUM"`

	// Line numbers accepted by the registry on top of those derived from the
	// corpus (e.g. new lines that have no inquiry history yet).
	ExtraValidLines []int `mapstructure:"EXTRA_VALID_LINES"`

	// EnableFixtureCorpus serves a small built-in corpus when loading the real
	// one fails. Demo/test convenience only; never enable in production.
	EnableFixtureCorpus bool `mapstructure:"ENABLE_FIXTURE_CORPUS"`
}

func Load(logger *zap.Logger) *Config {
	var config Config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")        // For running locally
	viper.AddConfigPath("./config") // Common config folder
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("WEB_PORT", 8090)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("CORPUS_PATH", "data/corpus.json")
	viper.SetDefault("EMBEDDING_LLM_HOST", "http://localhost:8081")
	viper.SetDefault("MAIN_LLM_HOST", "http://localhost:8080")
	viper.SetDefault("LLM_REQUEST_TIMEOUT", 120)
	viper.SetDefault("MAX_RETRIES", 3)
	viper.SetDefault("RANK_RESULTS", 3)
	viper.SetDefault("MIN_STRUCTURED_CANDIDATES", 3)
	viper.SetDefault("STRUCTURED_LINE_WEIGHT", 0.4)
	viper.SetDefault("STRUCTURED_LOCATION_WEIGHT", 0.3)
	viper.SetDefault("STRUCTURED_PROBLEM_WEIGHT", 0.2)
	viper.SetDefault("STRUCTURED_KEYWORD_WEIGHT", 0.1)
	viper.SetDefault("STRUCTURED_SCORE_FLOOR", 0.15)
	viper.SetDefault("EMBEDDING_MATCH_THRESHOLD", 0.78)
	viper.SetDefault("EMBEDDING_EXACT_THRESHOLD", 0.85)
	viper.SetDefault("LEXICAL_MATCH_THRESHOLD", 0.2)
	viper.SetDefault("EMBEDDING_BOOST_WEIGHT", 0.1)
	viper.SetDefault("LEXICAL_BOOST_WEIGHT", 0.3)
	viper.SetDefault("CACHE_MAX_ENTRIES", 200)
	viper.SetDefault("CACHE_TTL_MINUTES", 60)
	viper.SetDefault("HISTORY_MAX_TURNS", 5)
	viper.SetDefault("SESSION_CACHE_SIZE", 512)
	viper.SetDefault("RATE_LIMIT_INQUIRIES_PER_MIN", 20)
	viper.SetDefault("RATE_LIMIT_BURST_SIZE", 5)
	viper.SetDefault("MIN_RESPONSE_LENGTH", 100)
	viper.SetDefault("HEBREW_RATIO_MINIMUM", 0.7)
	viper.SetDefault("EXTRA_VALID_LINES", []int{})
	viper.SetDefault("ENABLE_FIXTURE_CORPUS", false)

	if err := viper.ReadInConfig(); err != nil {
		if logger != nil {
			logger.Warn("Could not read config file, using defaults/env vars", zap.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		// Config unmarshaling is critical - fail fast during bootstrap
		if logger != nil {
			logger.Fatal("Unable to decode config into struct", zap.Error(err))
		} else {
			// Fallback if logger not available (should not happen in practice)
			fmt.Fprintf(os.Stderr, "FATAL: Unable to decode config into struct: %v\n", err)
			os.Exit(1)
		}
	}

	// Convert seconds/minutes to proper time.Duration
	config.LLMRequestTimeout = config.LLMRequestTimeout * time.Second
	config.CacheTTL = config.CacheTTL * time.Minute

	return &config
}
