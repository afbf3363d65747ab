package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	DBPath             string
	DocsDir            string
	QdrantURL          string
	QdrantCollection   string
	VectorSize         int
	ChunkTargetSize    int
	ChunkOverlap       int
	IngestDelay        time.Duration
	MatchCount         int
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string
}

// Load reads configuration from environment variables and returns a Config
// struct. It applies defaults for optional fields and validates required
// fields. If a .env file exists in the current directory or a parent
// directory, it is loaded first; variables already set in the environment
// take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up a few levels so the binary can be started from cmd/ dirs.
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "gemini-2.5-flash"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		DBPath:             getEnv("DB_PATH", "./data/chunks.db"),
		DocsDir:            getEnv("DOCS_DIR", "./pdfs"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "documents"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	// VECTOR_SIZE must match the output dimension of the embedding model.
	// text-embedding-004 produces 768-dimensional vectors. If the model
	// changes, the Qdrant collection must be recreated and the store
	// reindexed.
	vectorSize, err := getEnvInt("VECTOR_SIZE", 768)
	if err != nil {
		return nil, err
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("VECTOR_SIZE must be greater than 0")
	}
	cfg.VectorSize = vectorSize

	// Chunking knobs. Larger targets produce fewer, more context-rich
	// chunks at the cost of retrieval precision.
	if cfg.ChunkTargetSize, err = getEnvInt("CHUNK_TARGET_SIZE", 3000); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 500); err != nil {
		return nil, err
	}
	if cfg.ChunkTargetSize <= 0 {
		return nil, fmt.Errorf("CHUNK_TARGET_SIZE must be greater than 0")
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkTargetSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_TARGET_SIZE)")
	}

	delayMs, err := getEnvInt("INGEST_DELAY_MS", 500)
	if err != nil {
		return nil, err
	}
	if delayMs < 0 {
		return nil, fmt.Errorf("INGEST_DELAY_MS must not be negative")
	}
	cfg.IngestDelay = time.Duration(delayMs) * time.Millisecond

	if cfg.MatchCount, err = getEnvInt("MATCH_COUNT", 15); err != nil {
		return nil, err
	}
	if cfg.MatchCount <= 0 {
		return nil, fmt.Errorf("MATCH_COUNT must be greater than 0")
	}

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json")
	}

	// Create the data directory for the SQLite file if needed.
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}
