package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Knowledge KnowledgeConfig
	Embedder  EmbedderConfig
	RAG       RAGConfig
	Safety    SafetyConfig
	Database  DatabaseConfig
	JWT       JWTConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// KnowledgeConfig selects where knowledge base documents are discovered.
// Source is either "dir" (markdown files under Dir) or "postgres".
type KnowledgeConfig struct {
	Source     string
	Dir        string
	Extensions []string
}

type EmbedderConfig struct {
	Type      string        `yaml:"type"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"`
}

type RAGConfig struct {
	TopK         int     `yaml:"top_k"`
	MinScore     float64 `yaml:"min_score"`
	FloorEnabled bool    `yaml:"floor_enabled"`
	MaxTips      int     `yaml:"max_tips"`
	ExtractTips  bool    `yaml:"extract_tips"`
}

type SafetyConfig struct {
	ExtraCrisisTerms     []string `yaml:"extra_crisis_terms"`
	ExtraOutOfScopeTerms []string `yaml:"extra_out_of_scope_terms"`
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig enables bearer-token auth on the chat route when SecretKey is set.
type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

// fileOverlay is the subset of settings that may come from CONFIG_FILE.
// Pointers distinguish "not set in file" from zero values.
type fileOverlay struct {
	Embedder *struct {
		Type      *string        `yaml:"type"`
		BaseURL   *string        `yaml:"base_url"`
		Model     *string        `yaml:"model"`
		APIKeyEnv *string        `yaml:"api_key_env"`
		Timeout   *time.Duration `yaml:"timeout"`
	} `yaml:"embedder"`
	RAG *struct {
		TopK         *int     `yaml:"top_k"`
		MinScore     *float64 `yaml:"min_score"`
		FloorEnabled *bool    `yaml:"floor_enabled"`
		MaxTips      *int     `yaml:"max_tips"`
		ExtractTips  *bool    `yaml:"extract_tips"`
	} `yaml:"rag"`
	Safety *SafetyConfig `yaml:"safety"`
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work as well (Docker/K8s)
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "15"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	requestTimeout, _ := strconv.Atoi(getEnv("SERVER_REQUEST_TIMEOUT", "20"))
	embedTimeout, _ := strconv.Atoi(getEnv("EMBEDDER_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))

	topK, err := strconv.Atoi(getEnv("RAG_TOP_K", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid RAG_TOP_K: %w", err)
	}
	minScore, err := strconv.ParseFloat(getEnv("RAG_MIN_SCORE", "0.2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RAG_MIN_SCORE: %w", err)
	}
	maxTips, err := strconv.Atoi(getEnv("RAG_MAX_TIPS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid RAG_MAX_TIPS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8000"),
			ReadTimeout:    time.Duration(readTimeout) * time.Second,
			WriteTimeout:   time.Duration(writeTimeout) * time.Second,
			RequestTimeout: time.Duration(requestTimeout) * time.Second,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Knowledge: KnowledgeConfig{
			Source:     getEnv("KB_SOURCE", "dir"),
			Dir:        getEnv("KB_DIR", "data/kb"),
			Extensions: splitList(getEnv("KB_EXTENSIONS", ".md")),
		},
		Embedder: EmbedderConfig{
			Type:      getEnv("EMBEDDER_TYPE", "tfidf"),
			BaseURL:   getEnv("EMBEDDER_BASE_URL", ""),
			Model:     getEnv("EMBEDDER_MODEL", ""),
			APIKeyEnv: getEnv("EMBEDDER_API_KEY_ENV", "OPENAI_API_KEY"),
			Timeout:   time.Duration(embedTimeout) * time.Second,
		},
		RAG: RAGConfig{
			TopK:         topK,
			MinScore:     minScore,
			FloorEnabled: getEnv("RAG_FLOOR_ENABLED", "true") == "true",
			MaxTips:      maxTips,
			ExtractTips:  getEnv("RAG_EXTRACT_TIPS", "true") == "true",
		},
		Safety: SafetyConfig{
			ExtraCrisisTerms:     splitList(getEnv("SAFETY_EXTRA_CRISIS_TERMS", "")),
			ExtraOutOfScopeTerms: splitList(getEnv("SAFETY_EXTRA_OUT_OF_SCOPE_TERMS", "")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "finn_mini"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", ""),
			Expiration: time.Duration(jwtExp) * time.Hour,
		},
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyFile overlays settings from a YAML file onto cfg.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if e := overlay.Embedder; e != nil {
		setIf(&cfg.Embedder.Type, e.Type)
		setIf(&cfg.Embedder.BaseURL, e.BaseURL)
		setIf(&cfg.Embedder.Model, e.Model)
		setIf(&cfg.Embedder.APIKeyEnv, e.APIKeyEnv)
		setIf(&cfg.Embedder.Timeout, e.Timeout)
	}
	if r := overlay.RAG; r != nil {
		setIf(&cfg.RAG.TopK, r.TopK)
		setIf(&cfg.RAG.MinScore, r.MinScore)
		setIf(&cfg.RAG.FloorEnabled, r.FloorEnabled)
		setIf(&cfg.RAG.MaxTips, r.MaxTips)
		setIf(&cfg.RAG.ExtractTips, r.ExtractTips)
	}
	if s := overlay.Safety; s != nil {
		cfg.Safety.ExtraCrisisTerms = append(cfg.Safety.ExtraCrisisTerms, s.ExtraCrisisTerms...)
		cfg.Safety.ExtraOutOfScopeTerms = append(cfg.Safety.ExtraOutOfScopeTerms, s.ExtraOutOfScopeTerms...)
	}
	return nil
}

// DSN renders the libpq connection string for pgx.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
