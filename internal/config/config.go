package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/agenthands/concord/internal/core/contradiction"
	"github.com/agenthands/concord/internal/core/grouping"
	"github.com/agenthands/concord/internal/core/report"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config/config.toml"

type DetectionConfig struct {
	NameSimilarityThreshold float64             `toml:"name_similarity_threshold" validate:"gte=0,lte=1"`
	ContextOverlapThreshold float64             `toml:"context_overlap_threshold" validate:"gte=0,lte=1"`
	MaxBucketSize           int                 `toml:"max_bucket_size" validate:"gte=0"`
	NeighborhoodWindow      int                 `toml:"neighborhood_window" validate:"min=1"`
	ValueMaxLength          int                 `toml:"value_max_length" validate:"gte=0"`
	FAQCategories           []string            `toml:"faq_categories"`
	ExcludedCategories      []string            `toml:"excluded_categories"`
	Layers                  []string            `toml:"layers" validate:"dive,oneof=lexical fact procedural temporal"`
	FieldPriority           map[string][]string `toml:"field_priority" validate:"dive,dive,oneof=answer description content body richDescription richContent"`
}

type ServerConfig struct {
	Port string `toml:"port" validate:"required,numeric"`
	Mode string `toml:"mode" validate:"omitempty,oneof=debug release test"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ArchiveConfig struct {
	Path string `toml:"path"`
}

type LLMConfig struct {
	Provider string `toml:"provider" validate:"omitempty,oneof=openai claude anthropic gemini ollama"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type BriefConfig struct {
	Prompt    string `toml:"prompt"`
	MaxGroups int    `toml:"max_groups" validate:"gte=0"`
}

type LogConfig struct {
	Level       string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `toml:"development"`
}

type Config struct {
	Detection DetectionConfig `toml:"detection"`
	Server    ServerConfig    `toml:"server"`
	Memgraph  MemgraphConfig  `toml:"memgraph"`
	Archive   ArchiveConfig   `toml:"archive"`
	LLM       LLMConfig       `toml:"llm"`
	Brief     BriefConfig     `toml:"brief"`
	Log       LogConfig       `toml:"log"`
}

// DefaultDetection is the detection tuning used when nothing overrides it.
func DefaultDetection() DetectionConfig {
	priority := make(map[string][]string, len(grouping.DefaultCategoryPriority))
	for cat, fields := range grouping.DefaultCategoryPriority {
		priority[cat] = append([]string(nil), fields...)
	}
	return DetectionConfig{
		NameSimilarityThreshold: 0.8,
		ContextOverlapThreshold: contradiction.DefaultContextOverlap,
		MaxBucketSize:           500,
		NeighborhoodWindow:      20,
		ValueMaxLength:          report.DefaultValueMaxLength,
		FAQCategories:           append([]string(nil), grouping.DefaultFAQCategories...),
		ExcludedCategories:      append([]string(nil), grouping.DefaultExcludedCategories...),
		Layers:                  contradiction.AllLayers(),
		FieldPriority:           priority,
	}
}

// Default returns a complete configuration; every optional backend is off.
func Default() *Config {
	return &Config{
		Detection: DefaultDetection(),
		Server:    ServerConfig{Port: "8080", Mode: "release"},
		Brief:     BriefConfig{MaxGroups: 25},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads a TOML file over the defaults, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file '%s'", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse TOML")
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default (plus environment
// overrides) when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.ApplyEnv(os.LookupEnv)
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// ApplyEnv overrides connection settings from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set("PORT", &c.Server.Port)
	set("MEMGRAPH_URI", &c.Memgraph.URI)
	set("MEMGRAPH_USER", &c.Memgraph.User)
	set("MEMGRAPH_PASSWORD", &c.Memgraph.Password)
	set("LLM_PROVIDER", &c.LLM.Provider)
	set("LLM_MODEL", &c.LLM.Model)
	set("LLM_API_KEY", &c.LLM.APIKey)
	set("LLM_BASE_URL", &c.LLM.BaseURL)
	set("ARCHIVE_PATH", &c.Archive.Path)
	set("LOG_LEVEL", &c.Log.Level)
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
