package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type EmbeddingConfig struct {
	Model string `yaml:"model"`
}

type DocumentsConfig struct {
	Folder string `yaml:"folder"`
}

type CacheConfig struct {
	Folder string `yaml:"folder"`
}

type RetrievalConfig struct {
	ChunkSize      int `yaml:"chunk_size"`
	ChunkOverlap   int `yaml:"chunk_overlap"`
	MinChunkLength int `yaml:"min_chunk_length"`
	TopK           int `yaml:"top_k"`
}

type ServerConfig struct {
	StartupTimeout int `yaml:"startup_timeout"`
}

type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Documents DocumentsConfig `yaml:"documents"`
	Cache     CacheConfig     `yaml:"cache"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Server    ServerConfig    `yaml:"server"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/genai/config.yaml"),
			"/etc/genai/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "phi3:mini"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2000
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.7
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}

	if config.Embedding.Model == "" {
		config.Embedding.Model = "all-minilm"
	}

	if config.Documents.Folder == "" {
		config.Documents.Folder = "documents"
	}
	if config.Cache.Folder == "" {
		config.Cache.Folder = "cache"
	}

	if config.Retrieval.ChunkSize == 0 {
		config.Retrieval.ChunkSize = 500
	}
	if config.Retrieval.ChunkOverlap == 0 {
		config.Retrieval.ChunkOverlap = 50
	}
	if config.Retrieval.MinChunkLength == 0 {
		config.Retrieval.MinChunkLength = 50
	}
	if config.Retrieval.TopK == 0 {
		config.Retrieval.TopK = 3
	}

	if config.Server.StartupTimeout == 0 {
		config.Server.StartupTimeout = 30
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if folder := os.Getenv("GENAI_DOCUMENTS_DIR"); folder != "" {
		config.Documents.Folder = folder
	}
	if folder := os.Getenv("GENAI_CACHE_DIR"); folder != "" {
		config.Cache.Folder = folder
	}
}
