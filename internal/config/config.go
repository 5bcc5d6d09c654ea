package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr         string        `yaml:"addr"`
	APIToken     string        `yaml:"api_token"`
	APITimeout   time.Duration `yaml:"timeout"`
	DatabasePath string        `yaml:"database_path"`

	EngineConfig    EngineConfig    `yaml:"engine"`
	OllamaConfig    OllamaConfig    `yaml:"ollama"`
	StorageConfig   StorageConfig   `yaml:"storage"`
	FloCareerConfig FloCareerConfig `yaml:"flocareer"`
	ExportConfig    ExportConfig    `yaml:"export"`
}

type EngineConfig struct {
	Model           string        `yaml:"model"`
	Timeout         time.Duration `yaml:"timeout"`
	TemplateVersion string        `yaml:"template_version"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Bucket        string `yaml:"bucket"`
	Folder        string `yaml:"folder"`
	UseSSL        bool   `yaml:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type FloCareerConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type ExportConfig struct {
	// MaxFieldLength truncates question/answer text in exports when > 0.
	MaxFieldLength int `yaml:"max_field_length"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:         getEnv("JDQNA_ADDR", ":8080"),
		APIToken:     getEnv("JDQNA_API_TOKEN", ""),
		APITimeout:   30 * time.Second,
		DatabasePath: getEnv("JDQNA_DATABASE_PATH", "jdqna.db"),
		EngineConfig: EngineConfig{
			Model:           getEnv("JDQNA_MODEL", "llama3"),
			Timeout:         60 * time.Second,
			TemplateVersion: "v1",
		},
		OllamaConfig: OllamaConfig{
			BaseURL:                 getEnv("JDQNA_OLLAMA_URL", "http://localhost:11434"),
			Timeout:                 60 * time.Second,
			Retries:                 0,
			Backoff:                 500 * time.Millisecond,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
		StorageConfig: StorageConfig{
			Endpoint:  getEnv("JDQNA_S3_ENDPOINT", ""),
			AccessKey: getEnv("JDQNA_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("JDQNA_S3_SECRET_KEY", ""),
			Bucket:    getEnv("JDQNA_S3_BUCKET", "jd-qna"),
			Folder:    getEnv("JDQNA_S3_FOLDER", "uploads"),
		},
		FloCareerConfig: FloCareerConfig{
			BaseURL: getEnv("JDQNA_FLOCAREER_URL", ""),
			APIKey:  getEnv("JDQNA_FLOCAREER_KEY", ""),
			Timeout: 30 * time.Second,
		},
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.EngineConfig.Model == "" {
		return fmt.Errorf("engine model is required")
	}
	if c.APIToken == "" && getEnv("JDQNA_ENV", "development") != "development" {
		return fmt.Errorf("api_token is required outside development")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
