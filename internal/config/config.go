package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	LLM    LLMConfig
	OCR    OCRConfig
	Output OutputConfig
	S3     S3Config
	Batch  BatchConfig
	Queue  QueueConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig holds model extraction provider settings.
type LLMConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	MaxRetries  int    `mapstructure:"max_retries"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	BackoffSecs int    `mapstructure:"backoff_secs"`
	PromptsDir  string `mapstructure:"prompts_dir"`
}

// OCRConfig holds text extraction settings.
type OCRConfig struct {
	Languages []string `mapstructure:"languages"`
}

// OutputConfig holds extraction result output settings.
type OutputConfig struct {
	Dir     string `mapstructure:"dir"`
	Backend string `mapstructure:"backend"`
}

// S3Config holds AWS S3 settings for the S3 result backend.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// BatchConfig holds batch extraction settings.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the DOCIQ_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 20)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// LLM defaults
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.timeout_secs", 120)
	v.SetDefault("llm.backoff_secs", 1)
	v.SetDefault("llm.prompts_dir", "prompts")

	// OCR defaults
	v.SetDefault("ocr.languages", "eng")

	// Output defaults
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.backend", "file")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "dociq-results")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.key_prefix", "results/")

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 2)
	v.SetDefault("queue.concurrency", 4)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "DOCIQ_SERVER_PORT",
		"server.read_timeout":      "DOCIQ_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "DOCIQ_SERVER_WRITE_TIMEOUT",
		"server.environment":       "DOCIQ_SERVER_ENVIRONMENT",
		"server.max_upload_mb":     "DOCIQ_SERVER_MAX_UPLOAD_MB",
		"log.level":                "DOCIQ_LOG_LEVEL",
		"log.format":               "DOCIQ_LOG_FORMAT",
		"llm.provider":             "DOCIQ_LLM_PROVIDER",
		"llm.api_key":              "DOCIQ_LLM_API_KEY",
		"llm.model":                "DOCIQ_LLM_MODEL",
		"llm.max_retries":          "DOCIQ_LLM_MAX_RETRIES",
		"llm.timeout_secs":         "DOCIQ_LLM_TIMEOUT_SECS",
		"llm.backoff_secs":         "DOCIQ_LLM_BACKOFF_SECS",
		"llm.prompts_dir":          "DOCIQ_LLM_PROMPTS_DIR",
		"ocr.languages":            "DOCIQ_OCR_LANGUAGES",
		"output.dir":               "DOCIQ_OUTPUT_DIR",
		"output.backend":           "DOCIQ_OUTPUT_BACKEND",
		"s3.region":                "DOCIQ_S3_REGION",
		"s3.bucket":                "DOCIQ_S3_BUCKET",
		"s3.endpoint":              "DOCIQ_S3_ENDPOINT",
		"s3.access_key":            "DOCIQ_S3_ACCESS_KEY",
		"s3.secret_key":            "DOCIQ_S3_SECRET_KEY",
		"s3.key_prefix":            "DOCIQ_S3_KEY_PREFIX",
		"batch.concurrency":        "DOCIQ_BATCH_CONCURRENCY",
		"queue.poll_interval_secs": "DOCIQ_QUEUE_POLL_INTERVAL_SECS",
		"queue.concurrency":        "DOCIQ_QUEUE_CONCURRENCY",
		"cors.allowed_origins":     "DOCIQ_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DOCIQ_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCIQ_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.LLM = LLMConfig{
		Provider:    v.GetString("llm.provider"),
		APIKey:      v.GetString("llm.api_key"),
		Model:       v.GetString("llm.model"),
		MaxRetries:  v.GetInt("llm.max_retries"),
		TimeoutSecs: v.GetInt("llm.timeout_secs"),
		BackoffSecs: v.GetInt("llm.backoff_secs"),
		PromptsDir:  v.GetString("llm.prompts_dir"),
	}
	cfg.OCR = OCRConfig{
		Languages: splitCSV(v.GetString("ocr.languages")),
	}
	cfg.Output = OutputConfig{
		Dir:     v.GetString("output.dir"),
		Backend: v.GetString("output.backend"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		KeyPrefix: v.GetString("s3.key_prefix"),
	}
	cfg.Batch = BatchConfig{
		Concurrency: v.GetInt("batch.concurrency"),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitCSV(v.GetString("cors.allowed_origins")),
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
