// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Configuration is the full service configuration, grouped by concern.
type Configuration struct {
	Service       ServiceConfig
	STT           STTConfig
	Separation    SeparationConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds the HTTP surface and upload handling settings.
type ServiceConfig struct {
	Principal      string
	HTTPPort       string
	UploadDir      string
	MaxUploadBytes int64
}

// STTConfig selects and tunes the speech recognition backend.
type STTConfig struct {
	Provider        string // fasterwhisper, google, mock
	Model           string
	Device          string // auto, cpu, cuda
	BeamSize        int
	Language        string
	InitialPrompt   string
	VADMinSilenceMS int
	Python          string

	// Google Cloud Speech settings.
	LanguageCode    string
	SampleRateHz    int
	AudioEncoding   string
	CredentialsFile string
}

// SeparationConfig tunes the vocal separation preprocessor.
type SeparationConfig struct {
	DefaultEnabled bool
	Binary         string
	Model          string
	ModelsDir      string
	TempDir        string
	MaxAge         time.Duration
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	TopicCompleted string
	TopicFailed    string
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string
	LogFormat   string // json, console
	MetricsPort string
}

// Load reads the configuration from the environment, applying defaults for
// anything unset.
func Load() *Configuration {
	return &Configuration{
		Service: ServiceConfig{
			Principal:      envOrDefault("SERVICE_PRINCIPAL", "svc-subtitle-gen"),
			HTTPPort:       envOrDefault("HTTP_PORT", "8002"),
			UploadDir:      envOrDefault("UPLOAD_DIR", "uploads"),
			MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 512*1024*1024),
		},
		STT: STTConfig{
			Provider:        envOrDefault("STT_PROVIDER", "fasterwhisper"),
			Model:           envOrDefault("STT_MODEL", "large-v2"),
			Device:          envOrDefault("STT_DEVICE", "auto"),
			BeamSize:        envInt("STT_BEAM_SIZE", 5),
			Language:        envOrDefault("STT_LANGUAGE", "zh"),
			InitialPrompt:   envOrDefault("STT_INITIAL_PROMPT", "请用简体中文转录，不要用繁体中文转录"),
			VADMinSilenceMS: envInt("STT_VAD_MIN_SILENCE_MS", 500),
			Python:          envOrDefault("STT_PYTHON", "python3"),
			LanguageCode:    envOrDefault("STT_LANGUAGE_CODE", "zh-CN"),
			SampleRateHz:    envInt("STT_SAMPLE_RATE_HZ", 16000),
			AudioEncoding:   envOrDefault("STT_AUDIO_ENCODING", "LINEAR16"),
			CredentialsFile: os.Getenv("STT_CREDENTIALS_FILE"),
		},
		Separation: SeparationConfig{
			DefaultEnabled: envBool("SEPARATION_DEFAULT_ENABLED", false),
			Binary:         envOrDefault("SEPARATION_BINARY", "audio-separator"),
			Model:          envOrDefault("SEPARATION_MODEL", "Kim_Vocal_2.onnx"),
			ModelsDir:      envOrDefault("SEPARATION_MODELS_DIR", "models"),
			TempDir:        envOrDefault("SEPARATION_TEMP_DIR", "temp_separation"),
			MaxAge:         envDuration("SEPARATION_MAX_AGE", 2*time.Hour),
		},
		Kafka: KafkaConfig{
			Enabled:        envBool("KAFKA_ENABLED", false),
			Brokers:        envList("KAFKA_BROKERS"),
			TopicCompleted: envOrDefault("KAFKA_TOPIC_COMPLETED", "subtitle.completed"),
			TopicFailed:    envOrDefault("KAFKA_TOPIC_FAILED", "subtitle.failed"),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "json"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
