package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries all deployment knobs. Values come from the environment, with
// an optional .env file for local development.
type Config struct {
	Port        string
	DatabaseURL string

	// Language-generation capability (OpenAI-compatible; DeepSeek et al. via
	// base URL override).
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Research capability.
	PerplexityAPIKey string
	PerplexityModel  string

	// Hard cap on questioning turns per conversation.
	FailsafeQuestionLimit int
	// Hard cap on internal routing steps per invocation.
	MaxRoutingSteps int

	// Artificial delay before each capability call.
	GenerateThrottle time.Duration
	ResearchThrottle time.Duration
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),

		PerplexityAPIKey: os.Getenv("PERPLEXITY_API_KEY"),
		PerplexityModel:  os.Getenv("PERPLEXITY_MODEL"),

		FailsafeQuestionLimit: getenvInt("FAILSAFE_QUESTION_LIMIT", 10),
		MaxRoutingSteps:       getenvInt("MAX_ROUTING_STEPS", 10),

		GenerateThrottle: getenvDuration("GENERATE_THROTTLE", time.Second),
		ResearchThrottle: getenvDuration("RESEARCH_THROTTLE", 2*time.Second),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
