package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by MAILMAP_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("MAILMAP_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

// LLMProvider returns the configured classifier provider.
// Defaults to "openai" if not set. Valid values: openai, anthropic, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// LLMAPIKey returns the API key for the configured classifier provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// GoogleCredentialsFile is the path to the OAuth client credentials JSON.
func GoogleCredentialsFile() string {
	return os.Getenv("GOOGLE_CREDENTIALS_FILE")
}

// GoogleTokenFile is the path to a cached OAuth token JSON.
func GoogleTokenFile() string {
	return os.Getenv("GOOGLE_TOKEN_FILE")
}

// ScanBatchSize returns how many emails are classified per batch.
// Defaults to 50 if not set.
func ScanBatchSize() int {
	n, err := strconv.Atoi(os.Getenv("SCAN_BATCH_SIZE"))
	if err != nil || n <= 0 {
		return 50
	}
	return n
}

// ScanBatchDelay returns the pause between batches and between days,
// used to stay under external API rate limits. Defaults to 500ms.
func ScanBatchDelay() time.Duration {
	ms, err := strconv.Atoi(os.Getenv("SCAN_BATCH_DELAY_MS"))
	if err != nil || ms < 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// ScanMaxEmailsPerDay caps how many emails are fetched for a single
// calendar day. Defaults to 100.
func ScanMaxEmailsPerDay() int {
	n, err := strconv.Atoi(os.Getenv("SCAN_MAX_EMAILS_PER_DAY"))
	if err != nil || n <= 0 {
		return 100
	}
	return n
}

// ScanWindowDays returns how far back the scan reaches when the caller
// does not supply an explicit date range. Defaults to 365.
func ScanWindowDays() int {
	n, err := strconv.Atoi(os.Getenv("SCAN_WINDOW_DAYS"))
	if err != nil || n <= 0 {
		return 365
	}
	return n
}

// AutoSyncEnabled controls whether discovered people and action items are
// pushed to the external contact/task stores during the scan.
func AutoSyncEnabled() bool {
	v, err := strconv.ParseBool(os.Getenv("AUTO_SYNC_ENABLED"))
	if err != nil {
		return false
	}
	return v
}

// TaskListName is the external task list that discovered action items are
// synced into. Defaults to "Mailmap Follow-ups".
func TaskListName() string {
	name := os.Getenv("TASK_LIST_NAME")
	if name == "" {
		return "Mailmap Follow-ups"
	}
	return name
}

// SyncCallDelay returns the pause between individual external sync calls.
// Defaults to 300ms.
func SyncCallDelay() time.Duration {
	ms, err := strconv.Atoi(os.Getenv("SYNC_CALL_DELAY_MS"))
	if err != nil || ms < 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// FeedbackPath is where the feedback store persists its JSONL file.
func FeedbackPath() string {
	p := os.Getenv("FEEDBACK_PATH")
	if p == "" {
		return "feedback.jsonl"
	}
	return p
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}
