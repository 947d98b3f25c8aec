// README: Config loader with env defaults for HTTP, Firebase, AI, Postgres quota and Redis cache.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

type AIConfig struct {
	GeminiKey    string
	Model        string
	MonthlyQuota int
	CacheTTL     time.Duration
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Log struct {
		Level string
	}
	Store    string
	Seed     bool
	Firebase struct {
		ProjectID       string
		CredentialsFile string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	AI AIConfig
}

// Load reads configuration from the environment. Postgres, Redis and Gemini are optional:
// an empty value disables the feature that needs them.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("STROLL_HTTP_ADDR", ":8080")
	v.SetDefault("STROLL_LOG_LEVEL", "info")
	v.SetDefault("STROLL_STORE", StoreFirestore)
	v.SetDefault("STROLL_SEED", false)
	v.SetDefault("STROLL_AI_MODEL", "gemini-2.5-flash")
	v.SetDefault("STROLL_AI_MONTHLY_QUOTA", 100)
	v.SetDefault("STROLL_AI_CACHE_TTL", "10m")

	var cfg Config
	cfg.HTTP.Addr = v.GetString("STROLL_HTTP_ADDR")
	cfg.Log.Level = strings.ToLower(v.GetString("STROLL_LOG_LEVEL"))
	cfg.Store = strings.ToLower(v.GetString("STROLL_STORE"))
	cfg.Seed = v.GetBool("STROLL_SEED")
	cfg.Firebase.ProjectID = v.GetString("STROLL_FIREBASE_PROJECT_ID")
	cfg.Firebase.CredentialsFile = v.GetString("STROLL_FIREBASE_CREDENTIALS")
	cfg.DB.DSN = v.GetString("STROLL_DB_DSN")
	cfg.Redis.Addr = v.GetString("STROLL_REDIS_ADDR")
	cfg.AI.GeminiKey = v.GetString("GEMINI_API_KEY")
	cfg.AI.Model = v.GetString("STROLL_AI_MODEL")
	cfg.AI.MonthlyQuota = v.GetInt("STROLL_AI_MONTHLY_QUOTA")
	cfg.AI.CacheTTL = v.GetDuration("STROLL_AI_CACHE_TTL")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	// Firebase verifies ID tokens even when documents live in memory.
	if c.Firebase.ProjectID == "" {
		return fmt.Errorf("STROLL_FIREBASE_PROJECT_ID is required")
	}
	switch c.Store {
	case StoreFirestore, StoreMemory:
	default:
		return fmt.Errorf("unknown STROLL_STORE %q", c.Store)
	}
	if c.AI.MonthlyQuota < 0 {
		return fmt.Errorf("STROLL_AI_MONTHLY_QUOTA must be >= 0")
	}
	return nil
}
