package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Places
		Import
		Quota
		Audit
		Admin
		Maintenance
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
		HSTS bool // Send Strict-Transport-Security; enable only behind TLS
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Places struct {
		APIKey   string
		BaseURL  string
		Language string
		Timeout  time.Duration
	}
	Import struct {
		MaxCandidates     int
		CategoryRulesPath string // Optional YAML file replacing the built-in category table
	}
	Quota struct {
		DailyLimit  int
		Backend     string // "sqlite", "postgres" or "dynamodb"
		PostgresURL string
		DynamoTable string
		AWSRegion   string
	}
	Audit struct {
		Dir           string // Draft snapshots are written here when set
		RetentionDays int    // Days to keep audit events (default: 90)
	}
	Admin struct {
		TokenHash  string // bcrypt hash of the admin bearer token
		BcryptCost int
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = nightly at 03:00
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
		Retention       time.Duration

		// Single listing refresh queue
		RefreshAttempts int
		RefreshBackoff  time.Duration
		RefreshTimeout  time.Duration

		BulkRefreshTimeout time.Duration
	}
)

// NewConfig reads configuration from the environment, after loading a .env
// file from the working directory when one exists.
func NewConfig() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("hsts_enabled", false)
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Google Places defaults
	v.SetDefault("google_places_api_key", "")
	v.SetDefault("google_places_base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("google_places_language", "fr")
	v.SetDefault("google_places_timeout", "10s")

	// Import defaults
	// 0 returns every search hit in multiple mode
	v.SetDefault("import_max_candidates", 0)
	v.SetDefault("import_daily_limit", 90)
	v.SetDefault("category_rules_path", "")

	// Quota store defaults
	v.SetDefault("quota_backend", "sqlite")
	v.SetDefault("supabase_db_url", "")
	v.SetDefault("quota_dynamodb_table", "import_quota")
	v.SetDefault("aws_region", "ca-central-1")

	v.SetDefault("audit_dir", "")
	v.SetDefault("audit_retention_days", 90)

	v.SetDefault("admin_token_hash", "")
	v.SetDefault("admin_bcrypt_cost", 12)

	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", DefaultMaintenanceSchedule)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "10m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention", "24h")
	v.SetDefault("refresh_max_attempts", 3)
	v.SetDefault("refresh_backoff", "30s")
	v.SetDefault("refresh_timeout", "1m")
	v.SetDefault("bulk_refresh_timeout", "30m")
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
			HSTS: v.GetBool("HSTS_ENABLED"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Places: Places{
			APIKey:   v.GetString("GOOGLE_PLACES_API_KEY"),
			BaseURL:  v.GetString("GOOGLE_PLACES_BASE_URL"),
			Language: v.GetString("GOOGLE_PLACES_LANGUAGE"),
			Timeout:  v.GetDuration("GOOGLE_PLACES_TIMEOUT"),
		},
		Import: Import{
			MaxCandidates:     v.GetInt("IMPORT_MAX_CANDIDATES"),
			CategoryRulesPath: v.GetString("CATEGORY_RULES_PATH"),
		},
		Quota: Quota{
			DailyLimit:  v.GetInt("IMPORT_DAILY_LIMIT"),
			Backend:     v.GetString("QUOTA_BACKEND"),
			PostgresURL: v.GetString("SUPABASE_DB_URL"),
			DynamoTable: v.GetString("QUOTA_DYNAMODB_TABLE"),
			AWSRegion:   v.GetString("AWS_REGION"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Admin: Admin{
			TokenHash:  v.GetString("ADMIN_TOKEN_HASH"),
			BcryptCost: v.GetInt("ADMIN_BCRYPT_COST"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("MAINTENANCE_ENABLED"),
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
			Retention:       v.GetDuration("TASK_RETENTION"),

			RefreshAttempts: v.GetInt("REFRESH_MAX_ATTEMPTS"),
			RefreshBackoff:  v.GetDuration("REFRESH_BACKOFF"),
			RefreshTimeout:  v.GetDuration("REFRESH_TIMEOUT"),

			BulkRefreshTimeout: v.GetDuration("BULK_REFRESH_TIMEOUT"),
		},
	}
}
