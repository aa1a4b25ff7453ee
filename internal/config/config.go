package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port               int      `json:"port"`
	Environment        string   `json:"environment"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins"`

	// Storage backend: mongo or memory
	StorageBackend string `json:"storage_backend"`

	// MongoDB configuration
	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`

	// Collection names
	ApplicationsCollection string `json:"mongo_applications_collection"`
	ProfilesCollection     string `json:"mongo_profiles_collection"`
	AccountsCollection     string `json:"mongo_accounts_collection"`
	UserRolesCollection    string `json:"mongo_user_roles_collection"`
	AuditLogsCollection    string `json:"mongo_audit_logs_collection"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// Session and draft lifetimes
	SessionTTL    time.Duration `json:"session_ttl"`
	DraftTTL      time.Duration `json:"draft_ttl"`
	SubmitLockTTL time.Duration `json:"submit_lock_ttl"`

	// Redirect targets returned with auth failures and submissions
	LoginRedirect        string `json:"login_redirect"`
	AdminLoginRedirect   string `json:"admin_login_redirect"`
	AdminHomeRedirect    string `json:"admin_home_redirect"`
	ApplicationsRedirect string `json:"applications_redirect"`

	// Tracing
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`

	// Decision notifications
	NotificationsEnabled bool   `json:"notifications_enabled"`
	AWSRegion            string `json:"aws_region"`
	SESSender            string `json:"ses_sender"`

	// Audit logging
	AuditLogsEnabled bool `json:"audit_logs_enabled"`
	AuditWorkers     int  `json:"audit_workers"`
	AuditBuffer      int  `json:"audit_buffer"`
}

var (
	AppConfig *Config
)

var defaults = map[string]interface{}{
	"PORT":                            8080,
	"ENVIRONMENT":                     "development",
	"CORS_ALLOWED_ORIGINS":            "*",
	"STORAGE_BACKEND":                 StorageMongo,
	"MONGODB_URI":                     "mongodb://localhost:27017",
	"MONGODB_DATABASE":                "bolsas",
	"MONGODB_APPLICATIONS_COLLECTION": "applications",
	"MONGODB_PROFILES_COLLECTION":     "profiles",
	"MONGODB_ACCOUNTS_COLLECTION":     "accounts",
	"MONGODB_USER_ROLES_COLLECTION":   "user_roles",
	"MONGODB_AUDIT_LOGS_COLLECTION":   "audit_logs",
	"REDIS_URI":                       "localhost:6379",
	"REDIS_PASSWORD":                  "",
	"REDIS_DB":                        0,
	"SESSION_TTL":                     "24h",
	"DRAFT_TTL":                       "72h",
	"SUBMIT_LOCK_TTL":                 "30s",
	"LOGIN_REDIRECT":                  "/candidato/login",
	"ADMIN_LOGIN_REDIRECT":            "/admin/login",
	"ADMIN_HOME_REDIRECT":             "/admin",
	"APPLICATIONS_REDIRECT":           "/perfil",
	"TRACING_ENABLED":                 false,
	"TRACING_ENDPOINT":                "localhost:4317",
	"NOTIFICATIONS_ENABLED":           false,
	"AWS_REGION":                      "eu-west-1",
	"SES_SENDER":                      "",
	"AUDIT_LOGS_ENABLED":              true,
	"AUDIT_WORKERS":                   2,
	"AUDIT_BUFFER":                    1000,
}

// LoadConfig loads configuration from an optional .env file and environment variables
func LoadConfig() error {
	// a missing .env is not an error
	_ = godotenv.Load()

	cfg, err := loadFrom(newViper())
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

func loadFrom(v *viper.Viper) (*Config, error) {
	port, err := intValue(v, "PORT")
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d out of range", port)
	}

	redisDB, err := intValue(v, "REDIS_DB")
	if err != nil {
		return nil, err
	}

	sessionTTL, err := durationValue(v, "SESSION_TTL")
	if err != nil {
		return nil, err
	}
	draftTTL, err := durationValue(v, "DRAFT_TTL")
	if err != nil {
		return nil, err
	}
	lockTTL, err := durationValue(v, "SUBMIT_LOCK_TTL")
	if err != nil {
		return nil, err
	}

	auditWorkers, err := intValue(v, "AUDIT_WORKERS")
	if err != nil {
		return nil, err
	}
	auditBuffer, err := intValue(v, "AUDIT_BUFFER")
	if err != nil {
		return nil, err
	}
	if auditWorkers < 1 || auditBuffer < 1 {
		return nil, fmt.Errorf("invalid AUDIT_WORKERS/AUDIT_BUFFER: workers=%d buffer=%d", auditWorkers, auditBuffer)
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_BACKEND")))
	if backend != StorageMongo && backend != StorageMemory {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %q (want %s or %s)", backend, StorageMongo, StorageMemory)
	}

	cfg := &Config{
		Port:               port,
		Environment:        v.GetString("ENVIRONMENT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		StorageBackend:     backend,

		MongoURI:      v.GetString("MONGODB_URI"),
		MongoDatabase: v.GetString("MONGODB_DATABASE"),

		ApplicationsCollection: v.GetString("MONGODB_APPLICATIONS_COLLECTION"),
		ProfilesCollection:     v.GetString("MONGODB_PROFILES_COLLECTION"),
		AccountsCollection:     v.GetString("MONGODB_ACCOUNTS_COLLECTION"),
		UserRolesCollection:    v.GetString("MONGODB_USER_ROLES_COLLECTION"),
		AuditLogsCollection:    v.GetString("MONGODB_AUDIT_LOGS_COLLECTION"),

		RedisURI:      v.GetString("REDIS_URI"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		SessionTTL:    sessionTTL,
		DraftTTL:      draftTTL,
		SubmitLockTTL: lockTTL,

		LoginRedirect:        v.GetString("LOGIN_REDIRECT"),
		AdminLoginRedirect:   v.GetString("ADMIN_LOGIN_REDIRECT"),
		AdminHomeRedirect:    v.GetString("ADMIN_HOME_REDIRECT"),
		ApplicationsRedirect: v.GetString("APPLICATIONS_REDIRECT"),

		TracingEnabled:  v.GetBool("TRACING_ENABLED"),
		TracingEndpoint: v.GetString("TRACING_ENDPOINT"),

		NotificationsEnabled: v.GetBool("NOTIFICATIONS_ENABLED"),
		AWSRegion:            v.GetString("AWS_REGION"),
		SESSender:            v.GetString("SES_SENDER"),

		AuditLogsEnabled: v.GetBool("AUDIT_LOGS_ENABLED"),
		AuditWorkers:     auditWorkers,
		AuditBuffer:      auditBuffer,
	}

	if cfg.NotificationsEnabled && cfg.SESSender == "" {
		return nil, fmt.Errorf("SES_SENDER is required when NOTIFICATIONS_ENABLED is set")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func intValue(v *viper.Viper, key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationValue(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
