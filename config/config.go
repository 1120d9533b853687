package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	DBUrl string
	// JWT
	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptCost   int
	// Admin identity
	AdminEmail            string
	AdminLegacyEmailCheck bool // Also accept tokens whose email equals AdminEmail
	CORSOrigins           []string
	// Uploads
	UploadsDir              string
	UploadMaxFileSize       int64
	UploadImageMaxDimension int
	StorageDriver           string // "local" or "s3"
	S3Bucket                string
	S3Region                string
	S3AccessKeyID           string
	S3SecretAccessKey       string
	S3Endpoint              string
	ClamAVAddress           string // empty disables malware scanning
	ClamAVTimeout           time.Duration
	// Redis
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitAuthThreshold   int
	RateLimitGlobalThreshold int
	RunMigrations            bool
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	jwtTTL, err := getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	clamTimeout, err := getEnvDuration("CLAMAV_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                     getEnv("PORT", "5000"),
		DBUrl:                    getEnv("DATABASE_URL", ""),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		JWTExpiresIn:             jwtTTL,
		BcryptCost:               getEnvInt("BCRYPT_COST", 10),
		AdminEmail:               strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", "admin@jobportal.com"))),
		AdminLegacyEmailCheck:    getEnvBool("ADMIN_LEGACY_EMAIL_CHECK", false),
		CORSOrigins:              splitList(getEnv("CORS_ORIGIN", "http://localhost:3000")),
		UploadsDir:               getEnv("UPLOADS_DIR", "./uploads"),
		UploadMaxFileSize:        int64(getEnvInt("UPLOAD_MAX_FILE_SIZE", 10*1024*1024)),
		UploadImageMaxDimension:  getEnvInt("UPLOAD_IMAGE_MAX_DIMENSION", 2000),
		StorageDriver:            strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		S3Bucket:                 getEnv("S3_BUCKET", ""),
		S3Region:                 getEnv("S3_REGION", ""),
		S3AccessKeyID:            getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:        getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:               strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		ClamAVAddress:            getEnv("CLAMAV_ADDRESS", ""),
		ClamAVTimeout:            clamTimeout,
		RedisURL:                 getEnv("REDIS_URL", ""),
		RedisPassword:            getEnv("REDIS_PASSWORD", ""),
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitAuthThreshold:   getEnvInt("RATE_LIMIT_AUTH_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 300),
		RunMigrations:            getEnvBool("RUN_MIGRATIONS", true),
	}

	if cfg.DBUrl == "" {
		cfg.DBUrl = buildDBUrl()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DBUrl == "" {
		return errors.New("DATABASE_URL or DB_HOST/DB_NAME/DB_USER must be set")
	}
	if c.JWTExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", c.JWTExpiresIn)
	}
	switch c.StorageDriver {
	case "local":
	case "s3":
		if c.S3Bucket == "" || c.S3Region == "" {
			return errors.New("STORAGE_DRIVER=s3 requires S3_BUCKET and S3_REGION")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// buildDBUrl assembles a connection URL from the discrete DB_* variables.
func buildDBUrl() string {
	host := getEnv("DB_HOST", "")
	name := getEnv("DB_NAME", "")
	user := getEnv("DB_USER", "")
	if host == "" || name == "" || user == "" {
		return ""
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, getEnv("DB_PASSWORD", "")),
		Host:   host + ":" + getEnv("DB_PORT", "5432"),
		Path:   "/" + name,
	}
	if mode := getEnv("DB_SSLMODE", ""); mode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(mode)
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("24h", "90m"), whole days ("7d") or a
// bare number of seconds. Anything else is an error rather than a silent
// fallback.
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	if !exists || value == "" {
		return fallback, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	if days, ok := strings.CutSuffix(value, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil {
			return time.Duration(n) * 24 * time.Hour, nil
		}
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("%s: invalid duration %q", key, value)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
