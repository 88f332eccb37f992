// Package config loads the server configuration from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file in the working directory. Variables already set in the
// environment win over the .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendXLSX   = "xlsx"
	BackendSQLite = "sqlite"
)

// Config holds everything cmd/server needs to build the server.
type Config struct {
	Port int

	// Table store
	ExcelFile    string // spreadsheet path, also the download filename
	StoreBackend string // BackendXLSX or BackendSQLite
	DBPath       string // SQLite database file when StoreBackend is sqlite

	// Photo store
	UploadsDir string
	S3         S3Config

	// Download gate
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string // bcrypt hash from cmd/hashpassword; replaces AdminPassword when set
	JWTSecret         string

	LogLevel slog.Level
}

// S3Config selects the S3 photo store when Bucket is non-empty.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // custom endpoint, e.g. a local MinIO
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// Enabled reports whether photos go to S3 instead of the local directory.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		Port:          8080,
		ExcelFile:     "house_helps.xlsx",
		StoreBackend:  BackendXLSX,
		DBPath:        "data/helpers.db",
		UploadsDir:    "uploads",
		AdminUsername: "admin",
		AdminPassword: "password123",
		S3:            S3Config{Region: "us-east-1"},
		LogLevel:      slog.LevelInfo,
	}
}

// Load reads .env (if present) and the environment on top of Default.
// When JWT_SECRET is unset a random secret is generated, so download
// tokens do not survive a restart.
func Load() (Config, error) {
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("config: invalid PORT %q", v)
		}
		cfg.Port = port
	}

	setString(&cfg.ExcelFile, getenv("EXCEL_FILE"))
	setString(&cfg.UploadsDir, getenv("UPLOADS_DIR"))
	setString(&cfg.DBPath, getenv("DB_PATH"))
	setString(&cfg.AdminUsername, getenv("ADMIN_USERNAME"))
	setString(&cfg.AdminPassword, getenv("ADMIN_PASSWORD"))
	setString(&cfg.AdminPasswordHash, getenv("ADMIN_PASSWORD_HASH"))
	setString(&cfg.JWTSecret, getenv("JWT_SECRET"))

	if v := getenv("STORE_BACKEND"); v != "" {
		switch backend := strings.ToLower(v); backend {
		case BackendXLSX, BackendSQLite:
			cfg.StoreBackend = backend
		default:
			return Config{}, fmt.Errorf("config: unknown STORE_BACKEND %q (want %s or %s)", v, BackendXLSX, BackendSQLite)
		}
	}

	setString(&cfg.S3.Bucket, getenv("S3_BUCKET"))
	setString(&cfg.S3.Region, getenv("S3_REGION"))
	setString(&cfg.S3.Endpoint, getenv("S3_ENDPOINT"))
	setString(&cfg.S3.AccessKeyID, getenv("S3_ACCESS_KEY_ID"))
	setString(&cfg.S3.SecretAccessKey, getenv("S3_SECRET_ACCESS_KEY"))
	if v := getenv("S3_USE_PATH_STYLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid S3_USE_PATH_STYLE %q", v)
		}
		cfg.S3.UsePathStyle = b
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("config: invalid LOG_LEVEL %q", v)
		}
	}

	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, fmt.Errorf("config: generating JWT secret: %w", err)
		}
		cfg.JWTSecret = secret
	}

	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
