package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := fromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "house_helps.xlsx", cfg.ExcelFile)
	assert.Equal(t, "uploads", cfg.UploadsDir)
	assert.Equal(t, BackendXLSX, cfg.StoreBackend)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "password123", cfg.AdminPassword)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.S3.Enabled())
	assert.Len(t, cfg.JWTSecret, 64, "a random secret is generated")
}

func TestFromEnv_GeneratedSecretsDiffer(t *testing.T) {
	a, err := fromEnv(env(nil))
	require.NoError(t, err)
	b, err := fromEnv(env(nil))
	require.NoError(t, err)
	assert.NotEqual(t, a.JWTSecret, b.JWTSecret)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := fromEnv(env(map[string]string{
		"PORT":                 "9090",
		"EXCEL_FILE":           "/srv/helpers.xlsx",
		"UPLOADS_DIR":          "/srv/photos",
		"STORE_BACKEND":        "SQLite",
		"DB_PATH":              "/srv/helpers.db",
		"ADMIN_USERNAME":       "owner",
		"ADMIN_PASSWORD":       "s3cret",
		"ADMIN_PASSWORD_HASH":  "$2a$10$abc",
		"JWT_SECRET":           "a-fixed-secret-value",
		"S3_BUCKET":            "helper-photos",
		"S3_REGION":            "ap-south-1",
		"S3_ENDPOINT":          "http://localhost:9000",
		"S3_ACCESS_KEY_ID":     "minio",
		"S3_SECRET_ACCESS_KEY": "minio123",
		"S3_USE_PATH_STYLE":    "true",
		"LOG_LEVEL":            "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/srv/helpers.xlsx", cfg.ExcelFile)
	assert.Equal(t, "/srv/photos", cfg.UploadsDir)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "/srv/helpers.db", cfg.DBPath)
	assert.Equal(t, "owner", cfg.AdminUsername)
	assert.Equal(t, "s3cret", cfg.AdminPassword)
	assert.Equal(t, "$2a$10$abc", cfg.AdminPasswordHash)
	assert.Equal(t, "a-fixed-secret-value", cfg.JWTSecret)
	assert.Equal(t, S3Config{
		Bucket:          "helper-photos",
		Region:          "ap-south-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
	}, cfg.S3)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"non-numeric port", map[string]string{"PORT": "http"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"unknown backend", map[string]string{"STORE_BACKEND": "postgres"}},
		{"bad path style flag", map[string]string{"S3_USE_PATH_STYLE": "maybe"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromEnv(env(tt.vars))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8181")
	t.Setenv("JWT_SECRET", "from-the-environment")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, "from-the-environment", cfg.JWTSecret)
}
