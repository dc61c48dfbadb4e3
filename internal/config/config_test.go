package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_USER", "postgres")
	os.Setenv("DB_NAME", "shopmart")
	os.Setenv("DB_PORT", "5432")
	os.Setenv("JWT_SECRET", "test-secret")
	defer func() {
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_USER")
		os.Unsetenv("DB_NAME")
		os.Unsetenv("DB_PORT")
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("APP_PORT")
	}()

	t.Run("LoadsValues", func(t *testing.T) {
		cfg := LoadConfig()
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "postgres", cfg.DBUser)
		assert.Equal(t, "shopmart", cfg.DBName)
		assert.Equal(t, "test-secret", cfg.JWTSecret)
	})

	t.Run("DefaultAppPort", func(t *testing.T) {
		os.Unsetenv("APP_PORT")
		cfg := LoadConfig()
		assert.Equal(t, "8080", cfg.AppPort)
	})

	t.Run("ExplicitAppPort", func(t *testing.T) {
		os.Setenv("APP_PORT", "9090")
		cfg := LoadConfig()
		assert.Equal(t, "9090", cfg.AppPort)
	})
}
