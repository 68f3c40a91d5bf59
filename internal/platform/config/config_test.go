// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pipemill/internal/platform/config"
)

/*
TestLoad_Defaults verifies required keys and defaults with no env file present.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("DATABASE_URL", "postgres://localhost/pipemill")
	t.Setenv("SESSION_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.False(t, cfg.HasRedis())
	assert.Equal(t, int64(52428800), cfg.MaxUploadBytes)
	assert.Equal(t, 120*time.Second, cfg.LLMTimeout)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_EnvFile verifies values are read from the env file without overriding
variables already set in the process.
*/
func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_URL=postgres://file/pipemill\nSESSION_SECRET=from-file\nSERVER_PORT=9000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ENV_FILE", path)
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_SECRET", "")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("SESSION_SECRET")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/pipemill", cfg.DatabaseURL)
	assert.Equal(t, "7000", cfg.ServerPort)
}

/*
TestLoad_MissingRequired fails when SESSION_SECRET is absent.
*/
func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("DATABASE_URL", "postgres://localhost/pipemill")
	t.Setenv("SESSION_SECRET", "")
	os.Unsetenv("SESSION_SECRET")

	_, err := config.Load()
	assert.Error(t, err)
}
