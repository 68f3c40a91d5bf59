// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestBuild_StdoutOnly writes JSON with the app attribute and respects the level.
*/
func TestBuild_StdoutOnly(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn := build(&buf, Options{App: "pipemill"})
	defer closeFn()

	log.Debug("hidden")
	log.Info("brochure_group_saved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pipemill", entry["app"])
	assert.Equal(t, "brochure_group_saved", entry["msg"])
}

/*
TestBuild_RotatingFile duplicates entries into the configured file.
*/
func TestBuild_RotatingFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "api.log")

	log, closeFn := build(&buf, Options{App: "pipemill", Debug: true, File: path, MaxSizeMB: 1})
	log.Debug("debug_logging_enabled")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug_logging_enabled")
	assert.Contains(t, buf.String(), "debug_logging_enabled")
}
