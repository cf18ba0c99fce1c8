package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxfiling/internal/config"
)

func TestNew_ValidLevel(t *testing.T) {
	log, err := New(config.LogConfig{Level: "debug", Format: "console"}, "test")
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, "test")
	assert.Error(t, err)
}

func TestNormalizeFormat(t *testing.T) {
	assert.Equal(t, "console", normalizeFormat(" Console "))
	assert.Equal(t, "json", normalizeFormat("text"))
	assert.Equal(t, "json", normalizeFormat(""))
}
