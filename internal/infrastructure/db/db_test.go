package db

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaste/loan-system/internal/pkg/config"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "memory"}}

	store, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, store.Users)
	assert.NotNil(t, store.Loans)
	assert.NoError(t, store.Close(context.Background()))
}

func TestOpen_File(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "file", DataDir: t.TempDir()}}

	store, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.Contains(t, store.Checks, "storage")
	assert.NoError(t, store.Checks["storage"](context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "postgres"}}

	_, err := Open(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
