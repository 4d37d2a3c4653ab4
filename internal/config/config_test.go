package config

import (
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/require"
)

func TestDecodeDefaults(t *testing.T) {
	cfg, err := Decode(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestDecodeOverridesBoolsAndByteSizeString(t *testing.T) {
	cfg, err := Decode(map[string]any{
		"arena_block_size":      "1MB",
		"debug_iterator_checks": true,
		"capture_call_stack":    true,
	})
	require.NoError(t, err)
	require.Equal(t, datasize.MB, cfg.ArenaBlockSize)
	require.True(t, cfg.DebugIteratorChecks)
	require.True(t, cfg.CaptureCallStack)
}

func TestDecodeAcceptsPlainByteCount(t *testing.T) {
	cfg, err := Decode(map[string]any{"arena_block_size": 4096})
	require.NoError(t, err)
	require.Equal(t, datasize.ByteSize(4096), cfg.ArenaBlockSize)
}

func TestDecodeRejectsUnknownKey(t *testing.T) {
	_, err := Decode(map[string]any{"not_a_real_field": 1})
	require.Error(t, err)
}
