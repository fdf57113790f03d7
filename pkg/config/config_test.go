package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/recjson/pkg/codec"
	"github.com/lk2023060901/recjson/pkg/util/merr"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, codec.NameJSON, cfg.Serializer.Codec)
	assert.False(t, cfg.Serializer.PrettyPrint)
	assert.True(t, cfg.Responder.Compression)
	assert.Equal(t, 1024, cfg.Responder.MinCompressSize)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Stdout)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recjson.yaml")
	content := `
serializer:
  codec: msgpack
  pretty-print: true
responder:
  compression: false
  min-compress-size: 64
log:
  level: debug
  format: json
  file:
    filename: recjson.log
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, codec.NameMsgpack, cfg.Serializer.Codec)
	assert.True(t, cfg.Serializer.PrettyPrint)
	assert.False(t, cfg.Responder.Compression)
	assert.Equal(t, 64, cfg.Responder.MinCompressSize)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "recjson.log", cfg.Log.File.Filename)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RECJSON_SERIALIZER_PRETTY_PRINT", "true")
	t.Setenv("RECJSON_RESPONDER_MIN_COMPRESS_SIZE", "2048")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Serializer.PrettyPrint)
	assert.Equal(t, 2048, cfg.Responder.MinCompressSize)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("serializer:\n  codec: xml\n"), 0o600))
	_, err = Load(bad)
	assert.ErrorIs(t, err, merr.ErrCodecNotFound)

	neg := filepath.Join(dir, "neg.yaml")
	require.NoError(t, os.WriteFile(neg, []byte("responder:\n  min-compress-size: -1\n"), 0o600))
	_, err = Load(neg)
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
}
