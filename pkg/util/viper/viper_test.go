package viper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type section struct {
	Codec       string `mapstructure:"codec"`
	PrettyPrint bool   `mapstructure:"pretty-print"`
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "c.yaml", "serializer:\n  codec: msgpack\n  pretty-print: true\n")

	c := New("")
	require.NoError(t, c.LoadFile(path))
	assert.True(t, c.IsSet("serializer.codec"))
	assert.Equal(t, "msgpack", c.GetString("serializer.codec"))

	var s section
	require.NoError(t, c.UnmarshalKey("serializer", &s))
	assert.Equal(t, section{Codec: "msgpack", PrettyPrint: true}, s)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "c.json", `{"serializer":{"codec":"json"}}`)

	c := New("")
	require.NoError(t, c.LoadFile(path))

	var all struct {
		Serializer section `mapstructure:"serializer"`
	}
	require.NoError(t, c.Unmarshal(&all))
	assert.Equal(t, "json", all.Serializer.Codec)
}

func TestLoadErrors(t *testing.T) {
	c := New("")
	assert.Error(t, c.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, c.LoadFile(writeFile(t, "c.toml", "a = 1")))
	assert.Error(t, c.LoadFile(writeFile(t, "bad.yaml", "a: [1,")))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("RECJSONTEST_SERIALIZER_PRETTY_PRINT", "true")

	c := New("RECJSONTEST")
	c.SetDefault("serializer.pretty-print", false)
	c.SetDefault("serializer.codec", "json")

	var all struct {
		Serializer section `mapstructure:"serializer"`
	}
	require.NoError(t, c.Unmarshal(&all))
	assert.True(t, all.Serializer.PrettyPrint)
	assert.Equal(t, "json", all.Serializer.Codec)
}
