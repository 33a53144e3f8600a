package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Port    int      `env:"SAMPLE_PORT" envDefault:"8080"`
	Names   []string `env:"SAMPLE_NAMES" envDefault:"a,b" envSeparator:","`
	Enabled bool     `env:"SAMPLE_ENABLED" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg sampleConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"a", "b"}, cfg.Names)
	assert.False(t, cfg.Enabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SAMPLE_PORT", "9001")
	t.Setenv("SAMPLE_NAMES", "x,y,z")
	t.Setenv("SAMPLE_ENABLED", "true")

	var cfg sampleConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, []string{"x", "y", "z"}, cfg.Names)
	assert.True(t, cfg.Enabled)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("SAMPLE_PORT", "not-a-number")

	var cfg sampleConfig
	assert.Error(t, Load(&cfg))
}
