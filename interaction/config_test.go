package interaction

import (
	"testing"
	"time"

	"github.com/poiesic/vocalis/core"
	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative retrieval limit", func(c *Config) { c.RetrievalLimit = -1 }},
		{"missing default voice", func(c *Config) { c.DefaultVoice = "" }},
		{"unknown default voice", func(c *Config) { c.DefaultVoice = "tenor" }},
		{"negative token budget", func(c *Config) { c.ContextTokenBudget = -5 }},
		{"zero transcription timeout", func(c *Config) { c.TranscriptionTimeout = 0 }},
		{"negative synthesis timeout", func(c *Config) { c.SynthesisTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.RetrievalLimit)
	assert.Equal(t, core.VoiceFemale, cfg.DefaultVoice)
}
