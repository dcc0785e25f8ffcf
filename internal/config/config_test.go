package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `rss_feeds:
  - https://example.com/feed.xml
  - https://example.org/rss
email:
  from: sender@example.com
  to: reader@example.com
  smtp_server: smtp.example.com
  username: sender
  password: secret
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yml", fullConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/feed.xml", "https://example.org/rss"}, cfg.Feeds)
	assert.Equal(t, "sender@example.com", cfg.Email.From)
	assert.Equal(t, "reader@example.com", cfg.Email.To)
	assert.Equal(t, "smtp.example.com", cfg.Email.SMTPServer)
	assert.Equal(t, "sender", cfg.Email.Username)
	assert.Equal(t, "secret", cfg.Email.Password)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yml", fullConfig))
	require.NoError(t, err)

	assert.Equal(t, 465, cfg.Email.SMTPPort)
	assert.Equal(t, "Your RSS Feed Compilation", cfg.Email.Subject)
	assert.Equal(t, "RSS Feed Compilation", cfg.Book.Title)
	assert.Equal(t, "RSS to EPUB Generator", cfg.Book.Author)
	assert.Equal(t, "rss_feed.epub", cfg.Book.Output)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ExtractorParagraphs, cfg.Extractor)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.yml"))
	require.Error(t, err)
}

func TestLoadMissingEmailBlock(t *testing.T) {
	path := writeConfig(t, "config.yml", "rss_feeds:\n  - https://example.com/feed.xml\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Feeds: []string{"https://example.com/feed.xml"},
		Email: Email{
			From:       "a@example.com",
			To:         "b@example.com",
			SMTPServer: "smtp.example.com",
			Username:   "a",
			Password:   "p",
		},
		HTTPTimeout: time.Second,
		Extractor:   ExtractorParagraphs,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no feeds", func(c *Config) { c.Feeds = nil }},
		{"blank feed", func(c *Config) { c.Feeds = []string{""} }},
		{"no from", func(c *Config) { c.Email.From = "" }},
		{"no to", func(c *Config) { c.Email.To = "" }},
		{"no relay", func(c *Config) { c.Email.SMTPServer = "" }},
		{"no username", func(c *Config) { c.Email.Username = "" }},
		{"no password", func(c *Config) { c.Email.Password = "" }},
		{"unknown extractor", func(c *Config) { c.Extractor = "magic" }},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			cfg.Feeds = append([]string(nil), valid.Feeds...)
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}
