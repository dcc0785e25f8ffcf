// Package config loads the run configuration from a YAML or HCL file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
	"github.com/cristalhq/aconfig/aconfigyaml"
)

const DefaultPath = "./config.yml"

const (
	ExtractorParagraphs  = "paragraphs"
	ExtractorReadability = "readability"
)

// ErrInvalid is returned when the file parses but a required value is missing or malformed.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Feeds       []string      `yaml:"rss_feeds" hcl:"rss_feeds" required:"true"`
	Email       Email         `yaml:"email" hcl:"email"`
	Book        Book          `yaml:"book" hcl:"book"`
	HTTPTimeout time.Duration `yaml:"http_timeout" hcl:"http_timeout" default:"30s"`
	Extractor   string        `yaml:"extractor" hcl:"extractor" default:"paragraphs"`
}

type Email struct {
	From       string `yaml:"from" hcl:"from" required:"true"`
	To         string `yaml:"to" hcl:"to" required:"true"`
	SMTPServer string `yaml:"smtp_server" hcl:"smtp_server" required:"true"`
	SMTPPort   int    `yaml:"smtp_port" hcl:"smtp_port" default:"465"`
	Username   string `yaml:"username" hcl:"username" required:"true"`
	Password   string `yaml:"password" hcl:"password" required:"true"`
	Subject    string `yaml:"subject" hcl:"subject" default:"Your RSS Feed Compilation"`
}

type Book struct {
	Title  string `yaml:"title" hcl:"title" default:"RSS Feed Compilation"`
	Author string `yaml:"author" hcl:"author" default:"RSS to EPUB Generator"`
	Output string `yaml:"output" hcl:"output" default:"rss_feed.epub"`
}

// Load reads the file at path. Nothing but the file is consulted: env and flags are skipped.
func Load(path string) (Config, error) {
	var cfg Config

	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipEnv:            true,
		SkipFlags:          true,
		FailOnFileNotFound: true,
		AllowUnknownFields: true,
		Files:              []string{path},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yml":  aconfigyaml.New(),
			".yaml": aconfigyaml.New(),
			".hcl":  aconfighcl.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if len(c.Feeds) == 0 {
		errs = append(errs, fmt.Errorf("%w: rss_feeds is empty", ErrInvalid))
	}
	for i, feed := range c.Feeds {
		if feed == "" {
			errs = append(errs, fmt.Errorf("%w: rss_feeds[%d] is empty", ErrInvalid, i))
		}
	}

	required := []struct {
		name  string
		value string
	}{
		{"email.from", c.Email.From},
		{"email.to", c.Email.To},
		{"email.smtp_server", c.Email.SMTPServer},
		{"email.username", c.Email.Username},
		{"email.password", c.Email.Password},
	}
	for _, field := range required {
		if field.value == "" {
			errs = append(errs, fmt.Errorf("%w: %s is required", ErrInvalid, field.name))
		}
	}

	switch c.Extractor {
	case ExtractorParagraphs, ExtractorReadability:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown extractor %q", ErrInvalid, c.Extractor))
	}

	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: http_timeout must be positive", ErrInvalid))
	}

	return errors.Join(errs...)
}
