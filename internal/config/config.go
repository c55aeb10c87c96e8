package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// DotEnvFile is the file read from the working directory before the
// environment is applied.
const DotEnvFile = ".env"

var ErrInvalidValue = errors.New("invalid configuration value")

// Config holds runtime settings for one upload run.
type Config struct {
	DirectoryPath string        `env:"DIRECTORY_PATH" envDefault:"./files"`
	BucketName    string        `env:"BUCKET_NAME" envDefault:"bucket-name"`
	Region        string        `env:"AWS_REGION" envDefault:"region"`
	AccessKey     string        `env:"AWS_ACCESS_KEY" envDefault:"abc"`
	SecretKey     string        `env:"AWS_SECRET_KEY" envDefault:"xyz"`
	Backend       string        `env:"UPLOAD_BACKEND" envDefault:"sigv4"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	JournalPath   string        `env:"JOURNAL_PATH"`
	LogLevel      slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadDefaults resets c to the envDefault values.
func (c *Config) LoadDefaults() {
	*c = Config{}
	// The tag defaults are constants and always parse.
	_ = parseEnv(c, map[string]string{})
}

// LoadConfig constructs a Config from the process environment, falling back
// to the .env file (if present) and then to the defaults.
func LoadConfig() (*Config, error) {
	dotEnv, err := readDotEnv(DotEnvFile)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := parseEnv(cfg, mergeEnviron(dotEnv, osEnviron())); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Credentials returns the configured keys as a credentials provider. Empty
// keys are passed through unchanged so that the object store, not the
// client, rejects them per file.
func (c *Config) Credentials() aws.CredentialsProvider {
	accessKey, secretKey := c.AccessKey, c.SecretKey
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     accessKey,
			SecretAccessKey: secretKey,
			Source:          "config",
		}, nil
	})
}

// LogValue keeps the secret key out of logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("directory", c.DirectoryPath),
		slog.String("bucket", c.BucketName),
		slog.String("region", c.Region),
		slog.String("access_key", c.AccessKey),
		slog.String("backend", c.Backend),
		slog.Duration("http_timeout", c.HTTPTimeout),
		slog.String("journal", c.JournalPath),
		slog.String("log_level", c.LogLevel.String()),
	)
}

func invalid(name, value string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidValue, name, value, err)
	}
	return fmt.Errorf("%w: %s=%q", ErrInvalidValue, name, value)
}
