package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/s3upload/internal/logging"
)

var backends = map[string]bool{"sigv4": true, "sdk": true}

// readDotEnv parses path in .env format. A missing file is not an error.
func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return values, nil
}

func osEnviron() map[string]string {
	environ := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	return environ
}

// mergeEnviron layers process over dotEnv, so .env only seeds variables
// that are not already set.
func mergeEnviron(dotEnv, process map[string]string) map[string]string {
	merged := make(map[string]string, len(dotEnv)+len(process))
	maps.Copy(merged, dotEnv)
	maps.Copy(merged, process)
	return merged
}

// parseEnv fills cfg from environ, using tag defaults for absent or empty
// variables, and validates the result.
func parseEnv(cfg *Config, environ map[string]string) error {
	err := env.ParseWithOptions(cfg, env.Options{
		Environment: environ,
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(slog.Level(0)): func(v string) (any, error) {
				return logging.ParseLevel(v)
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	if !backends[cfg.Backend] {
		return invalid("UPLOAD_BACKEND", cfg.Backend, nil)
	}
	if cfg.HTTPTimeout < 0 {
		return invalid("HTTP_TIMEOUT", cfg.HTTPTimeout.String(), nil)
	}
	return nil
}
