// Package config loads the NLP2CMD YAML configuration.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nlp2cmd/nlp2cmd/assets"
	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/pkg/filesystem"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

// FileLoader loads YAML configuration from ~/.nlp2cmd/config.yaml
// (overridable via NLP2CMD_CONFIG). The embedded default config is written
// on first run.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path reports the resolved config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("NLP2CMD_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHome(), ".nlp2cmd", "config.yaml")
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if len(cfg.Resolvers) == 0 {
		cfg.Resolvers = []domain.ResolverConfig{{Name: "rules"}}
	}
	if cfg.Synthesis.DefaultResolver == "" {
		cfg.Synthesis.DefaultResolver = cfg.Resolvers[0].Name
	}
	if cfg.Synthesis.DefaultDSL == "" {
		cfg.Synthesis.DefaultDSL = string(domain.DSLShell)
	}
	if cfg.Synthesis.TimeoutSeconds == 0 {
		cfg.Synthesis.TimeoutSeconds = 30
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = domain.DefaultMaxCacheEntries
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(filesystem.UserHome(), ".nlp2cmd", "history", "history.db")
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHome(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
