package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tsukasaI/fini/internal/domain"
)

// FileNames are searched in this order in every directory.
var FileNames = []string{"fini.toml", ".fini.toml", ".fini.yaml", ".fini.yml"}

// Loader implements domain.ConfigLoader for TOML and YAML files.
type Loader struct{}

// New creates a Loader.
func New() *Loader { return &Loader{} }

// Find searches upward from startDir. The search stops after the first
// directory containing .git, so a repository never picks up a config from
// outside itself.
func (l *Loader) Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range FileNames {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load parses the file at path, choosing the format by extension.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func (l *Loader) Load(path string) (domain.FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.FileConfig{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg domain.FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	default:
		err = decodeTOML(data, &cfg)
	}
	if err != nil {
		return domain.FileConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.FileConfig{}, fmt.Errorf("invalid %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFrom returns the config found from startDir, its path, or the zero
// config and "" when none exists.
func (l *Loader) LoadFrom(startDir string) (domain.FileConfig, string, error) {
	path, err := l.Find(startDir)
	if err != nil || path == "" {
		return domain.FileConfig{}, "", err
	}
	cfg, err := l.Load(path)
	return cfg, path, err
}

func decodeTOML(data []byte, cfg *domain.FileConfig) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, cfg *domain.FileConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
