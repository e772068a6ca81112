package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/newsvec/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// sqliteFile is the default vector store file inside the .newsvec/ dir.
	sqliteFile = "vectors.sqlite"

	// CurrentV is the only config version newsvec reads.
	CurrentV = 0
)

// Configer reads and writes config.toml in a resolved .newsvec/ directory.
type Configer struct {
	dir        string
	targetPath string
}

// NewConfiger resolves the .newsvec/ directory from override. When none
// resolves, LoadConfig returns defaults and SaveConfig fails.
func NewConfiger(override string) (*Configer, error) {
	target, err := dotdir.NewManager().Target(override)
	if err != nil {
		return nil, err
	}
	if target == "" {
		return &Configer{}, nil
	}

	return &Configer{
		dir:        target,
		targetPath: filepath.Join(target, configFile),
	}, nil
}

// ValidConfigKeys returns all supported configuration key names in the
// TOML section layout order.
func ValidConfigKeys() []string {
	names := make([]string, len(configKeys))
	for i, k := range configKeys {
		names[i] = k.name
	}
	return names
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := lookupKey(key)
	return ok
}

// GetTarget returns the config.toml path, or "" when no directory resolved.
func (c *Configer) GetTarget() string {
	return c.targetPath
}

// Dir returns the resolved .newsvec/ directory.
func (c *Configer) Dir() string {
	return c.dir
}

// SQLitePath returns the configured sqlite vector store path, falling back to
// vectors.sqlite inside the .newsvec/ directory.
func (c *Configer) SQLitePath(cfg *Config) string {
	if cfg != nil && cfg.VectorStore.Path != "" {
		return cfg.VectorStore.Path
	}
	if c.dir == "" {
		return sqliteFile
	}
	return filepath.Join(c.dir, sqliteFile)
}

// LoadConfig loads config.toml over NewDefaultConfig(), so keys absent from
// the file keep their default. A missing file yields the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	cfg := NewDefaultConfig()
	if c.targetPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(c.targetPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := decodeInto(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg to config.toml with 0600 permissions, replacing the
// file atomically.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}
	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp := c.targetPath + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, c.targetPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
func (c *Configer) SetConfigValue(key string, value string) error {
	k, ok := lookupKey(key)
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}
	if err := k.set(cfg, value); err != nil {
		return err
	}
	return c.SaveConfig(cfg)
}

// UnsetConfigValue restores key to its default and saves the config.
func (c *Configer) UnsetConfigValue(key string) error {
	k, ok := lookupKey(key)
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}
	k.reset(cfg, NewDefaultConfig())
	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string form of key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	k, ok := lookupKey(key)
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}
	return k.get(cfg), nil
}

// presets adjust the defaults for a provider stack.
var presets = map[string]func(*Config){
	"openai": func(*Config) {},
	"ollama": func(cfg *Config) {
		cfg.Embedding = EmbeddingConfig{
			Provider:   "ollama",
			Target:     "http://localhost:11434",
			Model:      "nomic-embed-text",
			Dimensions: 768,
		}
		cfg.Enrich.Provider = "ollama"
		cfg.Enrich.Target = "http://localhost:11434"
		cfg.Enrich.Model = "llama3.2"
	},
}

// PresetConfig returns the defaults adjusted for the named preset.
func PresetConfig(name string) (*Config, error) {
	apply, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %q (available: %s)", name, strings.Join(ValidPresetNames(), ", "))
	}

	cfg := NewDefaultConfig()
	apply(cfg)
	return cfg, nil
}

// ValidPresetNames returns the sorted preset names.
func ValidPresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseConfigTOML parses raw TOML bytes into a zero Config.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := decodeInto(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeInto decodes data over cfg. Unknown keys and versions are rejected.
func decodeInto(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parsing config TOML: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		names := make([]string, len(undecoded))
		for i, k := range undecoded {
			names[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(names, ", "))
	}

	if cfg.Version != CurrentV {
		return fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}
	return nil
}
