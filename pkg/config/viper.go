package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/newsvec/pkg/dotdir"
)

// envPrefix namespaces environment overrides: index.collection is read from
// NEWSVEC_INDEX_COLLECTION.
const envPrefix = "NEWSVEC"

// InitViper returns a viper layering, from lowest to highest precedence,
// NewDefaultConfig(), config.toml from the resolved .newsvec/ directory and
// NEWSVEC_* environment variables. Flags bound with BindRegisteredFlags sit
// on top.
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()
	setViperDefaults(v)

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.SetConfigFile(filepath.Join(target, configFile))
		v.SetConfigType("toml")

		err := v.ReadInConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults seeds viper with the typed value of every config key
// from NewDefaultConfig().
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)
	for _, k := range configKeys {
		v.SetDefault(k.name, k.value(d))
	}
}

// Source says which layer an effective value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Effective returns the value viper resolves for key and the layer it came
// from. changed reports whether a flag bound to key was set.
func Effective(v *viper.Viper, key string, changed bool) (string, Source) {
	value := v.GetString(key)

	switch {
	case changed:
		return value, SourceFlag
	case os.Getenv(EnvVar(key)) != "":
		return value, SourceEnv
	case v.InConfig(key):
		return value, SourceFile
	default:
		return value, SourceDefault
	}
}
