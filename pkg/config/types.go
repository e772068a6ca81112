package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent newsvec configuration stored as config.toml
// in the .newsvec/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Index       IndexConfig       `toml:"index"`
	Enrich      EnrichConfig      `toml:"enrich"`
	API         APIConfig         `toml:"api"`
	Client      ClientConfig      `toml:"client"`
	EventStream EventStreamConfig `toml:"eventstream"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider string `toml:"provider,omitempty"`

	// Target is the server URL (chroma), gRPC address (qdrant) or
	// connection string (postgres).
	Target string `toml:"target,omitempty"`

	// Path is the sqlite database file. Empty means vectors.sqlite inside
	// the .newsvec/ directory.
	Path string `toml:"path,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// IndexConfig holds collection and search defaults.
type IndexConfig struct {
	Collection string `toml:"collection,omitempty"`
	Limit      int    `toml:"limit,omitempty"`
}

// EnrichConfig holds settings for the summary and topic generator.
type EnrichConfig struct {
	Provider    string `toml:"provider,omitempty"`
	Target      string `toml:"target,omitempty"`
	Model       string `toml:"model,omitempty"`
	MaxTextSize int    `toml:"max_text_size,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that talk to a running
// "newsvec serve". Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// EventStreamConfig holds index event publishing settings.
type EventStreamConfig struct {
	// Provider is "nop" or "kafka".
	Provider string `toml:"provider,omitempty"`

	// Brokers is a comma-separated list of kafka brokers.
	Brokers string `toml:"brokers,omitempty"`
	Topic   string `toml:"topic,omitempty"`
}

// configKey is a user-facing dotted key with accessors on *Config.
type configKey struct {
	name string

	// value returns the typed value, used to seed viper defaults.
	value func(c *Config) any
	get   func(c *Config) string
	set   func(c *Config, v string) error

	// reset copies the key's value from src into dst.
	reset func(dst, src *Config)
}

func stringKey(name string, field func(c *Config) *string) configKey {
	return configKey{
		name:  name,
		value: func(c *Config) any { return *field(c) },
		get:   func(c *Config) string { return *field(c) },
		set:   func(c *Config, v string) error { *field(c) = v; return nil },
		reset: func(dst, src *Config) { *field(dst) = *field(src) },
	}
}

func intKey(name string, field func(c *Config) *int) configKey {
	return configKey{
		name:  name,
		value: func(c *Config) any { return *field(c) },
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.Itoa(*field(c))
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			if n < 0 {
				return fmt.Errorf("invalid value for %s: must not be negative", name)
			}
			*field(c) = n
			return nil
		},
		reset: func(dst, src *Config) { *field(dst) = *field(src) },
	}
}

func uintKey(name string, field func(c *Config) *uint) configKey {
	return configKey{
		name:  name,
		value: func(c *Config) any { return *field(c) },
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(*field(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 0)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = uint(n)
			return nil
		},
		reset: func(dst, src *Config) { *field(dst) = *field(src) },
	}
}

// configKeys lists every supported key in TOML section order.
var configKeys = []configKey{
	stringKey("vector_store.provider", func(c *Config) *string { return &c.VectorStore.Provider }),
	stringKey("vector_store.target", func(c *Config) *string { return &c.VectorStore.Target }),
	stringKey("vector_store.path", func(c *Config) *string { return &c.VectorStore.Path }),
	stringKey("embedding.provider", func(c *Config) *string { return &c.Embedding.Provider }),
	stringKey("embedding.target", func(c *Config) *string { return &c.Embedding.Target }),
	stringKey("embedding.model", func(c *Config) *string { return &c.Embedding.Model }),
	uintKey("embedding.dimensions", func(c *Config) *uint { return &c.Embedding.Dimensions }),
	stringKey("index.collection", func(c *Config) *string { return &c.Index.Collection }),
	intKey("index.limit", func(c *Config) *int { return &c.Index.Limit }),
	stringKey("enrich.provider", func(c *Config) *string { return &c.Enrich.Provider }),
	stringKey("enrich.target", func(c *Config) *string { return &c.Enrich.Target }),
	stringKey("enrich.model", func(c *Config) *string { return &c.Enrich.Model }),
	intKey("enrich.max_text_size", func(c *Config) *int { return &c.Enrich.MaxTextSize }),
	stringKey("api.listen", func(c *Config) *string { return &c.API.Listen }),
	stringKey("client.api_target", func(c *Config) *string { return &c.Client.APITarget }),
	stringKey("eventstream.provider", func(c *Config) *string { return &c.EventStream.Provider }),
	stringKey("eventstream.brokers", func(c *Config) *string { return &c.EventStream.Brokers }),
	stringKey("eventstream.topic", func(c *Config) *string { return &c.EventStream.Topic }),
}

func lookupKey(name string) (configKey, bool) {
	for _, k := range configKeys {
		if k.name == name {
			return k, true
		}
	}
	return configKey{}, false
}
