package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/newsvec/pkg/config"
)

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	writeConfig := func(data string) {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())
	}

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads all config fields", func() {
			writeConfig(`version = 0

[vector_store]
provider = "chroma"
target = "http://localhost:8000"
path = "/tmp/vectors.sqlite"

[embedding]
provider = "ollama"
target = "http://localhost:11434"
model = "nomic-embed-text"
dimensions = 768

[index]
collection = "world"
limit = 2

[enrich]
provider = "ollama"
target = "http://localhost:11434"
model = "llama3.2"
max_text_size = 4000

[api]
listen = ":9091"

[client]
api_target = "http://myhost:9091"

[eventstream]
provider = "kafka"
brokers = "k1:9092,k2:9092"
topic = "news"
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.VectorStore).To(Equal(config.VectorStoreConfig{
				Provider: "chroma",
				Target:   "http://localhost:8000",
				Path:     "/tmp/vectors.sqlite",
			}))
			Expect(cfg.Embedding).To(Equal(config.EmbeddingConfig{
				Provider:   "ollama",
				Target:     "http://localhost:11434",
				Model:      "nomic-embed-text",
				Dimensions: 768,
			}))
			Expect(cfg.Index).To(Equal(config.IndexConfig{Collection: "world", Limit: 2}))
			Expect(cfg.Enrich.MaxTextSize).To(Equal(4000))
			Expect(cfg.API.Listen).To(Equal(":9091"))
			Expect(cfg.Client.APITarget).To(Equal("http://myhost:9091"))
			Expect(cfg.EventStream).To(Equal(config.EventStreamConfig{
				Provider: "kafka",
				Brokers:  "k1:9092,k2:9092",
				Topic:    "news",
			}))
		})

		It("fills in defaults for unset fields in a partial config", func() {
			writeConfig(`[index]
collection = "world"
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Index.Collection).To(Equal("world"))
			Expect(cfg.Index.Limit).To(Equal(defaults.Index.Limit))
			Expect(cfg.Embedding).To(Equal(defaults.Embedding))
			Expect(cfg.EventStream).To(Equal(defaults.EventStream))
		})

		It("returns error for malformed TOML", func() {
			writeConfig(`[index`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("parsing config TOML")))
		})

		It("rejects unknown keys", func() {
			writeConfig(`[proxy]
upstream = "http://localhost:11434"
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unknown config keys: proxy.upstream")))
		})

		It("returns error for unsupported config version", func() {
			writeConfig(`version = 99`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version 99")))
		})
	})

	Describe("SaveConfig", func() {
		It("persists config to disk with restricted permissions", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.VectorStore.Provider = "qdrant"
			Expect(c.SaveConfig(cfg)).To(Succeed())

			info, err := os.Stat(c.GetTarget())
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
			Expect(filepath.Join(tmpDir, "config.toml.tmp")).NotTo(BeAnExistingFile())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})

		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).To(MatchError("cannot save nil config"))
		})

		It("omits empty keys from the file", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(config.NewDefaultConfig())).To(Succeed())

			data, err := os.ReadFile(c.GetTarget())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`collection = "news_articles"`))
			Expect(string(data)).NotTo(ContainSubstring("path ="))
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		var c *config.Configer

		BeforeEach(func() {
			var err error
			c, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("sets and gets a string key", func() {
			Expect(c.SetConfigValue("vector_store.target", "localhost:6334")).To(Succeed())
			Expect(c.GetConfigValue("vector_store.target")).To(Equal("localhost:6334"))
		})

		It("sets and gets numeric keys", func() {
			Expect(c.SetConfigValue("embedding.dimensions", "384")).To(Succeed())
			Expect(c.SetConfigValue("index.limit", "2")).To(Succeed())
			Expect(c.GetConfigValue("embedding.dimensions")).To(Equal("384"))
			Expect(c.GetConfigValue("index.limit")).To(Equal("2"))
		})

		It("rejects invalid numeric values", func() {
			Expect(c.SetConfigValue("embedding.dimensions", "many")).To(MatchError(ContainSubstring("invalid value for embedding.dimensions")))
			Expect(c.SetConfigValue("index.limit", "-1")).To(MatchError(ContainSubstring("must not be negative")))
			Expect(c.SetConfigValue("enrich.max_text_size", "big")).To(MatchError(ContainSubstring("invalid value for enrich.max_text_size")))
		})

		It("returns error for unknown key", func() {
			Expect(c.SetConfigValue("proxy.upstream", "x")).To(MatchError(ContainSubstring("unknown config key")))
			_, err := c.GetConfigValue("proxy.upstream")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("returns defaults when no config file exists", func() {
			Expect(c.GetConfigValue("index.collection")).To(Equal("news_articles"))
			Expect(c.GetConfigValue("vector_store.path")).To(BeEmpty())
		})

		It("restores the default on unset", func() {
			Expect(c.SetConfigValue("index.limit", "9")).To(Succeed())
			Expect(c.SetConfigValue("vector_store.target", "localhost:6334")).To(Succeed())

			Expect(c.UnsetConfigValue("index.limit")).To(Succeed())
			Expect(c.UnsetConfigValue("vector_store.target")).To(Succeed())

			Expect(c.GetConfigValue("index.limit")).To(Equal("5"))
			Expect(c.GetConfigValue("vector_store.target")).To(BeEmpty())
			Expect(c.UnsetConfigValue("proxy.upstream")).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("preserves existing values when setting a new key", func() {
			Expect(c.SetConfigValue("index.collection", "world")).To(Succeed())
			Expect(c.SetConfigValue("eventstream.provider", "kafka")).To(Succeed())
			Expect(c.GetConfigValue("index.collection")).To(Equal("world"))
			Expect(c.GetConfigValue("eventstream.provider")).To(Equal("kafka"))
		})
	})

	Describe("SQLitePath", func() {
		It("defaults to vectors.sqlite in the config dir", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SQLitePath(config.NewDefaultConfig())).To(Equal(filepath.Join(c.Dir(), "vectors.sqlite")))
		})

		It("uses the configured path", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.VectorStore.Path = "/data/news.sqlite"
			Expect(c.SQLitePath(cfg)).To(Equal("/data/news.sqlite"))
		})
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("returns every key in section order", func() {
		keys := config.ValidConfigKeys()
		Expect(keys).To(HaveLen(18))
		Expect(keys[0]).To(Equal("vector_store.provider"))
		Expect(keys[len(keys)-1]).To(Equal("eventstream.topic"))
		Expect(config.ValidConfigKeys()).To(Equal(keys))
	})

	It("agrees with IsValidConfigKey", func() {
		for _, k := range config.ValidConfigKeys() {
			Expect(config.IsValidConfigKey(k)).To(BeTrue(), k)
		}
		Expect(config.IsValidConfigKey("storage.sqlite_path")).To(BeFalse())
	})
})

var _ = Describe("PresetConfig", func() {
	It("returns the openai preset as the defaults", func() {
		cfg, err := config.PresetConfig("openai")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.NewDefaultConfig()))
	})

	It("returns ollama preset with local providers", func() {
		cfg, err := config.PresetConfig("OLLAMA")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Embedding.Provider).To(Equal("ollama"))
		Expect(cfg.Embedding.Dimensions).To(Equal(uint(768)))
		Expect(cfg.Enrich.Provider).To(Equal("ollama"))
	})

	It("returns error for unknown preset", func() {
		_, err := config.PresetConfig("anthropic")
		Expect(err).To(MatchError(ContainSubstring("unknown preset")))
		Expect(err).To(MatchError(ContainSubstring("available: ollama, openai")))
		Expect(config.ValidPresetNames()).To(Equal([]string{"ollama", "openai"}))
	})
})

var _ = Describe("ParseConfigTOML", func() {
	It("returns empty config for empty input", func() {
		cfg, err := config.ParseConfigTOML([]byte(""))
		Expect(err).NotTo(HaveOccurred())
		Expect(*cfg).To(Equal(config.Config{}))
	})
})
