// Package stack resolves newsvec settings for a command and builds the index
// service, enricher and logger from them.
package stack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/newsvec/pkg/config"
	"github.com/papercomputeco/newsvec/pkg/credentials"
	"github.com/papercomputeco/newsvec/pkg/embeddings"
	embeddingutils "github.com/papercomputeco/newsvec/pkg/embeddings/utils"
	"github.com/papercomputeco/newsvec/pkg/enrich"
	"github.com/papercomputeco/newsvec/pkg/eventstream"
	"github.com/papercomputeco/newsvec/pkg/eventstream/kafka"
	"github.com/papercomputeco/newsvec/pkg/eventstream/nop"
	"github.com/papercomputeco/newsvec/pkg/index"
	"github.com/papercomputeco/newsvec/pkg/logger"
	"github.com/papercomputeco/newsvec/pkg/vector"
	vectorutils "github.com/papercomputeco/newsvec/pkg/vector/utils"
)

// IndexFlags are the registry flags of every command that opens the index.
var IndexFlags = []string{
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagVectorStorePath,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagCollection,
	config.FlagEventsProv,
	config.FlagEventsBrokers,
	config.FlagEventsTopic,
}

// EnrichFlags are the registry flags of commands that generate summaries.
var EnrichFlags = []string{
	config.FlagEnrichProv,
	config.FlagEnrichTgt,
	config.FlagEnrichModel,
}

// Settings is the fully resolved configuration of one command invocation.
type Settings struct {
	*config.Config

	// Dir is the resolved .newsvec/ directory.
	Dir string

	// SQLitePath is the sqlite vector store file.
	SQLitePath string
}

// RegisterFlags adds the registry flags named by keys to cmd. Values are read
// back through viper by Load, so the flag targets are not kept.
func RegisterFlags(cmd *cobra.Command, keys ...string) {
	for _, key := range keys {
		switch key {
		case config.FlagEmbeddingDims:
			config.AddUintFlag(cmd, config.Flags, key, new(uint))
		case config.FlagLimit:
			config.AddIntFlag(cmd, config.Flags, key, new(int))
		default:
			config.AddStringFlag(cmd, config.Flags, key, new(string))
		}
	}
}

// Load resolves settings for cmd with the precedence
// flag > env > config.toml > defaults.
func Load(cmd *cobra.Command, keys ...string) (*Settings, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, keys)

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg := fromViper(v)
	return &Settings{
		Config:     cfg,
		Dir:        cfger.Dir(),
		SQLitePath: cfger.SQLitePath(cfg),
	}, nil
}

func fromViper(v *viper.Viper) *config.Config {
	return &config.Config{
		Version: v.GetInt("version"),
		VectorStore: config.VectorStoreConfig{
			Provider: v.GetString("vector_store.provider"),
			Target:   v.GetString("vector_store.target"),
			Path:     v.GetString("vector_store.path"),
		},
		Embedding: config.EmbeddingConfig{
			Provider:   v.GetString("embedding.provider"),
			Target:     v.GetString("embedding.target"),
			Model:      v.GetString("embedding.model"),
			Dimensions: v.GetUint("embedding.dimensions"),
		},
		Index: config.IndexConfig{
			Collection: v.GetString("index.collection"),
			Limit:      v.GetInt("index.limit"),
		},
		Enrich: config.EnrichConfig{
			Provider:    v.GetString("enrich.provider"),
			Target:      v.GetString("enrich.target"),
			Model:       v.GetString("enrich.model"),
			MaxTextSize: v.GetInt("enrich.max_text_size"),
		},
		API: config.APIConfig{
			Listen: v.GetString("api.listen"),
		},
		Client: config.ClientConfig{
			APITarget: v.GetString("client.api_target"),
		},
		EventStream: config.EventStreamConfig{
			Provider: v.GetString("eventstream.provider"),
			Brokers:  v.GetString("eventstream.brokers"),
			Topic:    v.GetString("eventstream.topic"),
		},
	}
}

// NewLogger builds the CLI logger. Logs go to stderr so command output on
// stdout stays pipeable.
func NewLogger(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	return logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(true),
		logger.WithWriter(os.Stderr),
	)
}

// NewService opens the vector store, embedder and event publisher named by s
// and wires them into an index service.
func NewService(ctx context.Context, s *Settings, log *slog.Logger) (*index.Service, error) {
	creds, err := credentials.NewManager(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	embedder, err := newEmbedder(s, creds)
	if err != nil {
		return nil, err
	}

	var qdrantKey string
	if s.VectorStore.Provider == vectorutils.ProviderQdrant {
		qdrantKey, err = creds.ResolveKey("qdrant")
		if err != nil {
			_ = embedder.Close()
			return nil, fmt.Errorf("loading credentials: %w", err)
		}
	}

	driver, err := vectorutils.NewVectorDriver(ctx, &vectorutils.NewVectorDriverOpts{
		ProviderType: s.VectorStore.Provider,
		Target:       s.VectorStore.Target,
		Path:         s.SQLitePath,
		APIKey:       qdrantKey,
		Logger:       log,
	})
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("opening vector store: %w", err)
	}

	publisher, err := NewPublisher(s.EventStream, log)
	if err != nil {
		_ = embedder.Close()
		_ = driver.Close()
		return nil, err
	}

	log.Debug("index service ready",
		"vector_store", s.VectorStore.Provider,
		"embedding_provider", s.Embedding.Provider,
		"embedding_model", s.Embedding.Model,
		"events", s.EventStream.Provider,
	)

	return index.New(index.Config{
		Driver:   driver,
		Embedder: embedder,
		Embedding: vector.CollectionConfig{
			Provider:   s.Embedding.Provider,
			Model:      s.Embedding.Model,
			Dimensions: s.Embedding.Dimensions,
		},
		Publisher: publisher,
		Logger:    log,
	}), nil
}

func newEmbedder(s *Settings, creds *credentials.Manager) (embeddings.Embedder, error) {
	var apiKey string
	if s.Embedding.Provider == embeddingutils.ProviderOpenAI {
		var err error
		apiKey, err = creds.ResolveKey("openai")
		if err != nil {
			return nil, fmt.Errorf("loading credentials: %w", err)
		}
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: s.Embedding.Provider,
		TargetURL:    s.Embedding.Target,
		Model:        s.Embedding.Model,
		APIKey:       apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}

// NewPublisher builds the configured event publisher.
func NewPublisher(c config.EventStreamConfig, log *slog.Logger) (eventstream.Publisher, error) {
	switch c.Provider {
	case "", "nop":
		return nop.NewPublisher(log), nil
	case "kafka":
		var brokers []string
		for _, b := range strings.Split(c.Brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		p, err := kafka.NewPublisher(kafka.Config{Brokers: brokers, Topic: c.Topic})
		if err != nil {
			return nil, fmt.Errorf("creating kafka publisher: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported event stream provider: %s", c.Provider)
	}
}

// NewEnricher builds the summary and topic generator named by s.
func NewEnricher(s *Settings, log *slog.Logger) (enrich.Enricher, error) {
	var apiKey string
	if strings.EqualFold(s.Enrich.Provider, "openai") {
		creds, err := credentials.NewManager(s.Dir)
		if err != nil {
			return nil, fmt.Errorf("loading credentials: %w", err)
		}
		apiKey, err = creds.ResolveKey("openai")
		if err != nil {
			return nil, fmt.Errorf("loading credentials: %w", err)
		}
	}

	call, err := enrich.NewLLMCaller(enrich.LLMCallerConfig{
		Provider: s.Enrich.Provider,
		Model:    s.Enrich.Model,
		APIKey:   apiKey,
		BaseURL:  s.Enrich.Target,
	})
	if err != nil {
		return nil, fmt.Errorf("creating enricher: %w", err)
	}

	return enrich.New(enrich.Config{
		Call:        call,
		MaxTextSize: s.Enrich.MaxTextSize,
		Logger:      log,
	}), nil
}

// ErrNoArticles is returned when a command is given nothing to ingest.
var ErrNoArticles = errors.New("no article files found")
