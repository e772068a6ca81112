package config

const (
	defaultVectorProvider = "sqlite"

	defaultEmbeddingProvider   = "openai"
	defaultEmbeddingTarget     = "https://api.openai.com"
	defaultEmbeddingModel      = "text-embedding-ada-002"
	defaultEmbeddingDimensions = 1536

	defaultCollection = "news_articles"
	defaultLimit      = 5

	defaultEnrichProvider    = "openai"
	defaultEnrichTarget      = "https://api.openai.com"
	defaultEnrichModel       = "gpt-3.5-turbo"
	defaultEnrichMaxTextSize = 8000

	defaultAPIListen       = ":8081"
	defaultClientAPITarget = "http://localhost:8081"

	defaultEventStreamProvider = "nop"
	defaultEventStreamBrokers  = "localhost:9092"
	defaultEventStreamTopic    = "newsvec.events"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Index: IndexConfig{
			Collection: defaultCollection,
			Limit:      defaultLimit,
		},
		Enrich: EnrichConfig{
			Provider:    defaultEnrichProvider,
			Target:      defaultEnrichTarget,
			Model:       defaultEnrichModel,
			MaxTextSize: defaultEnrichMaxTextSize,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Brokers:  defaultEventStreamBrokers,
			Topic:    defaultEventStreamTopic,
		},
	}
}
