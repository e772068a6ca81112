package config

import (
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag describes a CLI flag shared by several commands, e.g. --collection on
// ingest, search and list. Defaults are not stored here: they are read from
// NewDefaultConfig() through the flag's viper key.
type Flag struct {
	// Name is the long flag name (e.g. "collection").
	Name string

	// Shorthand is the one-letter short flag (e.g. "c"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "index.collection").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet maps registry keys to flag definitions.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagVectorStoreProv = "vector-store-provider"
	FlagVectorStoreTgt  = "vector-store-target"
	FlagVectorStorePath = "vector-store-path"
	FlagEmbeddingProv   = "embedding-provider"
	FlagEmbeddingTgt    = "embedding-target"
	FlagEmbeddingModel  = "embedding-model"
	FlagEmbeddingDims   = "embedding-dimensions"
	FlagCollection      = "collection"
	FlagLimit           = "limit"
	FlagEnrichProv      = "enrich-provider"
	FlagEnrichTgt       = "enrich-target"
	FlagEnrichModel     = "enrich-model"
	FlagAPIListen       = "listen"
	FlagAPITarget       = "api-target"
	FlagEventsProv      = "events-provider"
	FlagEventsBrokers   = "events-brokers"
	FlagEventsTopic     = "events-topic"
)

// Flags is the registry of every flag shared between newsvec commands.
var Flags = FlagSet{
	FlagVectorStoreProv: {Name: "vector-store-provider", ViperKey: "vector_store.provider", Description: "Vector store provider (memory, sqlite, chroma, qdrant, postgres)"},
	FlagVectorStoreTgt:  {Name: "vector-store-target", ViperKey: "vector_store.target", Description: "Vector store URL, address or connection string"},
	FlagVectorStorePath: {Name: "vector-store-path", ViperKey: "vector_store.path", Description: "Path to the sqlite vector store"},
	FlagEmbeddingProv:   {Name: "embedding-provider", ViperKey: "embedding.provider", Description: "Embedding provider (openai, ollama)"},
	FlagEmbeddingTgt:    {Name: "embedding-target", ViperKey: "embedding.target", Description: "Embedding provider URL"},
	FlagEmbeddingModel:  {Name: "embedding-model", ViperKey: "embedding.model", Description: "Embedding model"},
	FlagEmbeddingDims:   {Name: "embedding-dimensions", ViperKey: "embedding.dimensions", Description: "Embedding dimensions"},
	FlagCollection:      {Name: "collection", Shorthand: "c", ViperKey: "index.collection", Description: "Collection name"},
	FlagLimit:           {Name: "limit", Shorthand: "n", ViperKey: "index.limit", Description: "Maximum number of results"},
	FlagEnrichProv:      {Name: "enrich-provider", ViperKey: "enrich.provider", Description: "Summary and topic provider (openai, ollama)"},
	FlagEnrichTgt:       {Name: "enrich-target", ViperKey: "enrich.target", Description: "Summary and topic provider URL"},
	FlagEnrichModel:     {Name: "enrich-model", ViperKey: "enrich.model", Description: "Summary and topic model"},
	FlagAPIListen:       {Name: "listen", Shorthand: "l", ViperKey: "api.listen", Description: "Address for the API server to listen on"},
	FlagAPITarget:       {Name: "api-target", ViperKey: "client.api_target", Description: "URL of a running newsvec API server"},
	FlagEventsProv:      {Name: "events-provider", ViperKey: "eventstream.provider", Description: "Event publisher (nop, kafka)"},
	FlagEventsBrokers:   {Name: "events-brokers", ViperKey: "eventstream.brokers", Description: "Comma-separated kafka brokers"},
	FlagEventsTopic:     {Name: "events-topic", ViperKey: "eventstream.topic", Description: "Kafka topic for index events"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// Name, shorthand, default and description all come from the registry entry.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	addFlag(cmd, fs, key, func(f *pflag.FlagSet, def Flag, v *viper.Viper) {
		f.StringVarP(target, def.Name, def.Shorthand, v.GetString(def.ViperKey), def.Description)
	})
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, key string, target *uint) {
	addFlag(cmd, fs, key, func(f *pflag.FlagSet, def Flag, v *viper.Viper) {
		f.UintVarP(target, def.Name, def.Shorthand, v.GetUint(def.ViperKey), def.Description)
	})
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, key string, target *int) {
	addFlag(cmd, fs, key, func(f *pflag.FlagSet, def Flag, v *viper.Viper) {
		f.IntVarP(target, def.Name, def.Shorthand, v.GetInt(def.ViperKey), def.Description)
	})
}

func addFlag(cmd *cobra.Command, fs FlagSet, key string, register func(*pflag.FlagSet, Flag, *viper.Viper)) {
	def, ok := fs[key]
	if !ok {
		return
	}
	register(cmd.Flags(), def, defaults())
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this after InitViper so flags sit on top of the
// precedence chain.
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, keys []string) {
	for _, key := range keys {
		def, ok := fs[key]
		if !ok {
			continue
		}
		if f := cmd.Flags().Lookup(def.Name); f != nil {
			_ = v.BindPFlag(def.ViperKey, f)
		}
	}
}

// defaults is a viper holding only NewDefaultConfig(), used for flag defaults.
var defaults = sync.OnceValue(func() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
})
