// Package initcmder provides the init command for initializing a local
// .newsvec directory in the current working directory.
package initcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/pkg/config"
	"github.com/papercomputeco/newsvec/pkg/dotdir"
)

const initLongDesc string = `Initialize a new .newsvec/ directory in the current working directory.

Creates a local .newsvec/ directory that takes precedence over the default
~/.newsvec/ directory for configuration, credentials and the sqlite vector
store, along with a config.toml holding the default settings.

Use --preset to start from a provider preset or a config.toml fetched from a
URL. A preset overwrites an existing config.toml.

Presets:
  openai   OpenAI embeddings and enrichment (default)
  ollama   Local Ollama embeddings (nomic-embed-text) and enrichment (llama3.2)

Examples:
  newsvec init
  newsvec init --preset ollama
  newsvec init --preset https://example.com/newsvec/config.toml`

const initShortDesc string = "Initialize a local .newsvec/ directory"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), cmd.OutOrStdout(), preset)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "",
		fmt.Sprintf("Config preset (%s) or URL of a config.toml", strings.Join(config.ValidPresetNames(), ", ")))

	return cmd
}

func runInit(ctx context.Context, out io.Writer, preset string) error {
	var (
		cfg *config.Config
		err error
	)
	if preset != "" {
		cfg, err = resolvePreset(ctx, preset)
		if err != nil {
			return err
		}
	}

	dir, created, err := dotdir.NewManager().InitLocal()
	if err != nil {
		return err
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	switch {
	case cfg != nil:
		if err := cfger.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s preset: %s\n", preset, cfger.GetTarget())
	case !fileExists(cfger.GetTarget()):
		if err := cfger.SaveConfig(config.NewDefaultConfig()); err != nil {
			return err
		}
	}

	if !created {
		fmt.Fprintf(out, "Already initialized: %s\n", dir)
		return nil
	}

	fmt.Fprintf(out, "Initialized .newsvec directory: %s\n", dir)
	return nil
}

func resolvePreset(ctx context.Context, preset string) (*config.Config, error) {
	if strings.HasPrefix(preset, "http://") || strings.HasPrefix(preset, "https://") {
		return fetchPreset(ctx, preset)
	}
	return config.PresetConfig(preset)
}

func fetchPreset(ctx context.Context, url string) (*config.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating preset request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching preset %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching preset %s: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading preset: %w", err)
	}

	return config.ParseConfigTOML(data)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
