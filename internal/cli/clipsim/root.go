// Package clipsim implements the clipsim command: CLIP image embedding
// and cosine similarity scoring for product matching.
package clipsim

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"visionkit/config"
	"visionkit/internal/adapter/embedding"
	"visionkit/internal/cli"
	"visionkit/internal/domain"
	"visionkit/internal/logging"
	"visionkit/internal/port"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clipsim",
	Short: "Score visual similarity between a reference image and frames",
	Long: `clipsim embeds images with a CLIP visual encoder and scores cosine
similarity between a reference product photo and candidate frames.
Results are printed as a single JSON line on stdout.

Example usage:
  clipsim similarity ref.jpg frame.jpg   # Score one frame
  clipsim embed ref.jpg > ref.json       # Serialize the reference embedding
  clipsim compare frame.jpg ref.json     # Score against a saved embedding
  clipsim batch ref.jpg frames/          # Score a whole frame directory`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = logging.New(cfg.Logging.Level)
		return nil
	},
}

// Execute runs the command under the shared JSON contract.
func Execute() {
	cli.Run(rootCmd)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./visionkit.yaml)")
}

// newEncoder builds the configured embedding provider.
func newEncoder() (port.ImageEmbedder, error) {
	switch cfg.Embedding.Provider {
	case "onnx":
		return embedding.NewONNXEncoder(cfg.Embedding, cfg.ONNX.Library, logger), nil
	case "server":
		return embedding.NewServerEncoder(cfg.Embedding.ServerURL, cfg.Embedding.Dimension, logger), nil
	case "mock":
		return embedding.NewMockEncoder(cfg.Embedding.Dimension), nil
	default:
		return nil, domain.Errorf(domain.KindDependency, "unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// checkFile rejects missing inputs before any model work starts.
func checkFile(path, label string) error {
	if _, err := os.Stat(path); err != nil {
		return domain.Errorf(domain.KindInput, "%s not found: %s", label, path)
	}
	return nil
}
