package clipsim

import (
	"github.com/spf13/cobra"

	"visionkit/internal/adapter/cache"
	"visionkit/internal/cli"
	"visionkit/internal/usecase"
)

var embedCachePath string

var embedCmd = &cobra.Command{
	Use:   "embed <image_path>",
	Short: "Embed an image and print the serialized vector",
	Long: `Embed an image and print the normalized embedding as JSON, suitable
for saving and reusing with the compare command. With a cache configured
the vector is also stored there, so a later batch run against the same
cache skips re-embedding this image.

Examples:
  clipsim embed product.jpg > product.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().StringVar(&embedCachePath, "cache", "", "embedding cache file (overrides cache.path)")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	path := args[0]
	if err := checkFile(path, "image file"); err != nil {
		return err
	}

	encoder, err := newEncoder()
	if err != nil {
		return err
	}

	reference, err := usecase.NewSimilarityUseCase(encoder, logger).EmbedReference(path)
	if err != nil {
		return err
	}

	if store := openCache(embedCachePath); store != nil {
		defer store.Close()
		if key, kerr := cache.Key(path, encoder.ModelName()); kerr == nil {
			if perr := store.Put(key, reference.Embedding); perr != nil {
				logger.Errorf("failed to cache embedding for %s: %v", path, perr)
			}
		}
	}

	cli.Emit(reference)
	return nil
}
