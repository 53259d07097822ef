package clipsim

import (
	"github.com/spf13/cobra"

	"visionkit/internal/cli"
	"visionkit/internal/usecase"
)

var compareCmd = &cobra.Command{
	Use:   "compare <frame_path> <embedding_json_file>",
	Short: "Score a frame against a saved reference embedding",
	Long: `Score a frame against an embedding previously serialized with the
embed command. The frame is embedded once; the reference vector is read
from the file, so scanning many frames against one product only pays for
the reference embedding once.

Examples:
  clipsim compare frame_0042.jpg product.json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	framePath, embeddingPath := args[0], args[1]
	if err := checkFile(framePath, "frame image"); err != nil {
		return err
	}
	if err := checkFile(embeddingPath, "embedding file"); err != nil {
		return err
	}

	// Parse the stored vector before touching the model, so a malformed
	// file is rejected without paying for inference.
	vector, err := usecase.ReadEmbeddingFile(embeddingPath)
	if err != nil {
		return err
	}

	encoder, err := newEncoder()
	if err != nil {
		return err
	}

	result, err := usecase.NewSimilarityUseCase(encoder, logger).CompareWithEmbedding(framePath, vector)
	if err != nil {
		return err
	}
	cli.Emit(result)
	return nil
}
