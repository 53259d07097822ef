package clipsim

import (
	"github.com/spf13/cobra"

	"visionkit/internal/cli"
	"visionkit/internal/usecase"
)

var similarityCmd = &cobra.Command{
	Use:   "similarity <reference_path> <frame_path>",
	Short: "Score one frame against a reference image",
	Long: `Embed both images and print the cosine similarity, whether it clears
the match threshold, and a confidence bucket.

Examples:
  clipsim similarity product.jpg frame_0042.jpg`,
	Args: cobra.ExactArgs(2),
	RunE: runSimilarity,
}

func init() {
	rootCmd.AddCommand(similarityCmd)
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	referencePath, framePath := args[0], args[1]
	if err := checkFile(referencePath, "reference image"); err != nil {
		return err
	}
	if err := checkFile(framePath, "frame image"); err != nil {
		return err
	}

	encoder, err := newEncoder()
	if err != nil {
		return err
	}

	result, err := usecase.NewSimilarityUseCase(encoder, logger).Similarity(referencePath, framePath)
	if err != nil {
		return err
	}
	cli.Emit(result)
	return nil
}
