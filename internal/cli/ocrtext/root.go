// Package ocrtext implements the ocrtext command: multi-pass OCR over a
// single image.
package ocrtext

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"visionkit/config"
	"visionkit/internal/adapter/tesseract"
	"visionkit/internal/cli"
	"visionkit/internal/domain"
	"visionkit/internal/logging"
	"visionkit/internal/usecase"
)

var (
	cfgFile    string
	preprocess bool
	cfg        *config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ocrtext <image_path>",
	Short: "Extract visible text from an image",
	Long: `ocrtext runs Tesseract over the image in three passes (uniform block,
sparse text, automatic segmentation), merges the results and prints the
text as a single JSON line on stdout. An image with no readable text
yields empty text, not an error.

Example usage:
  ocrtext frame_0042.jpg
  ocrtext shelf_label.jpg --preprocess   # Grayscale and upscale first`,
	Args:          cobra.ExactArgs(1),
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
	RunE: runReadText,
}

// Execute runs the command under the shared JSON contract.
func Execute() {
	cli.Run(rootCmd)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./visionkit.yaml)")
	rootCmd.Flags().BoolVar(&preprocess, "preprocess", false, "grayscale and upscale the image before recognition")
}

type textLine struct {
	Text string `json:"text"`
}

func runReadText(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return domain.Errorf(domain.KindInput, "image file not found: %s", path)
	}

	ocrCfg := cfg.OCR
	if preprocess {
		ocrCfg.Preprocess = true
	}

	engine := tesseract.NewEngine(ocrCfg, logger)
	text, err := usecase.NewTextUseCase(engine, logger).ReadText(path)
	if err != nil {
		return err
	}
	cli.Emit(textLine{Text: text})
	return nil
}
