// Package objdetect implements the objdetect command: object detection
// over a single image with a YOLO model.
package objdetect

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"visionkit/config"
	"visionkit/internal/adapter/detector"
	"visionkit/internal/cli"
	"visionkit/internal/domain"
	"visionkit/internal/logging"
	"visionkit/internal/port"
	"visionkit/internal/usecase"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "objdetect <image_path> [confidence_threshold]",
	Short: "List object classes present in an image",
	Long: `objdetect runs a YOLO model over the image and prints the distinct
object class names found above the confidence threshold, as a single
JSON line on stdout.

Example usage:
  objdetect frame_0042.jpg        # Default threshold from config (0.25)
  objdetect frame_0042.jpg 0.5    # Only confident detections`,
	Args:          cobra.RangeArgs(1, 2),
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
	RunE: runDetect,
}

// Execute runs the command under the shared JSON contract.
func Execute() {
	cli.Run(rootCmd)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./visionkit.yaml)")
}

type objectsLine struct {
	Objects []string `json:"objects"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	path := args[0]

	confidence := cfg.Detector.Confidence
	if len(args) == 2 {
		parsed, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return domain.Errorf(domain.KindInput, "invalid confidence threshold: %s", args[1])
		}
		confidence = parsed
	}

	if _, err := os.Stat(path); err != nil {
		return domain.Errorf(domain.KindInput, "image file not found: %s", path)
	}

	det, err := newDetector()
	if err != nil {
		return err
	}

	labels, err := usecase.NewDetectUseCase(det, logger).DetectLabels(path, confidence)
	if err != nil {
		return err
	}
	cli.Emit(objectsLine{Objects: labels})
	return nil
}

// newDetector builds the configured detection provider.
func newDetector() (port.Detector, error) {
	switch cfg.Detector.Provider {
	case "onnx":
		return detector.NewONNXDetector(cfg.Detector, cfg.ONNX.Library, logger), nil
	case "mock":
		return detector.NewMockDetector(), nil
	default:
		return nil, domain.Errorf(domain.KindDependency, "unsupported detector provider: %s", cfg.Detector.Provider)
	}
}
