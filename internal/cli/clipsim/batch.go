package clipsim

import (
	"fmt"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"visionkit/internal/adapter/cache"
	"visionkit/internal/adapter/fs"
	"visionkit/internal/cli"
	"visionkit/internal/domain"
	"visionkit/internal/port"
	"visionkit/internal/usecase"
)

var (
	batchGlobs     []string
	batchCachePath string
)

var batchCmd = &cobra.Command{
	Use:   "batch <reference_path> <frames_dir>",
	Short: "Score every frame in a directory against a reference image",
	Long: `Walk a directory of extracted video frames and score each one against
the reference image. One JSON line is printed per frame, in sorted path
order; frames that fail carry an error field instead of a score. With a
cache configured, repeated runs skip frames that were already embedded.

Examples:
  clipsim batch product.jpg frames/
  clipsim batch product.jpg frames/ --glob "**/frame_*.jpg"
  clipsim batch product.jpg frames/ --cache .visionkit/embeddings.db`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringArrayVar(&batchGlobs, "glob", nil, "frame filename pattern, repeatable (default: common image extensions)")
	batchCmd.Flags().StringVar(&batchCachePath, "cache", "", "embedding cache file (overrides cache.path)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	referencePath, framesDir := args[0], args[1]
	if err := checkFile(referencePath, "reference image"); err != nil {
		return err
	}

	info, err := os.Stat(framesDir)
	if err != nil {
		return domain.Errorf(domain.KindInput, "frames directory not found: %s", framesDir)
	}
	if !info.IsDir() {
		return domain.Errorf(domain.KindInput, "not a directory: %s", framesDir)
	}

	encoder, err := newEncoder()
	if err != nil {
		return err
	}

	store := openCache(batchCachePath)
	if store != nil {
		defer store.Close()
	}

	walker := fs.NewFrameWalker(batchGlobs, nil)
	batch := usecase.NewBatchUseCase(usecase.NewSimilarityUseCase(encoder, logger), walker, store, logger)

	// The bar is created on the first callback, once the frame count is
	// known. It writes to stderr: stdout belongs to the JSON lines.
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex

	progressCallback := func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("Scoring"),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}
		bar.Set(done)
	}

	scores, err := batch.Run(referencePath, framesDir, progressCallback)
	if err != nil {
		return err
	}

	for _, score := range scores {
		if score.Err != nil {
			cli.Emit(frameError{Frame: score.Frame, Error: score.Err.Error()})
			continue
		}
		cli.Emit(frameResult{
			Frame:      score.Frame,
			Similarity: score.Result.Similarity,
			Match:      score.Result.Match,
			Confidence: score.Result.Confidence,
		})
	}
	return nil
}

type frameResult struct {
	Frame      string            `json:"frame"`
	Similarity float64           `json:"similarity"`
	Match      bool              `json:"match"`
	Confidence domain.Confidence `json:"confidence"`
}

type frameError struct {
	Frame string `json:"frame"`
	Error string `json:"error"`
}

// openCache opens the embedding cache at the override path, falling back
// to the configured one. Cache trouble is never fatal: the command just
// runs uncached.
func openCache(override string) port.EmbeddingCache {
	path := cfg.Cache.Path
	if override != "" {
		path = override
	}
	if path == "" {
		return nil
	}

	store, err := cache.NewBoltCache(path)
	if err != nil {
		logger.Errorf("embedding cache disabled: %v", err)
		return nil
	}
	return store
}
