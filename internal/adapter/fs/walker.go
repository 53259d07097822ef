// Package fs walks frame directories with glob-based filtering.
package fs

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultIncludes covers the image formats the embedding pipeline can
// decode.
var defaultIncludes = []string{
	"**/*.jpg", "**/*.jpeg", "**/*.png", "**/*.bmp", "**/*.webp",
	"**/*.JPG", "**/*.JPEG", "**/*.PNG", "**/*.BMP", "**/*.WEBP",
}

// FrameWalker collects frame images under a directory. Patterns match
// paths relative to the walk root.
type FrameWalker struct {
	includes []string
	excludes []string
}

// NewFrameWalker builds a walker. Empty includes fall back to the
// standard image extensions.
func NewFrameWalker(includes, excludes []string) *FrameWalker {
	if len(includes) == 0 {
		includes = defaultIncludes
	}
	return &FrameWalker{
		includes: includes,
		excludes: excludes,
	}
}

// Walk returns the matching frame paths under root in sorted order, so
// batch output is deterministic across runs.
func (w *FrameWalker) Walk(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var frames []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if w.shouldExclude(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.shouldInclude(relPath) && !w.shouldExclude(relPath) {
			frames = append(frames, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(frames)
	return frames, nil
}

func (w *FrameWalker) shouldInclude(path string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *FrameWalker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}
