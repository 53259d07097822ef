// Package onnxrt initializes the shared onnxruntime environment used by
// the embedding and detection sessions.
package onnxrt

import (
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"visionkit/internal/domain"
)

var mu sync.Mutex

// Ensure initializes the onnxruntime environment once per process.
// libraryPath overrides the default location of the onnxruntime shared
// library; an empty path leaves the library lookup to the loader.
func Ensure(libraryPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return domain.Errorf(domain.KindDependency,
			"onnxruntime is not available: %v (install the onnxruntime shared library or set onnx.library in the config)", err)
	}
	return nil
}
