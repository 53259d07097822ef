package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the visionkit tools.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Detector  DetectorConfig  `yaml:"detector"`
	OCR       OCRConfig       `yaml:"ocr"`
	ONNX      ONNXConfig      `yaml:"onnx"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EmbeddingConfig holds image-encoder configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`   // "onnx", "server", "mock"
	Model     string `yaml:"model"`      // path to the CLIP visual ONNX model
	Dimension int    `yaml:"dimension"`  // embedding vector length
	ServerURL string `yaml:"server_url"` // feature-extraction sidecar ("server" provider)
}

// DetectorConfig holds object-detector configuration.
type DetectorConfig struct {
	Provider   string  `yaml:"provider"` // "onnx", "mock"
	Model      string  `yaml:"model"`    // path to the YOLO ONNX model
	Confidence float64 `yaml:"confidence"`
	IoU        float64 `yaml:"iou"` // NMS overlap threshold
}

// OCRConfig holds text-extraction configuration.
type OCRConfig struct {
	Language   string `yaml:"language"`
	Preprocess bool   `yaml:"preprocess"` // grayscale + upscale before recognition
}

// ONNXConfig holds onnxruntime settings shared by the encoder and detector.
type ONNXConfig struct {
	Library string `yaml:"library"` // path to the onnxruntime shared library ("" = system default)
}

// CacheConfig holds the on-disk embedding cache settings.
type CacheConfig struct {
	Path string `yaml:"path"` // bbolt database path; "" disables caching
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:  "onnx",
			Model:     "models/clip-vit-base-patch32-visual.onnx",
			Dimension: 512,
			ServerURL: "http://127.0.0.1:5000/extract_features",
		},
		Detector: DetectorConfig{
			Provider:   "onnx",
			Model:      "models/yolov8n.onnx",
			Confidence: 0.25,
			IoU:        0.45,
		},
		OCR: OCRConfig{
			Language:   "eng",
			Preprocess: false,
		},
		ONNX: ONNXConfig{
			Library: "",
		},
		Cache: CacheConfig{
			Path: "",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for visionkit.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "visionkit.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".visionkit", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
