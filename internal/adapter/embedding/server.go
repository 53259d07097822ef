package embedding

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"visionkit/internal/domain"
	"visionkit/internal/logging"
)

// ServerEncoder embeds images through an HTTP feature-extraction sidecar.
// The server receives the image as a multipart upload and responds with
// {"features": [...]}.
type ServerEncoder struct {
	url       string
	dimension int
	client    *http.Client
	log       *logging.Logger
}

type featureResponse struct {
	Features []float32 `json:"features"`
	Error    string    `json:"error"`
}

// NewServerEncoder builds an encoder that posts images to the given URL.
func NewServerEncoder(url string, dimension int, log *logging.Logger) *ServerEncoder {
	return &ServerEncoder{
		url:       url,
		dimension: dimension,
		client:    &http.Client{Timeout: 60 * time.Second},
		log:       log,
	}
}

// EmbedImage uploads the image and returns the feature vector the server
// produced.
func (e *ServerEncoder) EmbedImage(path string) ([]float32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, domain.Errorf(domain.KindInput, "failed to read image %s: %v", path, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to build upload request: %v", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, domain.Errorf(domain.KindInput, "failed to read image %s: %v", path, err)
	}
	if err := writer.Close(); err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to build upload request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, e.url, &buf)
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to build upload request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, domain.Errorf(domain.KindDependency,
			"embedding server unreachable at %s: %v (start the feature-extraction service)", e.url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to read server response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.Errorf(domain.KindModel,
			"embedding server returned status %d: %s", resp.StatusCode, bodyPreview(body))
	}

	var parsed featureResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, domain.Errorf(domain.KindModel,
			"failed to parse server response: %v (%s)", err, bodyPreview(body))
	}
	if parsed.Error != "" {
		return nil, domain.Errorf(domain.KindModel, "embedding server error: %s", parsed.Error)
	}
	if len(parsed.Features) == 0 {
		return nil, domain.Errorf(domain.KindModel, "embedding server returned no features")
	}
	e.log.Debugf("embedding server returned %d features for %s", len(parsed.Features), path)
	return parsed.Features, nil
}

// Dimension returns the configured embedding width.
func (e *ServerEncoder) Dimension() int {
	return e.dimension
}

// ModelName identifies the backend for cache keys.
func (e *ServerEncoder) ModelName() string {
	return "clip-server"
}

func bodyPreview(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
