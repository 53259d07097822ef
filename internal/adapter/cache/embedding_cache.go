// Package cache provides a persistent embedding cache so repeated batch
// runs only pay for inference once per frame.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var bucketEmbeddings = []byte("embeddings")

type storedEmbedding struct {
	Vector []float32 `json:"vector"`
}

// BoltCache stores embeddings in a bbolt file keyed by content hash.
type BoltCache struct {
	db *bbolt.DB
}

// NewBoltCache opens or creates the cache database at the given path.
func NewBoltCache(path string) (*BoltCache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEmbeddings)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}
	return &BoltCache{db: db}, nil
}

// Get returns the cached vector for the key, if present. Entries that no
// longer parse are treated as misses.
func (c *BoltCache) Get(key string) ([]float32, bool) {
	var vector []float32
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketEmbeddings).Get([]byte(key))
		if data == nil {
			return nil
		}
		var stored storedEmbedding
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil
		}
		vector = stored.Vector
		return nil
	})
	if err != nil || vector == nil {
		return nil, false
	}
	return vector, true
}

// Put stores the vector under the key.
func (c *BoltCache) Put(key string, vector []float32) error {
	data, err := json.Marshal(storedEmbedding{Vector: vector})
	if err != nil {
		return fmt.Errorf("failed to serialize embedding: %w", err)
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEmbeddings).Put([]byte(key), data)
	})
}

// Close closes the underlying database.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// Key derives a cache key from the file content and the model that would
// embed it. Renamed copies of a frame hit the same entry; switching
// models never reuses stale vectors.
func Key(path, model string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	hash.Write([]byte(model))
	return hex.EncodeToString(hash.Sum(nil)), nil
}
