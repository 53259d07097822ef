package usecase

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"visionkit/internal/domain"
	"visionkit/internal/logging"
)

// fakeEncoder serves fixed vectors by path. Copies are returned so the
// normalization in Embed cannot corrupt the fixtures.
type fakeEncoder struct {
	vectors map[string][]float32
	errs    map[string]error
	calls   int
}

func (f *fakeEncoder) EmbedImage(path string) ([]float32, error) {
	f.calls++
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	v, ok := f.vectors[path]
	if !ok {
		return nil, domain.Errorf(domain.KindInput, "no fixture for %s", path)
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out, nil
}

func (f *fakeEncoder) Dimension() int { return 4 }

func (f *fakeEncoder) ModelName() string { return "fake" }

func newSimilarityTest(vectors map[string][]float32) *SimilarityUseCase {
	return NewSimilarityUseCase(&fakeEncoder{vectors: vectors}, logging.Discard())
}

func TestEmbedNormalizes(t *testing.T) {
	uc := newSimilarityTest(map[string][]float32{
		"a.jpg": {3, 4, 0, 0},
	})

	got, err := uc.Embed("a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float32{0.6, 0.8, 0, 0}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("component %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestEmbedReferenceDimension(t *testing.T) {
	uc := newSimilarityTest(map[string][]float32{
		"a.jpg": {1, 0, 0, 0},
	})

	ref, err := uc.EmbedReference("a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Dimension != 4 {
		t.Errorf("expected dimension 4, got %d", ref.Dimension)
	}
	if len(ref.Embedding) != 4 {
		t.Errorf("expected 4 components, got %d", len(ref.Embedding))
	}
}

func TestSimilaritySelf(t *testing.T) {
	uc := newSimilarityTest(map[string][]float32{
		"a.jpg": {0.3, 0.5, 0.1, 0.7},
	})

	result, err := uc.Similarity("a.jpg", "a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Similarity < 0.99 {
		t.Errorf("expected self similarity near 1, got %v", result.Similarity)
	}
	if !result.Match {
		t.Error("expected self comparison to match")
	}
	if result.Confidence != domain.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", result.Confidence)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	uc := newSimilarityTest(map[string][]float32{
		"a.jpg": {0.3, 0.5, 0.1, 0.7},
		"b.jpg": {0.9, 0.1, 0.4, 0.2},
	})

	ab, err := uc.Similarity("a.jpg", "b.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := uc.Similarity("b.jpg", "a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ab.Similarity != ba.Similarity {
		t.Errorf("expected symmetric similarity, got %v vs %v", ab.Similarity, ba.Similarity)
	}
}

func TestCompareMatchesDirectSimilarity(t *testing.T) {
	vectors := map[string][]float32{
		"ref.jpg":   {0.3, 0.5, 0.1, 0.7},
		"frame.jpg": {0.2, 0.6, 0.3, 0.5},
	}
	uc := newSimilarityTest(vectors)

	direct, err := uc.Similarity("ref.jpg", "frame.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := uc.EmbedReference("ref.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	viaFile, err := uc.CompareWithEmbedding("frame.jpg", stored.Embedding)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(direct.Similarity-viaFile.Similarity) > 1e-9 {
		t.Errorf("expected identical scores, got %v vs %v", direct.Similarity, viaFile.Similarity)
	}
	if direct.Match != viaFile.Match || direct.Confidence != viaFile.Confidence {
		t.Errorf("expected identical verdicts, got %+v vs %+v", direct, viaFile)
	}
}

func TestCompareScaleInvariant(t *testing.T) {
	uc := newSimilarityTest(map[string][]float32{
		"frame.jpg": {1, 0, 0, 0},
	})

	unit, err := uc.CompareWithEmbedding("frame.jpg", []float32{1, 0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scaled, err := uc.CompareWithEmbedding("frame.jpg", []float32{25, 0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit.Similarity != scaled.Similarity {
		t.Errorf("expected scale invariant score, got %v vs %v", unit.Similarity, scaled.Similarity)
	}
}

func TestCompareEmptyVector(t *testing.T) {
	uc := newSimilarityTest(map[string][]float32{
		"frame.jpg": {1, 0, 0, 0},
	})

	_, err := uc.CompareWithEmbedding("frame.jpg", nil)
	if err == nil {
		t.Fatal("expected error for empty vector")
	}
	if domain.KindOf(err) != domain.KindFormat {
		t.Errorf("expected format error, got %v", domain.KindOf(err))
	}
}

func TestCompareDimensionMismatch(t *testing.T) {
	uc := newSimilarityTest(map[string][]float32{
		"frame.jpg": {1, 0, 0, 0},
	})

	_, err := uc.CompareWithEmbedding("frame.jpg", []float32{1, 0})
	if err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}
	if domain.KindOf(err) != domain.KindFormat {
		t.Errorf("expected format error, got %v", domain.KindOf(err))
	}
}

func TestReadEmbeddingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.json")
	if err := os.WriteFile(path, []byte(`{"embedding": [0.1, 0.2, 0.3], "dimension": 3}`), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadEmbeddingFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 components, got %d", len(got))
	}
	if math.Abs(float64(got[1])-0.2) > 1e-6 {
		t.Errorf("expected second component 0.2, got %v", got[1])
	}
}

func TestReadEmbeddingFileMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.json")
	if err := os.WriteFile(path, []byte(`{"vector": [0.1, 0.2]}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadEmbeddingFile(path)
	if err == nil {
		t.Fatal("expected error for missing embedding key")
	}
	if domain.KindOf(err) != domain.KindFormat {
		t.Errorf("expected format error, got %v", domain.KindOf(err))
	}
	if err.Error() != "invalid embedding file format" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestReadEmbeddingFileBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadEmbeddingFile(path)
	if err == nil {
		t.Fatal("expected error for unparseable file")
	}
	if domain.KindOf(err) != domain.KindFormat {
		t.Errorf("expected format error, got %v", domain.KindOf(err))
	}
}

func TestSimilarityPropagatesEncoderError(t *testing.T) {
	enc := &fakeEncoder{
		vectors: map[string][]float32{"ref.jpg": {1, 0, 0, 0}},
		errs:    map[string]error{"frame.jpg": domain.Errorf(domain.KindModel, "inference failed")},
	}
	uc := NewSimilarityUseCase(enc, logging.Discard())

	_, err := uc.Similarity("ref.jpg", "frame.jpg")
	if err == nil {
		t.Fatal("expected encoder error to propagate")
	}
	if domain.KindOf(err) != domain.KindModel {
		t.Errorf("expected model error, got %v", domain.KindOf(err))
	}
}
