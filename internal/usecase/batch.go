package usecase

import (
	"visionkit/internal/adapter/cache"
	"visionkit/internal/adapter/fs"
	"visionkit/internal/domain"
	"visionkit/internal/logging"
	"visionkit/internal/port"
)

// BatchUseCase scores every frame under a directory against one
// reference image. Individual frame failures are reported per frame
// rather than aborting the run.
type BatchUseCase struct {
	similarity *SimilarityUseCase
	walker     *fs.FrameWalker
	cache      port.EmbeddingCache
	log        *logging.Logger
}

// NewBatchUseCase builds the use case. The cache may be nil, in which
// case every frame is embedded from scratch.
func NewBatchUseCase(similarity *SimilarityUseCase, walker *fs.FrameWalker, embeddingCache port.EmbeddingCache, log *logging.Logger) *BatchUseCase {
	return &BatchUseCase{
		similarity: similarity,
		walker:     walker,
		cache:      embeddingCache,
		log:        log,
	}
}

// Run walks the frames directory and scores each frame in sorted path
// order. The progress callback, if set, is invoked after every frame. A
// reference that cannot be embedded aborts the run; a frame that cannot
// be embedded becomes a scored entry carrying its error.
func (u *BatchUseCase) Run(referencePath, framesDir string, progress func(done, total int)) ([]domain.FrameScore, error) {
	frames, err := u.walker.Walk(framesDir)
	if err != nil {
		return nil, domain.Errorf(domain.KindInput, "failed to scan frames directory %s: %v", framesDir, err)
	}
	if len(frames) == 0 {
		u.log.Infof("no frames matched under %s", framesDir)
		return []domain.FrameScore{}, nil
	}

	reference, err := u.embedCached(referencePath)
	if err != nil {
		return nil, err
	}

	scores := make([]domain.FrameScore, 0, len(frames))
	for i, frame := range frames {
		score := domain.FrameScore{Frame: frame}
		vector, err := u.embedCached(frame)
		if err != nil {
			score.Err = err
		} else {
			result := domain.ScoreSimilarity(domain.CosineSimilarity(reference, vector))
			score.Result = &result
		}
		scores = append(scores, score)
		if progress != nil {
			progress(i+1, len(frames))
		}
	}
	return scores, nil
}

// embedCached embeds through the cache when one is configured. Cache
// failures degrade to plain embedding, never to a failed frame.
func (u *BatchUseCase) embedCached(path string) ([]float32, error) {
	if u.cache == nil {
		return u.similarity.Embed(path)
	}

	key, err := cache.Key(path, u.similarity.encoder.ModelName())
	if err != nil {
		u.log.Debugf("cache key failed for %s: %v", path, err)
		return u.similarity.Embed(path)
	}
	if vector, ok := u.cache.Get(key); ok {
		return vector, nil
	}

	vector, err := u.similarity.Embed(path)
	if err != nil {
		return nil, err
	}
	if err := u.cache.Put(key, vector); err != nil {
		u.log.Errorf("failed to cache embedding for %s: %v", path, err)
	}
	return vector, nil
}
