package warmer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cre8hub/persona-pipeline/internal/cache"
	apperrors "github.com/cre8hub/persona-pipeline/internal/errors"
	"github.com/cre8hub/persona-pipeline/internal/service/transcript"
)

// Warmer populates the transcript cache for a batch of videos
type Warmer interface {
	// Warm fetches and caches transcripts for the given videos and
	// returns how many were newly cached. Per-video failures are
	// absorbed; only a broken cache backend escalates.
	Warm(ctx context.Context, userID string, videoIDs []string) (int, error)
}

// Options controls batch concurrency, pacing and cache TTL
type Options struct {
	// BatchSize is how many videos are fetched concurrently
	BatchSize int
	// BatchDelay is the pause between batches, respecting upstream rate limits
	BatchDelay time.Duration
	// TTL is the cache expiry for newly stored transcripts
	TTL time.Duration
}

// DefaultOptions returns the reference warming configuration:
// 3 concurrent fetches, 500ms between batches, 24h expiry
func DefaultOptions() Options {
	return Options{
		BatchSize:  3,
		BatchDelay: 500 * time.Millisecond,
		TTL:        24 * time.Hour,
	}
}

// taskOutcome is the per-video result of one warming task
type taskOutcome int

const (
	outcomeNewlyCached taskOutcome = iota
	outcomeAlreadyCached
	outcomeNoTranscript
	outcomeFailed
)

// taskResult records what happened for one video so failures stay
// isolated and explicit instead of being swallowed ad hoc
type taskResult struct {
	videoID  string
	outcome  taskOutcome
	err      error
	cacheErr error
}

// cacheWarmer implements Warmer
type cacheWarmer struct {
	store   cache.Store
	fetcher transcript.Fetcher
	opts    Options
	logger  *slog.Logger
}

// NewWarmer creates a Warmer with the given collaborators
func NewWarmer(store cache.Store, fetcher transcript.Fetcher, opts Options, logger *slog.Logger) Warmer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultOptions().BatchSize
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultOptions().TTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &cacheWarmer{
		store:   store,
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
	}
}

// Warm processes videoIDs in fixed-size batches. Tasks within a batch
// run concurrently; batches run strictly one after another with a
// pacing delay in between. That sequencing is the throttling
// mechanism against the rate-limited caption source.
func (w *cacheWarmer) Warm(ctx context.Context, userID string, videoIDs []string) (int, error) {
	if userID == "" {
		return 0, apperrors.New(apperrors.CodeInvalidArg, "user ID is required")
	}
	if len(videoIDs) == 0 {
		return 0, nil
	}

	limiter := rate.NewLimiter(rate.Every(w.opts.BatchDelay), 1)
	if w.opts.BatchDelay <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	newlyCached := 0
	for start := 0; start < len(videoIDs); start += w.opts.BatchSize {
		if err := limiter.Wait(ctx); err != nil {
			return newlyCached, apperrors.Wrap(err, apperrors.CodeExternal, "warming canceled")
		}

		end := start + w.opts.BatchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		results := w.warmBatch(ctx, userID, videoIDs[start:end])
		for _, res := range results {
			if res.cacheErr != nil {
				// A dead cache invalidates the whole warming pass
				return newlyCached, res.cacheErr
			}
			switch res.outcome {
			case outcomeNewlyCached:
				newlyCached++
			case outcomeNoTranscript:
				w.logger.Warn("no transcript for video", slog.String("video_id", res.videoID))
			case outcomeFailed:
				w.logger.Warn("transcript fetch failed",
					slog.String("video_id", res.videoID),
					slog.Any("error", res.err))
			}
		}
	}

	w.logger.Info("cache warming complete",
		slog.String("user_id", userID),
		slog.Int("videos", len(videoIDs)),
		slog.Int("newly_cached", newlyCached))

	return newlyCached, nil
}

// warmBatch runs one task per video concurrently and collects each
// outcome independently, so one video's failure cannot abort its
// siblings
func (w *cacheWarmer) warmBatch(ctx context.Context, userID string, videoIDs []string) []taskResult {
	results := make([]taskResult, len(videoIDs))

	var wg sync.WaitGroup
	for i, videoID := range videoIDs {
		wg.Add(1)
		go func(i int, videoID string) {
			defer wg.Done()
			results[i] = w.warmOne(ctx, userID, videoID)
		}(i, videoID)
	}
	wg.Wait()

	return results
}

// warmOne checks the cache, fetches on a miss, and stores the result.
// The existence check keeps each key written at most once per TTL
// window.
func (w *cacheWarmer) warmOne(ctx context.Context, userID, videoID string) taskResult {
	key := cache.Key{UserID: userID, VideoID: videoID}

	exists, err := w.store.Exists(ctx, key)
	if err != nil {
		return taskResult{videoID: videoID, cacheErr: err}
	}
	if exists {
		return taskResult{videoID: videoID, outcome: outcomeAlreadyCached}
	}

	text, ok, err := w.fetcher.Fetch(ctx, videoID)
	if err != nil {
		return taskResult{videoID: videoID, outcome: outcomeFailed, err: err}
	}
	if !ok {
		return taskResult{videoID: videoID, outcome: outcomeNoTranscript}
	}

	if err := w.store.Set(ctx, key, text, w.opts.TTL); err != nil {
		return taskResult{videoID: videoID, cacheErr: err}
	}
	return taskResult{videoID: videoID, outcome: outcomeNewlyCached}
}
