package persona

import (
	"context"
	"log/slog"
	"time"

	"github.com/cre8hub/persona-pipeline/internal/cache"
	apperrors "github.com/cre8hub/persona-pipeline/internal/errors"
	"github.com/cre8hub/persona-pipeline/internal/model"
	"github.com/cre8hub/persona-pipeline/internal/repository/user"
	"github.com/cre8hub/persona-pipeline/internal/service/warmer"
	"github.com/cre8hub/persona-pipeline/internal/service/youtube"
)

// DefaultMaxVideos is how many recent videos an extraction considers
const DefaultMaxVideos = 10

// Service is the top-level entry point for persona extraction
type Service interface {
	// ExtractFromChannel runs the full pipeline: cache check, warming
	// from the channel's recent videos, inference and persistence
	ExtractFromChannel(ctx context.Context, userID, channelID string, maxVideos int) (*model.PersonaDocument, error)

	// SaveManualPersona persists a caller-supplied persona document.
	// It is a first-class alternative to the automatic path, sharing
	// only the persistence step.
	SaveManualPersona(ctx context.Context, userID string, doc *model.PersonaDocument) (*model.PersonaDocument, error)

	// WarmTranscripts pre-populates the transcript cache from a
	// channel without running inference
	WarmTranscripts(ctx context.Context, userID, channelID string, maxVideos int) (int, error)

	// GetExtractionStatus summarizes cached transcripts and persona
	// state for the user
	GetExtractionStatus(ctx context.Context, userID string) (*model.ExtractionStatus, error)

	// CleanupTranscripts removes the user's cached transcripts and
	// returns how many were deleted
	CleanupTranscripts(ctx context.Context, userID string) (int, error)
}

// personaService implements Service
type personaService struct {
	store   cache.Store
	lister  youtube.Lister
	warmer  warmer.Warmer
	gateway Gateway
	users   user.Repository
	logger  *slog.Logger
}

// NewService creates a persona extraction service
func NewService(store cache.Store, lister youtube.Lister, w warmer.Warmer, gateway Gateway, users user.Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &personaService{
		store:   store,
		lister:  lister,
		warmer:  w,
		gateway: gateway,
		users:   users,
		logger:  logger,
	}
}

// ExtractFromChannel checks the cache first and short-circuits to
// inference when any transcripts are already cached for the user.
// Only on a cold cache does it list the channel and warm. Note the
// short-circuit keys on the user, not the channel: transcripts cached
// from an earlier channel satisfy a request for a different one. That
// mirrors the shipped behavior.
func (s *personaService) ExtractFromChannel(ctx context.Context, userID, channelID string, maxVideos int) (*model.PersonaDocument, error) {
	if userID == "" || channelID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "user ID and channel ID are required")
	}
	if maxVideos <= 0 {
		maxVideos = DefaultMaxVideos
	}

	transcripts := s.cachedTranscripts(ctx, userID)
	if len(transcripts) > 0 {
		s.logger.Info("using cached transcripts",
			slog.String("user_id", userID),
			slog.Int("count", len(transcripts)))
		return s.inferAndPersist(ctx, userID, channelID, transcripts)
	}

	videoIDs, err := s.lister.ListRecentVideos(ctx, channelID, maxVideos)
	if err != nil {
		return nil, err
	}
	if len(videoIDs) == 0 {
		return nil, apperrors.New(apperrors.CodeNoVideosFound, "channel has no videos: "+channelID)
	}

	if _, err := s.warmer.Warm(ctx, userID, videoIDs); err != nil {
		return nil, err
	}

	transcripts = s.cachedTranscripts(ctx, userID)
	if len(transcripts) == 0 {
		return nil, apperrors.New(apperrors.CodeNoTranscripts, "no transcripts available for any video in channel "+channelID)
	}

	return s.inferAndPersist(ctx, userID, channelID, transcripts)
}

// SaveManualPersona persists the given document with manual metadata.
// It never touches the cache, the channel lister or the fetcher.
func (s *personaService) SaveManualPersona(ctx context.Context, userID string, doc *model.PersonaDocument) (*model.PersonaDocument, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "user ID is required")
	}
	if doc == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "persona document is required")
	}

	meta := model.ExtractionMeta{
		Method:      model.ExtractionMethodManual,
		ExtractedAt: time.Now().UTC(),
	}
	if err := s.users.UpdatePersona(ctx, userID, doc, meta); err != nil {
		return nil, err
	}

	s.logger.Info("manual persona saved", slog.String("user_id", userID))
	return doc, nil
}

// WarmTranscripts lists the channel's recent videos and warms the cache
func (s *personaService) WarmTranscripts(ctx context.Context, userID, channelID string, maxVideos int) (int, error) {
	if userID == "" || channelID == "" {
		return 0, apperrors.New(apperrors.CodeInvalidArg, "user ID and channel ID are required")
	}
	if maxVideos <= 0 {
		maxVideos = DefaultMaxVideos
	}

	videoIDs, err := s.lister.ListRecentVideos(ctx, channelID, maxVideos)
	if err != nil {
		return 0, err
	}
	if len(videoIDs) == 0 {
		return 0, apperrors.New(apperrors.CodeNoVideosFound, "channel has no videos: "+channelID)
	}

	return s.warmer.Warm(ctx, userID, videoIDs)
}

// GetExtractionStatus reports cached transcript counts alongside the
// persisted persona state
func (s *personaService) GetExtractionStatus(ctx context.Context, userID string) (*model.ExtractionStatus, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "user ID is required")
	}

	hasPersona, meta, err := s.users.GetExtractionMeta(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &model.ExtractionStatus{HasPersona: hasPersona}
	if meta != nil {
		status.ExtractionMethod = meta.Method
		extractedAt := meta.ExtractedAt
		status.LastExtraction = &extractedAt
	}

	for _, entry := range s.cachedEntries(ctx, userID) {
		status.TranscriptCount++
		status.TotalTranscriptLength += len(entry.Text)
	}
	status.HasCachedTranscripts = status.TranscriptCount > 0

	return status, nil
}

// CleanupTranscripts removes every cached transcript for the user
func (s *personaService) CleanupTranscripts(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, apperrors.New(apperrors.CodeInvalidArg, "user ID is required")
	}
	return s.store.DeleteForUser(ctx, userID)
}

// inferAndPersist sends the transcript set to the gateway and
// replace-writes the returned persona onto the user record
func (s *personaService) inferAndPersist(ctx context.Context, userID, channelID string, transcripts []model.TranscriptRecord) (*model.PersonaDocument, error) {
	doc, err := s.gateway.ExtractPersona(ctx, transcripts)
	if err != nil {
		return nil, err
	}

	meta := model.ExtractionMeta{
		Method:      model.ExtractionMethodChannel,
		ExtractedAt: time.Now().UTC(),
		ChannelID:   channelID,
		VideoCount:  len(transcripts),
	}
	if err := s.users.UpdatePersona(ctx, userID, doc, meta); err != nil {
		return nil, err
	}

	s.logger.Info("persona extracted and saved",
		slog.String("user_id", userID),
		slog.String("channel_id", channelID),
		slog.Int("video_count", len(transcripts)))

	return doc, nil
}

// cachedTranscripts reads the user's cached transcripts as records
// for the gateway call
func (s *personaService) cachedTranscripts(ctx context.Context, userID string) []model.TranscriptRecord {
	entries := s.cachedEntries(ctx, userID)
	records := make([]model.TranscriptRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, model.TranscriptRecord{
			VideoID:    e.VideoID,
			Transcript: e.Text,
			Length:     len(e.Text),
		})
	}
	return records
}

// cachedEntries lists the user's cache namespace. Listing degrades on
// a cache error: an unreadable cache is treated like a cold one and
// logged, while writes escalate inside the warmer.
func (s *personaService) cachedEntries(ctx context.Context, userID string) []cache.Entry {
	entries, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		s.logger.Warn("transcript cache listing failed",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil
	}
	return entries
}
