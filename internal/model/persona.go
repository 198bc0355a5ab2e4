package model

import "time"

// Extraction methods recorded on a user's persona metadata
const (
	ExtractionMethodChannel = "youtube_channel"
	ExtractionMethodManual  = "manual"
)

// PersonaDocument is the structured persona produced by the inference
// service (or supplied directly through the manual-input path).
// Each extraction replaces the previous document wholesale.
type PersonaDocument struct {
	ExtractedFrom          string   `json:"extractedFrom,omitempty"`
	PersonalityTraits      []string `json:"personalityTraits,omitempty"`
	CommunicationStyle     string   `json:"communicationStyle,omitempty"`
	ContentPreferences     []string `json:"contentPreferences,omitempty"`
	TargetAudienceInsights string   `json:"targetAudienceInsights,omitempty"`
	Summary                string   `json:"summary,omitempty"`
}

// ExtractionMeta records how and when a persona was produced
type ExtractionMeta struct {
	Method      string    `json:"method" db:"persona_method"`
	ExtractedAt time.Time `json:"extracted_at" db:"persona_extracted_at"`
	ChannelID   string    `json:"channel_id,omitempty" db:"persona_channel_id"`
	VideoCount  int       `json:"video_count,omitempty" db:"persona_video_count"`
}

// ExtractionStatus summarizes the pipeline state for one user
type ExtractionStatus struct {
	HasCachedTranscripts  bool       `json:"has_cached_transcripts"`
	TranscriptCount       int        `json:"transcript_count"`
	TotalTranscriptLength int        `json:"total_transcript_length"`
	HasPersona            bool       `json:"has_persona"`
	LastExtraction        *time.Time `json:"last_extraction,omitempty"`
	ExtractionMethod      string     `json:"extraction_method,omitempty"`
}
