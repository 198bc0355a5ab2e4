package model

// TranscriptRecord pairs a video ID with its cached transcript text.
// It lives only for the duration of one extraction request.
type TranscriptRecord struct {
	VideoID    string `json:"videoId"`
	Transcript string `json:"transcript"`
	Length     int    `json:"length"`
}
