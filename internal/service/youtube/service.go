package youtube

import (
	"context"
	"net/http"
	"time"
)

// DefaultAPIBaseURL is the YouTube Data API v3 endpoint
const DefaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

// Lister resolves a channel to its most recent video IDs
type Lister interface {
	// ListRecentVideos returns up to maxCount video IDs for the
	// channel, most recent first
	ListRecentVideos(ctx context.Context, channelID string, maxCount int) ([]string, error)
}

// lister implements Lister against the YouTube Data API
type lister struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewLister creates a Lister using the public YouTube Data API
func NewLister(apiKey string) Lister {
	return NewListerWithClient(apiKey, DefaultAPIBaseURL, &http.Client{Timeout: 15 * time.Second})
}

// NewListerWithClient creates a Lister with a custom endpoint and HTTP client (for testing)
func NewListerWithClient(apiKey, baseURL string, client *http.Client) Lister {
	return &lister{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// channelListResponse is the subset of the channels.list response we need
type channelListResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// playlistItemsResponse is the subset of the playlistItems.list response we need
type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// apiErrorResponse is the standard Google API error envelope
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
