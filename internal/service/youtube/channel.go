package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cre8hub/persona-pipeline/internal/errors"
)

// maxPageSize is the largest page the playlistItems endpoint accepts
const maxPageSize = 50

// ListRecentVideos resolves the channel's uploads playlist and pages
// through it until maxCount videos are collected. Uploads playlists
// are ordered by publish date descending, so results come back most
// recent first. Errors are not retried here; retry policy belongs to
// the caller.
func (l *lister) ListRecentVideos(ctx context.Context, channelID string, maxCount int) ([]string, error) {
	if channelID == "" {
		return nil, errors.New(errors.CodeInvalidArg, "channel ID is required")
	}
	if maxCount <= 0 {
		maxCount = 10
	}

	uploadsID, err := l.resolveUploadsPlaylist(ctx, channelID)
	if err != nil {
		return nil, err
	}

	videoIDs := make([]string, 0, maxCount)
	pageToken := ""
	for len(videoIDs) < maxCount {
		page, err := l.fetchPlaylistPage(ctx, uploadsID, maxCount-len(videoIDs), pageToken)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item.ContentDetails.VideoID == "" {
				continue
			}
			videoIDs = append(videoIDs, item.ContentDetails.VideoID)
			if len(videoIDs) == maxCount {
				break
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return videoIDs, nil
}

// resolveUploadsPlaylist maps a channel ID to its uploads playlist ID
func (l *lister) resolveUploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	query := url.Values{}
	query.Set("key", l.apiKey)
	query.Set("id", channelID)
	query.Set("part", "contentDetails")

	body, err := l.doGet(ctx, l.baseURL+"/channels?"+query.Encode())
	if err != nil {
		return "", err
	}

	var resp channelListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to parse channels response")
	}

	if len(resp.Items) == 0 {
		return "", errors.New(errors.CodeChannelNotFound, "channel not found: "+channelID)
	}

	uploadsID := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploadsID == "" {
		return "", errors.New(errors.CodeChannelNotFound, "channel has no uploads playlist: "+channelID)
	}
	return uploadsID, nil
}

// fetchPlaylistPage requests one page of the uploads playlist
func (l *lister) fetchPlaylistPage(ctx context.Context, playlistID string, remaining int, pageToken string) (*playlistItemsResponse, error) {
	pageSize := remaining
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := url.Values{}
	query.Set("key", l.apiKey)
	query.Set("playlistId", playlistID)
	query.Set("part", "contentDetails")
	query.Set("maxResults", strconv.Itoa(pageSize))
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	body, err := l.doGet(ctx, l.baseURL+"/playlistItems?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var resp playlistItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to parse playlist items response")
	}
	return &resp, nil
}

// doGet performs one API request and maps HTTP failures onto the
// pipeline error taxonomy: quota/auth failures must stay
// distinguishable from a missing channel and from transient upstream
// trouble.
func (l *lister) doGet(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build API request")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstreamUnavailable, "video platform API unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstreamUnavailable, "failed to read API response")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return nil, errors.New(errors.CodeQuotaExceeded, quotaMessage(body))
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.CodeChannelNotFound, "channel or playlist not found")
	case resp.StatusCode >= 500:
		return nil, errors.New(errors.CodeUpstreamUnavailable, fmt.Sprintf("video platform API returned %d", resp.StatusCode))
	default:
		return nil, errors.New(errors.CodeExternal, fmt.Sprintf("video platform API returned %d", resp.StatusCode))
	}
}

// quotaMessage extracts the API's reason string so callers can show
// an actionable message
func quotaMessage(body []byte) string {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		reasons := make([]string, 0, len(apiErr.Error.Errors))
		for _, e := range apiErr.Error.Errors {
			reasons = append(reasons, e.Reason)
		}
		if len(reasons) > 0 {
			return "API quota or auth failure: " + strings.Join(reasons, ", ")
		}
		if apiErr.Error.Message != "" {
			return "API quota or auth failure: " + apiErr.Error.Message
		}
	}
	return "API quota or auth failure"
}
