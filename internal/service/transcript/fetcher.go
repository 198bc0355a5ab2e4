package transcript

import (
	"context"
	"encoding/xml"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cre8hub/persona-pipeline/internal/errors"
)

// DefaultCaptionBaseURL is the timedtext caption endpoint
const DefaultCaptionBaseURL = "https://video.google.com/timedtext"

// TruncationMarker is appended when a transcript is cut at MaxChars
const TruncationMarker = "... [truncated]"

// Fetcher retrieves caption text for a single video
type Fetcher interface {
	// Fetch returns the transcript for the video. A video with no
	// captions in any attempted language returns ("", false, nil):
	// absence is a normal outcome, not an error.
	Fetch(ctx context.Context, videoID string) (string, bool, error)
}

// Options controls language fallback, per-attempt timeout and the
// transcript length cap
type Options struct {
	// Languages is the ordered fallback list of caption language codes
	Languages []string
	// AttemptTimeout bounds each caption request so one hung video
	// cannot block the caller
	AttemptTimeout time.Duration
	// MaxChars caps stored transcript length; longer texts are
	// truncated with TruncationMarker appended
	MaxChars int
}

// DefaultOptions returns the reference fetcher configuration
func DefaultOptions() Options {
	return Options{
		Languages:      []string{"en", "en-US", "en-GB"},
		AttemptTimeout: 10 * time.Second,
		MaxChars:       100000,
	}
}

// fetcher implements Fetcher against the timedtext caption endpoint
type fetcher struct {
	client  *http.Client
	baseURL string
	opts    Options
}

// NewFetcher creates a Fetcher with the given options
func NewFetcher(opts Options) Fetcher {
	return NewFetcherWithClient(opts, DefaultCaptionBaseURL, &http.Client{})
}

// NewFetcherWithClient creates a Fetcher with a custom endpoint and HTTP client (for testing)
func NewFetcherWithClient(opts Options, baseURL string, client *http.Client) Fetcher {
	if len(opts.Languages) == 0 {
		opts.Languages = DefaultOptions().Languages
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = DefaultOptions().AttemptTimeout
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultOptions().MaxChars
	}
	return &fetcher{
		client:  client,
		baseURL: baseURL,
		opts:    opts,
	}
}

// timedText mirrors the caption XML: <transcript><text ...>line</text>...</transcript>
type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch tries each configured language in order and returns the first
// transcript found. Failed attempts fall through silently; only after
// every language is exhausted does it report absence.
func (f *fetcher) Fetch(ctx context.Context, videoID string) (string, bool, error) {
	if videoID == "" {
		return "", false, errors.New(errors.CodeInvalidArg, "video ID is required")
	}

	for _, lang := range f.opts.Languages {
		text, ok := f.fetchLanguage(ctx, videoID, lang)
		if ok {
			return f.truncate(text), true, nil
		}
		// Stop early if the caller's context is gone
		if ctx.Err() != nil {
			return "", false, errors.Wrap(ctx.Err(), errors.CodeExternal, "caption fetch canceled")
		}
	}
	return "", false, nil
}

// fetchLanguage requests captions for one language under a bounded timeout
func (f *fetcher) fetchLanguage(ctx context.Context, videoID, lang string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.AttemptTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("lang", lang)
	query.Set("v", videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", false
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil || len(body) == 0 {
		// An empty 200 body means no captions in this language
		return "", false
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", false
	}

	text := joinLines(tt)
	if text == "" {
		return "", false
	}
	return text, true
}

// joinLines concatenates caption lines with single spaces, collapsing
// internal whitespace runs
func joinLines(tt timedText) string {
	var sb strings.Builder
	for _, line := range tt.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(collapseWhitespace(text))
	}
	return sb.String()
}

// collapseWhitespace reduces any run of whitespace to a single space
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate caps the transcript length and appends the marker
func (f *fetcher) truncate(text string) string {
	if len(text) <= f.opts.MaxChars {
		return text
	}
	return text[:f.opts.MaxChars] + TruncationMarker
}
