package persona

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/cre8hub/persona-pipeline/internal/errors"
	"github.com/cre8hub/persona-pipeline/internal/model"
)

// DefaultGatewayTimeout bounds one inference call. It is deliberately
// separate from the per-video caption timeouts: inference works on
// the whole transcript set and is allowed to take much longer.
const DefaultGatewayTimeout = 60 * time.Second

// Gateway sends transcripts to the persona-inference service
type Gateway interface {
	// ExtractPersona submits the transcript set and returns the
	// inferred persona document
	ExtractPersona(ctx context.Context, transcripts []model.TranscriptRecord) (*model.PersonaDocument, error)
}

// httpGateway implements Gateway over HTTP
type httpGateway struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// NewGateway creates a Gateway for the inference service at baseURL
func NewGateway(baseURL string, timeout time.Duration) Gateway {
	return NewGatewayWithClient(baseURL, timeout, &http.Client{})
}

// NewGatewayWithClient creates a Gateway with a custom HTTP client (for testing)
func NewGatewayWithClient(baseURL string, timeout time.Duration, client *http.Client) Gateway {
	if timeout <= 0 {
		timeout = DefaultGatewayTimeout
	}
	return &httpGateway{
		client:  client,
		baseURL: baseURL,
		timeout: timeout,
	}
}

// extractRequest is the inference service request payload
type extractRequest struct {
	Transcripts []model.TranscriptRecord `json:"transcripts"`
}

// extractResponse is the inference service response payload
type extractResponse struct {
	Persona         *model.PersonaDocument `json:"persona"`
	Message         string                 `json:"message"`
	ProcessedVideos int                    `json:"processed_videos"`
}

// ExtractPersona posts the transcripts and decodes the persona.
// Connection failures, application-level error responses and
// timeouts each map to their own error code so callers can alert or
// retry appropriately. No retries happen here.
func (g *httpGateway) ExtractPersona(ctx context.Context, transcripts []model.TranscriptRecord) (*model.PersonaDocument, error) {
	if len(transcripts) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "transcript set is empty")
	}

	payload, err := json.Marshal(extractRequest{Transcripts: transcripts})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to encode gateway request")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/extract_persona", bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Wrap(err, apperrors.CodeGatewayTimeout, "persona inference timed out")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeGatewayUnavailable, "persona inference service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeGatewayError, "failed to read gateway response")
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("inference service returned %d", resp.StatusCode)
		if detail := errorDetail(body); detail != "" {
			msg += ": " + detail
		}
		return nil, apperrors.New(apperrors.CodeGatewayError, msg)
	}

	var result extractResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeGatewayError, "failed to decode gateway response")
	}
	if result.Persona == nil {
		return nil, apperrors.New(apperrors.CodeGatewayError, "gateway response missing persona")
	}

	return result.Persona, nil
}

// errorDetail pulls the detail string out of an inference service
// error body, when present
func errorDetail(body []byte) string {
	var errBody struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &errBody); err != nil {
		return ""
	}
	return errBody.Detail
}
