package persona

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cre8hub/persona-pipeline/internal/errors"
	"github.com/cre8hub/persona-pipeline/internal/model"
)

func TestHTTPGateway_ExtractPersona(t *testing.T) {
	var gotBody extractRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/extract_persona", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(extractResponse{
			Persona: &model.PersonaDocument{
				CommunicationStyle: "casual",
				PersonalityTraits:  []string{"curious", "direct"},
			},
			Message:         "persona extracted successfully",
			ProcessedVideos: 2,
		})
	}))
	defer server.Close()

	gw := NewGateway(server.URL, DefaultGatewayTimeout)
	doc, err := gw.ExtractPersona(context.Background(), []model.TranscriptRecord{
		{VideoID: "v1", Transcript: "hello world", Length: 11},
		{VideoID: "v3", Transcript: "goodbye now", Length: 11},
	})
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "casual", doc.CommunicationStyle)
	assert.Equal(t, []string{"curious", "direct"}, doc.PersonalityTraits)

	require.Len(t, gotBody.Transcripts, 2)
	assert.Equal(t, "v1", gotBody.Transcripts[0].VideoID)
	assert.Equal(t, "hello world", gotBody.Transcripts[0].Transcript)
}

func TestHTTPGateway_ExtractPersona_EmptyInput(t *testing.T) {
	gw := NewGateway("http://localhost:1", time.Second)
	_, err := gw.ExtractPersona(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidArg))
}

func TestHTTPGateway_ExtractPersona_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "model overloaded"}`))
	}))
	defer server.Close()

	gw := NewGateway(server.URL, time.Second)
	_, err := gw.ExtractPersona(context.Background(), []model.TranscriptRecord{
		{VideoID: "v1", Transcript: "hello"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGatewayError))
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestHTTPGateway_ExtractPersona_MissingPersona(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(extractResponse{Message: "no persona produced"})
	}))
	defer server.Close()

	gw := NewGateway(server.URL, time.Second)
	_, err := gw.ExtractPersona(context.Background(), []model.TranscriptRecord{
		{VideoID: "v1", Transcript: "hello"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGatewayError))
}

func TestHTTPGateway_ExtractPersona_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	gw := NewGateway(server.URL, time.Second)
	_, err := gw.ExtractPersona(context.Background(), []model.TranscriptRecord{
		{VideoID: "v1", Transcript: "hello"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGatewayUnavailable))
}

func TestHTTPGateway_ExtractPersona_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	gw := NewGateway(server.URL, 50*time.Millisecond)
	_, err := gw.ExtractPersona(context.Background(), []model.TranscriptRecord{
		{VideoID: "v1", Transcript: "hello"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGatewayTimeout))
}
