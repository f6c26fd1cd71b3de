package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/deckgen-go/internal/config"
	"github.com/quantmind-br/deckgen-go/internal/domain"
)

func testDefaults() config.DefaultsConfig {
	return config.DefaultsConfig{
		SlideCount:   8,
		Tone:         "professional",
		Verbosity:    "concise",
		Language:     "English",
		Template:     "general",
		ExportAs:     "pptx",
		IncludeTitle: true,
		IncludeTOC:   false,
		ImageType:    "stock",
		WebSearch:    false,
	}
}

func newTestClient(serverURL string) *Client {
	return NewClient(ClientOptions{
		BaseURL:  serverURL,
		APIKey:   "test-key",
		Defaults: testDefaults(),
	})
}

func TestClientGenerate(t *testing.T) {
	t.Parallel()

	t.Run("successful generation", func(t *testing.T) {
		t.Parallel()
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/ppt/presentation/generate", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"presentation_id":  "abc123",
				"path":             "https://example.com/deck.pptx",
				"edit_path":        "https://example.com/edit/abc123",
				"credits_consumed": 2.5,
			})
		}))
		defer server.Close()

		c := newTestClient(server.URL)
		result, err := c.Generate(context.Background(), "# deck content", domain.RenderPreferences{
			SlideCount: 10,
			Tone:       "casual",
		})
		require.NoError(t, err)
		assert.Equal(t, "abc123", result.PresentationID)
		assert.Equal(t, "https://example.com/deck.pptx", result.DownloadURL)
		assert.Equal(t, "https://example.com/edit/abc123", result.EditURL)
		require.NotNil(t, result.CreditsConsumed)
		assert.Equal(t, 2.5, *result.CreditsConsumed)

		// Explicit preferences pass through; the rest resolve from defaults.
		assert.Equal(t, "# deck content", captured["content"])
		assert.Equal(t, float64(10), captured["n_slides"])
		assert.Equal(t, "casual", captured["tone"])
		assert.Equal(t, "concise", captured["verbosity"])
		assert.Equal(t, "general", captured["template"])
		assert.Equal(t, "pptx", captured["export_as"])
		assert.Equal(t, true, captured["include_title_slide"])
		assert.Equal(t, false, captured["include_table_of_contents"])
		assert.Equal(t, true, captured["markdown_emphasis"])
		assert.NotEmpty(t, captured["instructions"])
	})

	t.Run("rejection carries status and detail", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "unsupported template"})
		}))
		defer server.Close()

		c := newTestClient(server.URL)
		_, err := c.Generate(context.Background(), "content", domain.RenderPreferences{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRenderRejected)

		var rerr *domain.RenderError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusUnprocessableEntity, rerr.StatusCode)
		assert.Equal(t, "unsupported template", rerr.Detail)
	})

	t.Run("timeout maps to render timeout", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		c := NewClient(ClientOptions{
			BaseURL:  server.URL,
			Timeout:  20 * time.Millisecond,
			Defaults: testDefaults(),
		})
		_, err := c.Generate(context.Background(), "content", domain.RenderPreferences{})
		assert.ErrorIs(t, err, domain.ErrRenderTimeout)
	})

	t.Run("connection failure maps to transport error", func(t *testing.T) {
		t.Parallel()
		c := newTestClient("http://127.0.0.1:1")
		_, err := c.Generate(context.Background(), "content", domain.RenderPreferences{})
		assert.ErrorIs(t, err, domain.ErrRenderTransport)
	})

	t.Run("missing presentation id rejected", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		}))
		defer server.Close()

		c := newTestClient(server.URL)
		_, err := c.Generate(context.Background(), "content", domain.RenderPreferences{})
		assert.ErrorIs(t, err, domain.ErrRenderTransport)
	})
}

func TestClientExport(t *testing.T) {
	t.Parallel()

	t.Run("successful export", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/ppt/presentation/export", r.URL.Path)
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "abc123", req["presentation_id"])
			assert.Equal(t, "pdf", req["export_as"])
			_ = json.NewEncoder(w).Encode(map[string]string{
				"presentation_id": "abc123",
				"path":            "https://example.com/deck.pdf",
			})
		}))
		defer server.Close()

		c := newTestClient(server.URL)
		result, err := c.Export(context.Background(), "abc123", "pdf")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/deck.pdf", result.DownloadURL)
	})

	t.Run("unknown presentation rejected", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "presentation not found"})
		}))
		defer server.Close()

		c := newTestClient(server.URL)
		_, err := c.Export(context.Background(), "nope", "pdf")
		assert.ErrorIs(t, err, domain.ErrRenderRejected)
	})
}

func TestClientResolve(t *testing.T) {
	t.Parallel()

	c := newTestClient("http://unused")

	t.Run("empty preferences take all defaults", func(t *testing.T) {
		t.Parallel()
		resolved := c.resolve(domain.RenderPreferences{})
		assert.Equal(t, 8, resolved.SlideCount)
		assert.Equal(t, "professional", resolved.Tone)
		assert.Equal(t, "concise", resolved.Verbosity)
		assert.Equal(t, "English", resolved.Language)
		assert.Equal(t, "general", resolved.Template)
		assert.Equal(t, "pptx", resolved.ExportAs)
		assert.Equal(t, "stock", resolved.ImageType)
		require.NotNil(t, resolved.IncludeTitle)
		assert.True(t, *resolved.IncludeTitle)
		require.NotNil(t, resolved.IncludeTOC)
		assert.False(t, *resolved.IncludeTOC)
	})

	t.Run("each field resolves independently", func(t *testing.T) {
		t.Parallel()
		toc := true
		resolved := c.resolve(domain.RenderPreferences{
			Tone:       "funny",
			IncludeTOC: &toc,
		})
		assert.Equal(t, "funny", resolved.Tone)
		assert.True(t, *resolved.IncludeTOC)
		// Everything else still comes from defaults.
		assert.Equal(t, "concise", resolved.Verbosity)
		assert.Equal(t, 8, resolved.SlideCount)
	})
}
