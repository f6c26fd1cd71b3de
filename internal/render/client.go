// Package render talks to the Presenton presentation API.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quantmind-br/deckgen-go/internal/config"
	"github.com/quantmind-br/deckgen-go/internal/domain"
	"github.com/quantmind-br/deckgen-go/internal/utils"
)

// renderInstructions shapes the deck: the content sections map to
// slides, so the service must not invent or reorder material.
const renderInstructions = `Build the presentation strictly from the provided markdown content. Each top-level section corresponds to roughly one slide topic. Keep wording faithful to the source, prefer short bullet points over paragraphs, and do not add sections that are not in the content.`

type generateRequest struct {
	Content          string `json:"content"`
	Instructions     string `json:"instructions"`
	Tone             string `json:"tone"`
	Verbosity        string `json:"verbosity"`
	SlideCount       int    `json:"n_slides"`
	Language         string `json:"language"`
	Template         string `json:"template"`
	IncludeTitle     bool   `json:"include_title_slide"`
	IncludeTOC       bool   `json:"include_table_of_contents"`
	ExportAs         string `json:"export_as"`
	MarkdownEmphasis bool   `json:"markdown_emphasis"`
	WebSearch        bool   `json:"web_search"`
	ImageType        string `json:"image_type"`
}

type exportRequest struct {
	PresentationID string `json:"presentation_id"`
	ExportAs       string `json:"export_as"`
}

type errorResponse struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client implements the render service against the Presenton HTTP API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	timeout       time.Duration
	exportTimeout time.Duration
	defaults      config.DefaultsConfig
	logger        *utils.Logger
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	ExportTimeout time.Duration
	Defaults      config.DefaultsConfig
	HTTPClient    *http.Client
	Logger        *utils.Logger
}

// NewClient creates a new Client
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultRenderTimeout
	}
	if opts.ExportTimeout <= 0 {
		opts.ExportTimeout = config.DefaultExportTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:        opts.APIKey,
		timeout:       opts.Timeout,
		exportTimeout: opts.ExportTimeout,
		defaults:      opts.Defaults,
		logger:        logger.WithComponent("render"),
	}
}

// Generate submits the formatted content for rendering. Unset
// preferences fall back to configured defaults, each field resolved on
// its own.
func (c *Client) Generate(ctx context.Context, content string, prefs domain.RenderPreferences) (*domain.RenderResult, error) {
	resolved := c.resolve(prefs)

	payload := generateRequest{
		Content:          content,
		Instructions:     renderInstructions,
		Tone:             resolved.Tone,
		Verbosity:        resolved.Verbosity,
		SlideCount:       resolved.SlideCount,
		Language:         resolved.Language,
		Template:         resolved.Template,
		IncludeTitle:     *resolved.IncludeTitle,
		IncludeTOC:       *resolved.IncludeTOC,
		ExportAs:         resolved.ExportAs,
		MarkdownEmphasis: true,
		WebSearch:        *resolved.WebSearch,
		ImageType:        resolved.ImageType,
	}

	c.logger.Info().
		Int("n_slides", payload.SlideCount).
		Str("template", payload.Template).
		Str("export_as", payload.ExportAs).
		Msg("Requesting presentation")

	return c.post(ctx, "/api/v1/ppt/presentation/generate", payload, c.timeout)
}

// Export re-exports an existing presentation in another format.
func (c *Client) Export(ctx context.Context, presentationID, exportAs string) (*domain.RenderResult, error) {
	payload := exportRequest{
		PresentationID: presentationID,
		ExportAs:       exportAs,
	}

	c.logger.Info().
		Str("presentation_id", presentationID).
		Str("export_as", exportAs).
		Msg("Exporting presentation")

	return c.post(ctx, "/api/v1/ppt/presentation/export", payload, c.exportTimeout)
}

func (c *Client) post(ctx context.Context, path string, payload any, timeout time.Duration) (*domain.RenderResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", domain.ErrRenderTimeout, timeout)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrRenderTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleHTTPError(resp.StatusCode, respBody)
	}

	var result domain.RenderResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: invalid response body: %v", domain.ErrRenderTransport, err)
	}

	if result.PresentationID == "" {
		return nil, fmt.Errorf("%w: response missing presentation_id", domain.ErrRenderTransport)
	}

	return &result, nil
}

func (c *Client) handleHTTPError(statusCode int, body []byte) error {
	detail := strings.TrimSpace(string(body))

	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil {
		switch {
		case errResp.Detail != "":
			detail = errResp.Detail
		case errResp.Message != "":
			detail = errResp.Message
		case errResp.Error != "":
			detail = errResp.Error
		}
	}

	return &domain.RenderError{
		StatusCode: statusCode,
		Detail:     detail,
		Err:        domain.ErrRenderRejected,
	}
}

// resolve fills every unset preference from the configured defaults.
func (c *Client) resolve(prefs domain.RenderPreferences) domain.RenderPreferences {
	if prefs.SlideCount == 0 {
		prefs.SlideCount = c.defaults.SlideCount
	}
	if prefs.Tone == "" {
		prefs.Tone = c.defaults.Tone
	}
	if prefs.Verbosity == "" {
		prefs.Verbosity = c.defaults.Verbosity
	}
	if prefs.Language == "" {
		prefs.Language = c.defaults.Language
	}
	if prefs.Template == "" {
		prefs.Template = c.defaults.Template
	}
	if prefs.ExportAs == "" {
		prefs.ExportAs = c.defaults.ExportAs
	}
	if prefs.ImageType == "" {
		prefs.ImageType = c.defaults.ImageType
	}
	if prefs.IncludeTitle == nil {
		v := c.defaults.IncludeTitle
		prefs.IncludeTitle = &v
	}
	if prefs.IncludeTOC == nil {
		v := c.defaults.IncludeTOC
		prefs.IncludeTOC = &v
	}
	if prefs.WebSearch == nil {
		v := c.defaults.WebSearch
		prefs.WebSearch = &v
	}
	return prefs
}
