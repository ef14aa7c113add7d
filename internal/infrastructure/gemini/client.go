package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/prezzoscout/backend/internal/domain"
)

// Client talks to the Generative Language API over REST.
type Client struct {
	httpClient  *resty.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new API client for the given model.
func NewClient(apiKey, baseURL, model string) *Client {
	// Free-tier quota is per-minute; keep outbound calls well under it.
	limiter := rate.NewLimiter(rate.Limit(0.25), 5)

	httpClient := resty.New().
		SetTimeout(60 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:  httpClient,
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		rateLimiter: limiter,
	}
}

// SetDebug toggles raw request/response logging.
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	Tools            []tool            `json:"tools,omitempty"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	ResponseMIMEType string   `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateGrounded runs a prompt with the google_search tool enabled at low
// temperature and returns the response text with its grounding citations.
func (c *Client) GenerateGrounded(ctx context.Context, prompt string) (*domain.GenerationResult, error) {
	temperature := 0.1
	req := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		Tools:            []tool{{GoogleSearch: &struct{}{}}},
		GenerationConfig: &generationConfig{Temperature: &temperature},
	}

	resp, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrGenerativeAPIFailure)
	}

	result := &domain.GenerationResult{Text: text}
	if meta := resp.Candidates[0].GroundingMetadata; meta != nil {
		for _, chunk := range meta.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" || chunk.Web.Title == "" {
				continue
			}
			result.Sources = append(result.Sources, domain.GroundingSource{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}

	log.Printf("[GEMINI] grounded call returned %d chars, %d sources", len(text), len(result.Sources))
	return result, nil
}

// GenerateJSON runs a prompt in JSON mode without grounding.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	}

	resp, err := c.generate(ctx, req)
	if err != nil {
		return "", err
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrGenerativeAPIFailure)
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, req generateRequest) (*generateResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(req).
		Post(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerativeAPIFailure, err)
	}

	if c.debug {
		log.Printf("[GEMINI] raw response: %s", resp.String())
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %s: %s", domain.ErrGenerativeAPIFailure, resp.Status(), resp.String())
	}

	var parsed generateResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrGenerativeAPIFailure, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrGenerativeAPIFailure, parsed.Error.Message, parsed.Error.Status)
	}
	if len(parsed.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", domain.ErrGenerativeAPIFailure)
	}

	return &parsed, nil
}

func responseText(resp *generateResponse) string {
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
