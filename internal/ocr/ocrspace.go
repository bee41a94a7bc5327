package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultOCRSpaceEndpoint = "https://api.ocr.space/parse/image"

// HTTPProvider posts images to an OCR.space-compatible HTTP API and
// concatenates the parsed text of every returned page.
type HTTPProvider struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

// NewHTTPProvider creates a provider for the given endpoint. An empty
// endpoint uses the public OCR.space API.
func NewHTTPProvider(endpoint, apiKey string) *HTTPProvider {
	if endpoint == "" {
		endpoint = defaultOCRSpaceEndpoint
	}
	return &HTTPProvider{
		client:   http.DefaultClient,
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

// Name implements Provider.
func (p *HTTPProvider) Name() string { return "ocrspace" }

type ocrSpaceResponse struct {
	ErrorMessage  any `json:"ErrorMessage,omitempty"`
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	OCRExitCode           int  `json:"OCRExitCode"`
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
}

// Recognize implements Provider.
func (p *HTTPProvider) Recognize(ctx context.Context, req Request) (string, error) {
	lang := req.Language
	if lang == "" {
		lang = "eng"
	}

	form := url.Values{}
	form.Set("base64Image", "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(req.Image))
	form.Set("language", lang)
	form.Set("isTable", "true")
	form.Set("scale", "true")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("apikey", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed ocrSpaceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("api error: %s", formatOCRSpaceError(parsed.ErrorMessage))
	}
	if len(parsed.ParsedResults) == 0 {
		return "", fmt.Errorf("empty response")
	}

	var sb strings.Builder
	for _, page := range parsed.ParsedResults {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(page.ParsedText)
	}
	return sb.String(), nil
}

// formatOCRSpaceError flattens the API's error field, which is sometimes
// a string and sometimes a list of strings.
func formatOCRSpaceError(msg any) string {
	switch v := msg.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, "; ")
	default:
		return "unknown provider error"
	}
}
