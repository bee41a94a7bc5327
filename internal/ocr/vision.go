package ocr

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// VisionProvider recognizes text through the Google Cloud Vision
// images:annotate endpoint using DOCUMENT_TEXT_DETECTION, which handles
// dense tabular layouts better than plain text detection.
type VisionProvider struct {
	apiKey string
}

// NewVisionProvider creates a Vision-backed provider.
func NewVisionProvider(apiKey string) *VisionProvider {
	return &VisionProvider{apiKey: apiKey}
}

// Name implements Provider.
func (p *VisionProvider) Name() string { return "vision" }

// Recognize implements Provider.
func (p *VisionProvider) Recognize(ctx context.Context, req Request) (string, error) {
	svc, err := vision.NewService(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("create vision service: %w", err)
	}

	annotate := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image: &vision.Image{
					Content: base64.StdEncoding.EncodeToString(req.Image),
				},
				Features: []*vision.Feature{
					{Type: "DOCUMENT_TEXT_DETECTION"},
				},
			},
		},
	}

	resp, err := svc.Images.Annotate(annotate).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("annotate: %w", err)
	}
	if len(resp.Responses) == 0 {
		return "", fmt.Errorf("empty response")
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("api error: %s", r.Error.Message)
	}
	if r.FullTextAnnotation != nil {
		return r.FullTextAnnotation.Text, nil
	}
	if len(r.TextAnnotations) > 0 {
		return r.TextAnnotations[0].Description, nil
	}
	return "", nil
}
