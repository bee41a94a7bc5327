package ocr

import (
	"context"
	"log/slog"
)

// demoText is a clearly labeled placeholder roster used when no OCR
// credential is configured, so the full pipeline stays usable offline.
const demoText = `DEMO ROSTER (no OCR credentials configured)
| NAME | % | 1 | 2 | 3 | 4 | 5 |
| ALICE | 80% | JRD | JRD | RH | M7M | N12 |
| BOB | 90% | M7M | RH | JRD | JRD | RH |
`

// DemoProvider returns canned placeholder text instead of calling a
// real OCR service.
type DemoProvider struct{}

// NewDemoProvider creates the credential-free fallback provider.
func NewDemoProvider() *DemoProvider { return &DemoProvider{} }

// Name implements Provider.
func (p *DemoProvider) Name() string { return "demo" }

// Recognize implements Provider.
func (p *DemoProvider) Recognize(_ context.Context, req Request) (string, error) {
	slog.Warn("using demo OCR provider, output is placeholder text", "image", req.Filename)
	return demoText, nil
}
