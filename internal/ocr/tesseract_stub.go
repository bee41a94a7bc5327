//go:build !cgo

package ocr

import (
	"context"
	"fmt"
)

// TesseractProvider is unavailable without cgo; this stub keeps the
// provider selectable so the error is a clear runtime message instead
// of a build failure.
type TesseractProvider struct{}

// NewTesseractProvider creates the stub provider.
func NewTesseractProvider() *TesseractProvider { return &TesseractProvider{} }

// Name implements Provider.
func (p *TesseractProvider) Name() string { return "tesseract" }

// Recognize implements Provider.
func (p *TesseractProvider) Recognize(_ context.Context, _ Request) (string, error) {
	return "", fmt.Errorf("tesseract support requires a cgo-enabled build")
}
