//go:build cgo

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractProvider runs OCR locally through the native Tesseract
// bindings. No network or credential is involved; the host must have
// Tesseract and its language data installed.
type TesseractProvider struct{}

// NewTesseractProvider creates the local OCR provider.
func NewTesseractProvider() *TesseractProvider { return &TesseractProvider{} }

// Name implements Provider.
func (p *TesseractProvider) Name() string { return "tesseract" }

// Recognize implements Provider.
func (p *TesseractProvider) Recognize(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	lang := req.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(req.Image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}
