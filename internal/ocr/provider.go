// Package ocr abstracts the third-party OCR engines that turn roster
// images into raw text. The rest of the application only ever consumes
// the flattened text; providers are opaque behind a single interface.
package ocr

import "context"

// Request carries one image to recognize.
type Request struct {
	Filename string
	Language string
	Image    []byte
}

// Provider recognizes text in an image. The call is the only suspending
// operation in the analysis pipeline and is not cancellable once issued
// beyond default transport behavior.
type Provider interface {
	Name() string
	Recognize(ctx context.Context, req Request) (string, error)
}

// WithLanguage wraps a provider so every request carries the configured
// recognition language unless the caller already set one.
func WithLanguage(p Provider, language string) Provider {
	if language == "" {
		return p
	}
	return &localized{Provider: p, language: language}
}

type localized struct {
	Provider
	language string
}

func (l *localized) Recognize(ctx context.Context, req Request) (string, error) {
	if req.Language == "" {
		req.Language = l.language
	}
	return l.Provider.Recognize(ctx, req)
}
