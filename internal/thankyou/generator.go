// Package thankyou produces the personalized message shown after a signature.
package thankyou

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/i18n"
)

// TextGenerator produces free-form thank-you text.
type TextGenerator interface {
	Generate(ctx context.Context, lang domain.Language, signerType domain.SignerType, name string) (string, error)
}

// Generator wraps an optional TextGenerator with a timeout and the localized template.
type Generator struct {
	client  TextGenerator
	timeout time.Duration
	logger  *zap.Logger
	// OnFallback is called whenever the template is served.
	OnFallback func()
}

// NewGenerator returns a Generator; a nil client always uses the template.
func NewGenerator(client TextGenerator, timeout time.Duration, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, timeout: timeout, logger: logger}
}

// Message never fails: any client error or timeout yields the localized template.
func (g *Generator) Message(ctx context.Context, lang domain.Language, signerType domain.SignerType, name string) string {
	if g == nil || g.client == nil {
		return g.fallback(lang, name)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.client.Generate(ctx, lang, signerType, name)
	if err != nil {
		g.logger.Warn("thank-you generation failed", zap.Error(err))
		return g.fallback(lang, name)
	}
	return text
}

func (g *Generator) fallback(lang domain.Language, name string) string {
	if g != nil && g.OnFallback != nil {
		g.OnFallback()
	}
	return i18n.ThankYou(lang, name)
}
