package payment

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goalguard/goalguard/internal/config"
)

var ErrNotConfigured = errors.New("payment provider not configured")

// NewProvider builds the payment provider from config. The provider is
// constructed once here and injected everywhere it is needed; there is
// no lazily-initialized global client.
//
// Development without STRIPE_SECRET_KEY gets a disabled provider that
// rejects payment operations instead of failing startup.
func NewProvider(cfg *config.Config, pledges GoalPledges) Provider {
	if cfg.StripeSecretKey == "" {
		slog.Warn("stripe not configured, payment operations disabled")
		return &disabledProvider{}
	}

	return NewStripeProvider(cfg, pledges)
}

type disabledProvider struct{}

func (d *disabledProvider) Name() string { return "disabled" }

func (d *disabledProvider) CreatePledgeIntent(amountUSD int, metadata map[string]string) (*PledgeIntent, error) {
	return nil, ErrNotConfigured
}

func (d *disabledProvider) HandleWebhook(payload []byte, headers http.Header) error {
	return ErrNotConfigured
}
