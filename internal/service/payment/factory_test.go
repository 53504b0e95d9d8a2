package payment

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goalguard/goalguard/internal/config"
)

type noopPledges struct{}

func (noopPledges) AttachPaymentIntent(userID, goalID, intentID string) error { return nil }

func TestNewProviderWithoutKeyIsDisabled(t *testing.T) {
	provider := NewProvider(&config.Config{}, noopPledges{})
	assert.Equal(t, "disabled", provider.Name())

	_, err := provider.CreatePledgeIntent(50, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = provider.HandleWebhook([]byte("{}"), http.Header{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewProviderWithKeyIsStripe(t *testing.T) {
	cfg := &config.Config{StripeSecretKey: "sk_test_123"}
	provider := NewProvider(cfg, noopPledges{})
	assert.Equal(t, "stripe", provider.Name())
}
