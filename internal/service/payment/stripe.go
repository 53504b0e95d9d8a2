package payment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goalguard/goalguard/internal/config"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
)

// GoalPledges records webhook outcomes against the owning goal.
// Implemented by the goal service; kept as an interface so this package
// never imports the service layer.
type GoalPledges interface {
	AttachPaymentIntent(userID, goalID, intentID string) error
}

type StripeProvider struct {
	cfg     *config.Config
	pledges GoalPledges
}

func NewStripeProvider(cfg *config.Config, pledges GoalPledges) *StripeProvider {
	// Set Stripe API key
	stripe.Key = cfg.StripeSecretKey

	slog.Info("stripe provider initialized", "app_env", cfg.AppEnv)

	return &StripeProvider{
		cfg:     cfg,
		pledges: pledges,
	}
}

func (s *StripeProvider) Name() string {
	return "stripe"
}

func (s *StripeProvider) CreatePledgeIntent(amountUSD int, metadata map[string]string) (*PledgeIntent, error) {
	if amountUSD < 1 {
		return nil, fmt.Errorf("invalid pledge amount: %d", amountUSD)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amountUSD) * 100), // convert to cents
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	slog.Info("stripe payment intent created", "intent_id", intent.ID, "amount_usd", amountUSD)

	return &PledgeIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       amountUSD,
	}, nil
}

func (s *StripeProvider) HandleWebhook(payload []byte, headers http.Header) error {
	signature := headers.Get("Stripe-Signature")

	// Use ConstructEventWithOptions to ignore API version mismatch
	// Stripe's API versions are backwards compatible, so this is safe
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		s.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		err = json.Unmarshal(event.Data.Raw, &intent)
		if err != nil {
			return fmt.Errorf("failed to parse payment intent: %w", err)
		}

		userID := intent.Metadata["user_id"]
		goalID := intent.Metadata["goal_id"]
		if userID == "" || goalID == "" {
			slog.Warn("payment intent succeeded without goal metadata", "intent_id", intent.ID)
			return nil
		}

		err = s.pledges.AttachPaymentIntent(userID, goalID, intent.ID)
		if err != nil {
			return fmt.Errorf("failed to record pledge payment: %w", err)
		}

		slog.Info("pledge payment collected", "intent_id", intent.ID, "goal_id", goalID)

	case "payment_intent.payment_failed":
		slog.Warn("pledge payment failed", "event_id", event.ID)

	default:
		slog.Debug("unhandled stripe event", "type", event.Type)
	}

	return nil
}
