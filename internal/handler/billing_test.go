package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalguard/goalguard/internal/ctxkeys"
	"github.com/goalguard/goalguard/internal/model"
	"github.com/goalguard/goalguard/internal/service"
	"github.com/goalguard/goalguard/internal/service/payment"
)

type fakeProvider struct {
	intent       *payment.PledgeIntent
	err          error
	lastAmount   int
	lastMetadata map[string]string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CreatePledgeIntent(amountUSD int, metadata map[string]string) (*payment.PledgeIntent, error) {
	p.lastAmount = amountUSD
	p.lastMetadata = metadata
	if p.err != nil {
		return nil, p.err
	}
	return p.intent, nil
}

func (p *fakeProvider) HandleWebhook(payload []byte, headers http.Header) error {
	return p.err
}

func newBillingHandler(goals *stubGoalRepo, provider *fakeProvider) *BillingHandler {
	goalService := service.NewGoalService(goals, nil)
	return NewBillingHandler(goalService, provider)
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	user := &model.User{ID: "user-1", Email: "alice@example.com"}
	return req.WithContext(ctxkeys.WithUser(req.Context(), user))
}

func TestCreatePaymentIntentUsesStoredPledge(t *testing.T) {
	goal := activeKilometersGoal()
	goal.PledgeAmount = 50
	goals := &stubGoalRepo{goal: goal}
	provider := &fakeProvider{intent: &payment.PledgeIntent{ID: "pi_123", ClientSecret: "cs_abc", Amount: 50}}

	handler := newBillingHandler(goals, provider)

	rec := httptest.NewRecorder()
	handler.CreatePaymentIntent(rec, authedRequest(http.MethodPost, "/api/billing/payment-intent", `{"goalId":"goal-1"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, provider.lastAmount)
	assert.Equal(t, "user-1", provider.lastMetadata["user_id"])
	assert.Equal(t, "goal-1", provider.lastMetadata["goal_id"])

	var intent payment.PledgeIntent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &intent))
	assert.Equal(t, "pi_123", intent.ID)
}

func TestCreatePaymentIntentUnknownGoal(t *testing.T) {
	handler := newBillingHandler(&stubGoalRepo{}, &fakeProvider{})

	rec := httptest.NewRecorder()
	handler.CreatePaymentIntent(rec, authedRequest(http.MethodPost, "/api/billing/payment-intent", `{"goalId":"missing"}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePaymentIntentMissingBody(t *testing.T) {
	handler := newBillingHandler(&stubGoalRepo{}, &fakeProvider{})

	rec := httptest.NewRecorder()
	handler.CreatePaymentIntent(rec, authedRequest(http.MethodPost, "/api/billing/payment-intent", `{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePaymentIntentProviderDdisabled(t *testing.T) {
	goals := &stubGoalRepo{goal: activeKilometersGoal()}
	provider := &fakeProvider{err: payment.ErrNotConfigured}

	handler := newBillingHandler(goals, provider)

	rec := httptest.NewRecorder()
	handler.CreatePaymentIntent(rec, authedRequest(http.MethodPost, "/api/billing/payment-intent", `{"goalId":"goal-1"}`))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	provider := &fakeProvider{err: payment.ErrNotConfigured}
	handler := newBillingHandler(&stubGoalRepo{}, provider)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.Webhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookAcknowledges(t *testing.T) {
	handler := newBillingHandler(&stubGoalRepo{}, &fakeProvider{})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.Webhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
}
