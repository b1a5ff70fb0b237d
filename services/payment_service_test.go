package services

import (
	"context"
	"testing"

	"github.com/odark007/liq-store/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPaymentFixture() (*PaymentService, *CheckoutService, *mockCatalogRepo, *mockOrderRepo, *mockSMSSender, *mockEmailSender) {
	catalog := newMockCatalogRepo()
	orders := newMockOrderRepo()
	settings := newMockSettingsRepo()
	settings.addDefaultTemplates()
	sms := &mockSMSSender{}
	email := &mockEmailSender{}
	dispatcher := NewNotificationDispatcher(settings, sms, email, zap.NewNop())
	paystack, _ := NewPaystackClient("sk_test_secret")
	paymentSvc := NewPaymentService(paystack, orders, settings, dispatcher, zap.NewNop())
	checkoutSvc := NewCheckoutService(catalog, orders, settings, dispatcher, nil, "", false, zap.NewNop())
	return paymentSvc, checkoutSvc, catalog, orders, sms, email
}

// The deferred new-order pair fires exactly once, on the first successful
// charge event; webhook retries must not duplicate it.
func TestWebhookReleasesDeferredNotificationsOnce(t *testing.T) {
	paymentSvc, checkoutSvc, catalog, orders, sms, _ := newPaymentFixture()

	variant := newTestVariant("Club Beer", "Single", 100, 1)
	catalog.addVariant(variant, 50)

	result, svcErr := checkoutSvc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:         []OrderLineRequest{{VariantID: variant.ID, Quantity: 2}},
		UserPhone:     "0241234567",
		PaymentMethod: models.PaymentMethodPaystack,
		Notes:         "leave at the gate",
	})
	require.Nil(t, svcErr)
	require.Empty(t, sms.sent)

	event := &WebhookEvent{Event: "charge.success"}
	event.Data.Reference = "ref_1"
	event.Data.Amount = AmountInPesewas(result.GrandTotal)
	event.Data.Metadata.OrderID = result.OrderID.String()

	require.Nil(t, paymentSvc.HandleWebhook(context.Background(), event))

	order, err := orders.FindByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)

	// The gateway reference is recorded without clobbering customer notes.
	assert.Contains(t, order.Notes, "Paystack Ref: ref_1")
	assert.Contains(t, order.Notes, "leave at the gate")

	// Exactly the admin + customer new-order pair, nothing else.
	firstBatch := len(sms.sent)
	assert.Equal(t, 2, firstBatch)
	assert.Contains(t, sms.sent[0].Body, "new_order_admin")
	assert.Contains(t, sms.sent[1].Body, "new_order_customer")

	// Gateway retry delivers the same event again.
	require.Nil(t, paymentSvc.HandleWebhook(context.Background(), event))
	assert.Len(t, sms.sent, firstBatch)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	paymentSvc, _, _, _, sms, _ := newPaymentFixture()

	event := &WebhookEvent{Event: "transfer.success"}
	require.Nil(t, paymentSvc.HandleWebhook(context.Background(), event))
	assert.Empty(t, sms.sent)
}

func TestWebhookRejectsAmountMismatch(t *testing.T) {
	paymentSvc, checkoutSvc, catalog, orders, _, _ := newPaymentFixture()

	variant := newTestVariant("Club Beer", "Single", 100, 1)
	catalog.addVariant(variant, 50)

	result, svcErr := checkoutSvc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:         []OrderLineRequest{{VariantID: variant.ID, Quantity: 2}},
		UserPhone:     "0241234567",
		PaymentMethod: models.PaymentMethodPaystack,
	})
	require.Nil(t, svcErr)

	event := &WebhookEvent{Event: "charge.success"}
	event.Data.Amount = 100 // one cedi against a 200-cedi order
	event.Data.Metadata.OrderID = result.OrderID.String()

	svcErr2 := paymentSvc.HandleWebhook(context.Background(), event)
	require.NotNil(t, svcErr2)
	assert.Equal(t, 400, svcErr2.StatusCode)

	order, err := orders.FindByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
}

func TestWebhookUnknownOrderRejected(t *testing.T) {
	paymentSvc, _, _, _, _, _ := newPaymentFixture()

	event := &WebhookEvent{Event: "charge.success"}
	event.Data.Metadata.OrderID = "not-a-uuid"
	svcErr := paymentSvc.HandleWebhook(context.Background(), event)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}
