package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/odark007/liq-store/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrderFixture() (*OrderService, *CheckoutService, *mockCatalogRepo, *mockOrderRepo, *mockSettingsRepo, *mockSMSSender) {
	catalog := newMockCatalogRepo()
	orders := newMockOrderRepo()
	settings := newMockSettingsRepo()
	settings.addDefaultTemplates()
	sms := &mockSMSSender{}
	email := &mockEmailSender{}
	dispatcher := NewNotificationDispatcher(settings, sms, email, zap.NewNop())
	orderSvc := NewOrderService(orders, catalog, settings, dispatcher, zap.NewNop())
	checkoutSvc := NewCheckoutService(catalog, orders, settings, dispatcher, nil, "", false, zap.NewNop())
	return orderSvc, checkoutSvc, catalog, orders, settings, sms
}

// Place, fail, and confirm the pool returns to its pre-order level.
func TestFailedPaymentRestocksPool(t *testing.T) {
	orderSvc, checkoutSvc, catalog, _, _, _ := newOrderFixture()

	crate := newTestVariant("Club Beer", "Crate of 6", 55, 6)
	catalog.addVariant(crate, 30)

	result, svcErr := checkoutSvc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:         []OrderLineRequest{{VariantID: crate.ID, Quantity: 2}},
		UserPhone:     "0200000000",
		PaymentMethod: models.PaymentMethodManual,
	})
	require.Nil(t, svcErr)
	assert.Equal(t, 18, catalog.level(crate.MasterStockID))

	_, svcErr = orderSvc.UpdateStatus(context.Background(), result.OrderID, &UpdateStatusRequest{
		PaymentStatus: models.PaymentStatusFailed,
	})
	require.Nil(t, svcErr)
	assert.Equal(t, 30, catalog.level(crate.MasterStockID))
}

func TestRepeatedFailedTransitionRestocksOnce(t *testing.T) {
	orderSvc, checkoutSvc, catalog, _, _, _ := newOrderFixture()

	variant := newTestVariant("Club Beer", "Single", 10, 1)
	catalog.addVariant(variant, 30)

	result, svcErr := checkoutSvc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:         []OrderLineRequest{{VariantID: variant.ID, Quantity: 5}},
		UserPhone:     "0200000000",
		PaymentMethod: models.PaymentMethodManual,
	})
	require.Nil(t, svcErr)

	for i := 0; i < 3; i++ {
		_, svcErr = orderSvc.UpdateStatus(context.Background(), result.OrderID, &UpdateStatusRequest{
			PaymentStatus: models.PaymentStatusFailed,
		})
		require.Nil(t, svcErr)
	}
	assert.Equal(t, 30, catalog.level(variant.MasterStockID))
}

func TestDispatchedStatusNotifiesCustomer(t *testing.T) {
	orderSvc, checkoutSvc, catalog, _, _, sms := newOrderFixture()

	variant := newTestVariant("Club Beer", "Single", 10, 1)
	catalog.addVariant(variant, 30)

	result, svcErr := checkoutSvc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:         []OrderLineRequest{{VariantID: variant.ID, Quantity: 1}},
		UserPhone:     "0241234567",
		PaymentMethod: models.PaymentMethodManual,
	})
	require.Nil(t, svcErr)
	placedSends := len(sms.sent)

	updated, svcErr := orderSvc.UpdateStatus(context.Background(), result.OrderID, &UpdateStatusRequest{
		DeliveryStatus: models.DeliveryStatusDispatched,
	})
	require.Nil(t, svcErr)
	assert.Equal(t, models.DeliveryStatusDispatched, updated.DeliveryStatus)

	require.Len(t, sms.sent, placedSends+1)
	last := sms.sent[len(sms.sent)-1]
	assert.Equal(t, "233241234567", last.To)
	assert.Contains(t, last.Body, "status_dispatched")
}

func TestUpdateStatusRejectsUnknownValues(t *testing.T) {
	orderSvc, _, _, _, _, _ := newOrderFixture()

	_, svcErr := orderSvc.UpdateStatus(context.Background(), uuid.New(), &UpdateStatusRequest{
		PaymentStatus: "refunded",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)

	_, svcErr = orderSvc.UpdateStatus(context.Background(), uuid.New(), &UpdateStatusRequest{})
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestRestockInventoryAdjustments(t *testing.T) {
	orderSvc, _, catalog, _, _, _ := newOrderFixture()

	variant := newTestVariant("Club Beer", "Single", 10, 1)
	catalog.addVariant(variant, 12)
	poolID := variant.MasterStockID

	inv, svcErr := orderSvc.RestockInventory(context.Background(), poolID, 24)
	require.Nil(t, svcErr)
	assert.Equal(t, 36, inv.CurrentStockLevel)

	inv, svcErr = orderSvc.RestockInventory(context.Background(), poolID, -6)
	require.Nil(t, svcErr)
	assert.Equal(t, 30, inv.CurrentStockLevel)

	_, svcErr = orderSvc.RestockInventory(context.Background(), poolID, -1000)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, 30, catalog.level(poolID))

	_, svcErr = orderSvc.RestockInventory(context.Background(), poolID, 0)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}
