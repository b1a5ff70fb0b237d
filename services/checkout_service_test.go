package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/odark007/liq-store/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVariant(title, name string, price float64, factor int) models.ProductVariant {
	return models.ProductVariant{
		ID:                uuid.New(),
		ProductID:         uuid.New(),
		MasterStockID:     uuid.New(),
		Name:              name,
		Type:              models.VariantTypeSingle,
		Price:             price,
		ConsumptionFactor: factor,
		Product:           &models.Product{Title: title},
	}
}

func newCheckoutFixture() (*CheckoutService, *mockCatalogRepo, *mockOrderRepo, *mockSettingsRepo, *mockSMSSender, *mockEmailSender) {
	catalog := newMockCatalogRepo()
	orders := newMockOrderRepo()
	settings := newMockSettingsRepo()
	settings.addDefaultTemplates()
	sms := &mockSMSSender{}
	email := &mockEmailSender{}
	dispatcher := NewNotificationDispatcher(settings, sms, email, zap.NewNop())
	svc := NewCheckoutService(catalog, orders, settings, dispatcher, nil, "", false, zap.NewNop())
	return svc, catalog, orders, settings, sms, email
}

func TestPlaceOrderBasic(t *testing.T) {
	svc, catalog, orders, settings, sms, _ := newCheckoutFixture()

	variant := newTestVariant("Club Beer", "Single", 100, 1)
	catalog.addVariant(variant, 100)

	zoneID := uuid.New()
	settings.zones[zoneID] = models.DeliveryZone{
		ID: zoneID, Name: "Osu", RegionCategory: models.RegionAccraSubzone,
		BasePrice: 10, IsActive: true,
	}

	result, svcErr := svc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:          []OrderLineRequest{{VariantID: variant.ID, Quantity: 2}},
		CustomerName:   "Ama",
		UserPhone:      "0241234567",
		DeliveryZoneID: &zoneID,
		PaymentMethod:  models.PaymentMethodManual,
	})
	require.Nil(t, svcErr)
	assert.Equal(t, 210.0, result.GrandTotal)
	assert.Equal(t, 98, catalog.level(variant.MasterStockID))

	order, err := orders.FindByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 210.0, order.TotalAmount)
	assert.Equal(t, 0.0, order.TaxAmount)
	assert.Equal(t, 10.0, order.DeliveryFee)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.DeliveryStatusProcessing, order.DeliveryStatus)
	assert.Equal(t, "233241234567", order.UserPhone)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 100.0, order.Items[0].PriceAtPurchase)
	assert.Equal(t, 200.0, order.Items[0].Subtotal)

	// Manual payment notifies immediately: admin plus customer SMS.
	assert.Len(t, sms.sent, 2)
}

func TestPlaceOrderTotalInvariant(t *testing.T) {
	svc, catalog, orders, settings, _, _ := newCheckoutFixture()

	a := newTestVariant("Club Beer", "Single", 12.5, 1)
	b := newTestVariant("Kasapreko Gin", "Pack of 6", 60, 6)
	catalog.addVariant(a, 50)
	catalog.addVariant(b, 50)
	settings.taxes = []models.Tax{
		{ID: uuid.New(), Name: "VAT", RatePercent: 15, IsActive: true},
		{ID: uuid.New(), Name: "Levy", RatePercent: 2.5, IsActive: true},
	}

	result, svcErr := svc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items: []OrderLineRequest{
			{VariantID: a.ID, Quantity: 4},
			{VariantID: b.ID, Quantity: 2},
		},
		UserPhone:     "0200000000",
		PaymentMethod: models.PaymentMethodPayLater,
	})
	require.Nil(t, svcErr)

	order, err := orders.FindByID(context.Background(), result.OrderID)
	require.NoError(t, err)

	var lineSum float64
	for _, item := range order.Items {
		assert.Equal(t, item.PriceAtPurchase*float64(item.Quantity), item.Subtotal)
		lineSum += item.Subtotal
	}
	assert.InDelta(t, lineSum+order.TaxAmount+order.DeliveryFee, order.TotalAmount, 1e-9)
	// Taxes apply to the subtotal only, additively: (15 + 2.5)% of 170.
	assert.InDelta(t, 170*0.175, order.TaxAmount, 1e-9)
}

func TestPlaceOrderBulkSurcharge(t *testing.T) {
	svc, catalog, _, settings, _, _ := newCheckoutFixture()

	variant := newTestVariant("Club Beer", "Single", 10, 1)
	catalog.addVariant(variant, 100)

	zoneID := uuid.New()
	settings.zones[zoneID] = models.DeliveryZone{
		ID: zoneID, Name: "Tema", RegionCategory: models.RegionAccraSubzone,
		BasePrice: 20, IsActive: true,
	}

	result, svcErr := svc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:          []OrderLineRequest{{VariantID: variant.ID, Quantity: 15}},
		UserPhone:      "0244444444",
		DeliveryZoneID: &zoneID,
		PaymentMethod:  models.PaymentMethodManual,
	})
	require.Nil(t, svcErr)
	// 20 base + (15-10) x 5 surcharge.
	assert.Equal(t, 150.0+45.0, result.GrandTotal)
}

func TestPlaceOrderRecomputesPromotionPrice(t *testing.T) {
	svc, catalog, orders, _, _, _ := newCheckoutFixture()

	variant := newTestVariant("Kasapreko Gin", "Single", 100, 1)
	variant.Product.IsFeatured = true
	variant.Product.DiscountPercent = 20
	catalog.addVariant(variant, 50)

	result, svcErr := svc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:         []OrderLineRequest{{VariantID: variant.ID, Quantity: 1}},
		UserPhone:     "0200000000",
		PaymentMethod: models.PaymentMethodManual,
	})
	require.Nil(t, svcErr)

	order, err := orders.FindByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, order.Items[0].PriceAtPurchase)
}

func TestPlaceOrderSharedPoolOversellRejected(t *testing.T) {
	svc, catalog, orders, _, sms, _ := newCheckoutFixture()

	poolID := uuid.New()
	single := newTestVariant("Club Beer", "Single", 10, 1)
	crate := newTestVariant("Club Beer", "Crate of 6", 55, 6)
	single.MasterStockID = poolID
	crate.MasterStockID = poolID
	catalog.addVariant(single, 10)
	catalog.addVariant(crate, 10)

	// 8 + 6 = 14 units of demand against a pool of 10.
	_, svcErr := svc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items: []OrderLineRequest{
			{VariantID: single.ID, Quantity: 8},
			{VariantID: crate.ID, Quantity: 1},
		},
		UserPhone:     "0200000000",
		PaymentMethod: models.PaymentMethodManual,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, 10, catalog.level(poolID))

	_, total, err := orders.FindAll(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, sms.sent)
}

func TestPlaceOrderCompensatesOnDecrementRace(t *testing.T) {
	svc, catalog, _, _, _, _ := newCheckoutFixture()

	a := newTestVariant("Club Beer", "Single", 10, 1)
	b := newTestVariant("Kasapreko Gin", "Single", 20, 1)
	catalog.addVariant(a, 30)
	catalog.addVariant(b, 30)

	// Pool B's conditional update loses a race after validation passed.
	catalog.failDecrementFor[b.MasterStockID] = true

	_, svcErr := svc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items: []OrderLineRequest{
			{VariantID: a.ID, Quantity: 5},
			{VariantID: b.ID, Quantity: 5},
		},
		UserPhone:     "0200000000",
		PaymentMethod: models.PaymentMethodManual,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, 30, catalog.level(a.MasterStockID))
	assert.Equal(t, 30, catalog.level(b.MasterStockID))
}

func TestPlaceOrderCompensatesOnOrderInsertFailure(t *testing.T) {
	svc, catalog, orders, _, sms, _ := newCheckoutFixture()

	variant := newTestVariant("Club Beer", "Single", 10, 1)
	catalog.addVariant(variant, 40)
	orders.createErr = errors.New("connection reset")

	_, svcErr := svc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:         []OrderLineRequest{{VariantID: variant.ID, Quantity: 3}},
		UserPhone:     "0200000000",
		PaymentMethod: models.PaymentMethodManual,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 500, svcErr.StatusCode)
	assert.Equal(t, 40, catalog.level(variant.MasterStockID))
	assert.Empty(t, sms.sent)
}

func TestPlaceOrderUnknownVariantRejected(t *testing.T) {
	svc, _, _, _, _, _ := newCheckoutFixture()

	_, svcErr := svc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:         []OrderLineRequest{{VariantID: uuid.New(), Quantity: 1, Title: "Ghost"}},
		UserPhone:     "0200000000",
		PaymentMethod: models.PaymentMethodManual,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestPlaceOrderGatewayDefersNotifications(t *testing.T) {
	svc, catalog, _, _, sms, email := newCheckoutFixture()

	variant := newTestVariant("Club Beer", "Single", 10, 1)
	catalog.addVariant(variant, 40)

	_, svcErr := svc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:         []OrderLineRequest{{VariantID: variant.ID, Quantity: 1}},
		UserPhone:     "0200000000",
		PaymentMethod: models.PaymentMethodPaystack,
	})
	require.Nil(t, svcErr)
	assert.Empty(t, sms.sent)
	assert.Empty(t, email.sent)
	// Stock is still reserved even though no message left.
	assert.Equal(t, 39, catalog.level(variant.MasterStockID))
}

func TestPlaceOrderGatewayImmediateFlag(t *testing.T) {
	catalog := newMockCatalogRepo()
	orders := newMockOrderRepo()
	settings := newMockSettingsRepo()
	settings.addDefaultTemplates()
	sms := &mockSMSSender{}
	email := &mockEmailSender{}
	dispatcher := NewNotificationDispatcher(settings, sms, email, zap.NewNop())
	svc := NewCheckoutService(catalog, orders, settings, dispatcher, nil, "", true, zap.NewNop())

	variant := newTestVariant("Club Beer", "Single", 10, 1)
	catalog.addVariant(variant, 40)

	_, svcErr := svc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:         []OrderLineRequest{{VariantID: variant.ID, Quantity: 1}},
		UserPhone:     "0200000000",
		PaymentMethod: models.PaymentMethodPaystack,
	})
	require.Nil(t, svcErr)
	assert.NotEmpty(t, sms.sent)
}

func TestPlaceOrderRegionDisabled(t *testing.T) {
	svc, catalog, _, settings, _, _ := newCheckoutFixture()

	variant := newTestVariant("Club Beer", "Single", 10, 1)
	catalog.addVariant(variant, 40)

	settings.settings.EnableOutsideAccra = false
	zoneID := uuid.New()
	settings.zones[zoneID] = models.DeliveryZone{
		ID: zoneID, Name: "Kumasi", RegionCategory: models.RegionRegional,
		BasePrice: 60, IsActive: true,
	}

	_, svcErr := svc.PlaceOrder(context.Background(), nil, &PlaceOrderRequest{
		Items:          []OrderLineRequest{{VariantID: variant.ID, Quantity: 1}},
		UserPhone:      "0200000000",
		DeliveryZoneID: &zoneID,
		PaymentMethod:  models.PaymentMethodManual,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	// The reservation was rolled back.
	assert.Equal(t, 40, catalog.level(variant.MasterStockID))
}
