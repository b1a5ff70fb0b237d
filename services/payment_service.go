package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/odark007/liq-store/models"
	"github.com/odark007/liq-store/repository"
	"go.uber.org/zap"
)

// PaymentService ties the payment gateway to orders: starting a hosted
// checkout, verifying its outcome, and reacting to webhook events.
type PaymentService struct {
	paystack     *PaystackClient
	orderRepo    repository.OrderRepository
	settingsRepo repository.SettingsRepository
	dispatcher   *NotificationDispatcher
	logger       *zap.Logger
}

func NewPaymentService(
	paystack *PaystackClient,
	orderRepo repository.OrderRepository,
	settingsRepo repository.SettingsRepository,
	dispatcher *NotificationDispatcher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paystack:     paystack,
		orderRepo:    orderRepo,
		settingsRepo: settingsRepo,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// InitializePayment starts a gateway transaction for a pending order.
func (s *PaymentService) InitializePayment(ctx context.Context, orderID uuid.UUID, callbackURL string) (*InitializePaymentResult, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if order.PaymentMethod != models.PaymentMethodPaystack {
		return nil, &ServiceError{StatusCode: 400, Message: "Order is not a gateway payment"}
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, &ServiceError{StatusCode: 409, Message: "Order is already paid"}
	}

	// The gateway requires an email; fall back to a phone-derived address
	// for phone-only customers.
	email := order.UserPhone + "@placeholder.liqstore.com"
	if order.UserEmail != nil && *order.UserEmail != "" {
		email = *order.UserEmail
	}

	result, err := s.paystack.Initialize(ctx, &InitializePaymentRequest{
		Email:       email,
		AmountCedis: order.TotalAmount,
		OrderID:     order.ID.String(),
		CallbackURL: callbackURL,
	})
	if err != nil {
		s.logger.Error("payment initialization failed",
			zap.Int64("order_number", order.OrderNumber), zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Payment gateway unavailable"}
	}

	s.logger.Info("payment initialized",
		zap.Int64("order_number", order.OrderNumber),
		zap.String("reference", result.Reference),
	)
	return result, nil
}

// VerifyPayment confirms a transaction by reference and settles the linked
// order. Safe to call repeatedly; an already-paid order is left alone.
func (s *PaymentService) VerifyPayment(ctx context.Context, reference string) (*models.Order, *ServiceError) {
	result, err := s.paystack.Verify(ctx, reference)
	if err != nil {
		s.logger.Error("payment verification failed",
			zap.String("reference", reference), zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Payment verification failed"}
	}
	if result.Status != "success" {
		return nil, &ServiceError{StatusCode: 402, Message: "Payment not successful: " + result.Status}
	}

	orderID, err := uuid.Parse(result.Metadata.OrderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Transaction has no linked order"}
	}
	return s.settleOrder(ctx, orderID, result.Reference, result.Amount)
}

// HandleWebhook processes a signature-verified gateway event. Unknown event
// types are acknowledged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, event *WebhookEvent) *ServiceError {
	if event.Event != "charge.success" {
		s.logger.Info("ignoring webhook event", zap.String("event", event.Event))
		return nil
	}

	orderID, err := uuid.Parse(event.Data.Metadata.OrderID)
	if err != nil {
		s.logger.Warn("webhook without linked order",
			zap.String("reference", event.Data.Reference))
		return &ServiceError{StatusCode: 400, Message: "Event has no linked order"}
	}
	if _, svcErr := s.settleOrder(ctx, orderID, event.Data.Reference, event.Data.Amount); svcErr != nil {
		return svcErr
	}
	return nil
}

// settleOrder marks an order paid, records the gateway reference on it, and
// releases its deferred new-order notifications. Amounts are cross-checked
// against what the gateway actually collected.
func (s *PaymentService) settleOrder(ctx context.Context, orderID uuid.UUID, reference string, amountPesewas int64) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return order, nil
	}
	if amountPesewas < AmountInPesewas(order.TotalAmount) {
		s.logger.Error("payment amount mismatch",
			zap.Int64("order_number", order.OrderNumber),
			zap.Int64("paid_pesewas", amountPesewas),
			zap.Int64("expected_pesewas", AmountInPesewas(order.TotalAmount)),
		)
		return nil, &ServiceError{StatusCode: 400, Message: "Paid amount does not match order total"}
	}

	// The reference is the handle for disputes and refund lookups; it lands
	// in the notes alongside whatever the customer wrote.
	notes := order.Notes
	if reference != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += "Paystack Ref: " + reference
	}
	if err := s.orderRepo.UpdateFields(ctx, orderID, map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
		"notes":          notes,
	}); err != nil {
		s.logger.Error("failed to mark order paid",
			zap.Int64("order_number", order.OrderNumber), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order"}
	}
	order.PaymentStatus = models.PaymentStatusPaid
	order.Notes = notes

	s.logger.Info("order paid via gateway", zap.Int64("order_number", order.OrderNumber))

	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		s.logger.Error("failed to load settings for payment notifications", zap.Error(err))
		return order, nil
	}

	email := ""
	if order.UserEmail != nil {
		email = *order.UserEmail
	}
	subtotal := order.TotalAmount - order.TaxAmount - order.DeliveryFee
	data := OrderNotification{
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		Subtotal:     subtotal,
		Tax:          order.TaxAmount,
		Delivery:     order.DeliveryFee,
		UserPhone:    order.UserPhone,
		UserEmail:    email,
		Items:        order.Items,
	}
	// Gateway orders skipped the new-order pair at placement; it fires now
	// that the money is confirmed. Only the pair: payment_received belongs
	// to the admin status-update flow, not to settlement.
	s.dispatcher.Dispatch(ctx, TriggerNewOrderAdmin, settings, data)
	s.dispatcher.Dispatch(ctx, TriggerNewOrderCustomer, settings, data)

	return order, nil
}
