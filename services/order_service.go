package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/odark007/liq-store/models"
	"github.com/odark007/liq-store/repository"
	"go.uber.org/zap"
)

var validPaymentStatuses = map[string]bool{
	models.PaymentStatusPending: true,
	models.PaymentStatusPaid:    true,
	models.PaymentStatusFailed:  true,
}

var validDeliveryStatuses = map[string]bool{
	models.DeliveryStatusProcessing: true,
	models.DeliveryStatusReady:      true,
	models.DeliveryStatusDispatched: true,
	models.DeliveryStatusDelivered:  true,
}

// UpdateStatusRequest carries an admin status change. Both fields are
// optional; empty means leave unchanged.
type UpdateStatusRequest struct {
	PaymentStatus  string `json:"payment_status"`
	DeliveryStatus string `json:"delivery_status"`
}

// OrderService handles admin-side order operations: listing, status changes
// with their side effects, and manual inventory adjustments.
type OrderService struct {
	orderRepo    repository.OrderRepository
	catalogRepo  repository.CatalogRepository
	settingsRepo repository.SettingsRepository
	dispatcher   *NotificationDispatcher
	logger       *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	settingsRepo repository.SettingsRepository,
	dispatcher *NotificationDispatcher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	orders, total, err := s.orderRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("failed to list orders", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return orders, total, nil
}

// UpdateStatus applies a payment and/or delivery status change and runs its
// side effects: marking payment failed releases the order's stock back to
// the pools, and paid/dispatched/delivered transitions notify the customer.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req *UpdateStatusRequest) (*models.Order, *ServiceError) {
	if req.PaymentStatus == "" && req.DeliveryStatus == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "No status fields provided"}
	}
	if req.PaymentStatus != "" && !validPaymentStatuses[req.PaymentStatus] {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid payment status: " + req.PaymentStatus}
	}
	if req.DeliveryStatus != "" && !validDeliveryStatuses[req.DeliveryStatus] {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid delivery status: " + req.DeliveryStatus}
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}

	fields := map[string]interface{}{}
	paymentFailed := false
	paymentReceived := false
	if req.PaymentStatus != "" && req.PaymentStatus != order.PaymentStatus {
		fields["payment_status"] = req.PaymentStatus
		paymentFailed = req.PaymentStatus == models.PaymentStatusFailed
		paymentReceived = req.PaymentStatus == models.PaymentStatusPaid
	}
	deliveryChanged := ""
	if req.DeliveryStatus != "" && req.DeliveryStatus != order.DeliveryStatus {
		fields["delivery_status"] = req.DeliveryStatus
		deliveryChanged = req.DeliveryStatus
	}
	if len(fields) == 0 {
		return order, nil
	}

	if err := s.orderRepo.UpdateFields(ctx, orderID, fields); err != nil {
		s.logger.Error("order status update failed",
			zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order"}
	}

	// Only the transition INTO failed restocks; repeating it must not
	// credit the pools twice.
	if paymentFailed {
		s.restockOrderItems(ctx, order)
	}

	s.notifyStatusChange(ctx, order, paymentReceived, deliveryChanged)

	updated, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to reload order"}
	}
	return updated, nil
}

// restockOrderItems returns a cancelled order's consumption to its pools.
// Order items store name snapshots, not variant ids, so each line is matched
// back to the live catalog first; lines for deleted variants are logged and
// skipped.
func (s *OrderService) restockOrderItems(ctx context.Context, order *models.Order) {
	for _, item := range order.Items {
		variant, err := s.catalogRepo.FindVariantByNames(ctx, item.ProductTitle, item.VariantName)
		if err != nil {
			s.logger.Warn("restock skipped, variant not found",
				zap.Int64("order_number", order.OrderNumber),
				zap.String("product", item.ProductTitle),
				zap.String("variant", item.VariantName),
				zap.Error(err),
			)
			continue
		}
		factor := variant.ConsumptionFactor
		if factor < 1 {
			factor = 1
		}
		amount := item.Quantity * factor
		if err := s.catalogRepo.IncrementStock(ctx, variant.MasterStockID, amount); err != nil {
			s.logger.Error("restock failed",
				zap.Int64("order_number", order.OrderNumber),
				zap.String("pool_id", variant.MasterStockID.String()),
				zap.Int("amount", amount),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("stock returned to pool",
			zap.Int64("order_number", order.OrderNumber),
			zap.String("pool_id", variant.MasterStockID.String()),
			zap.Int("amount", amount),
		)
	}
}

func (s *OrderService) notifyStatusChange(ctx context.Context, order *models.Order, paymentReceived bool, deliveryStatus string) {
	var trigger *Trigger
	switch {
	case paymentReceived:
		trigger = &TriggerPaymentReceived
	case deliveryStatus == models.DeliveryStatusDispatched:
		trigger = &TriggerStatusDispatched
	case deliveryStatus == models.DeliveryStatusDelivered:
		trigger = &TriggerStatusDelivered
	default:
		return
	}

	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		s.logger.Error("failed to load settings for status notification", zap.Error(err))
		return
	}

	email := ""
	if order.UserEmail != nil {
		email = *order.UserEmail
	}
	s.dispatcher.Dispatch(ctx, *trigger, settings, OrderNotification{
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		UserPhone:    order.UserPhone,
		UserEmail:    email,
	})
}

// RestockInventory sets or adjusts a pool's level directly. delta adds to
// the current level; negative deltas are clamped by the conditional
// decrement so the level never goes below zero.
func (s *OrderService) RestockInventory(ctx context.Context, masterStockID uuid.UUID, delta int) (*models.InventoryMaster, *ServiceError) {
	if delta == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Adjustment must be non-zero"}
	}
	if delta > 0 {
		if err := s.catalogRepo.IncrementStock(ctx, masterStockID, delta); err != nil {
			s.logger.Error("inventory adjustment failed", zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to adjust inventory"}
		}
	} else {
		ok, err := s.catalogRepo.DecrementStock(ctx, masterStockID, -delta)
		if err != nil {
			s.logger.Error("inventory adjustment failed", zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to adjust inventory"}
		}
		if !ok {
			return nil, &ServiceError{StatusCode: 409, Message: "Adjustment would take stock below zero"}
		}
	}

	inv, err := s.catalogRepo.FindInventoryByID(ctx, masterStockID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Inventory pool not found"}
	}
	if inv.CurrentStockLevel <= inv.LowStockThreshold {
		s.logger.Warn("pool at or below low-stock threshold",
			zap.String("pool_id", inv.ID.String()),
			zap.Int("level", inv.CurrentStockLevel),
			zap.Int("threshold", inv.LowStockThreshold),
		)
	}
	return inv, nil
}
