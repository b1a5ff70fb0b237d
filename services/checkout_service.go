package services

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/odark007/liq-store/models"
	awspkg "github.com/odark007/liq-store/pkg/aws"
	"github.com/odark007/liq-store/pricing"
	"github.com/odark007/liq-store/repository"
	"go.uber.org/zap"
)

// ServiceError is a typed error with an HTTP status code; services return it
// instead of raising past their boundary, and controllers branch on it.
type ServiceError struct {
	StatusCode int
	Message    string
	// Details carries structured data some failures expose to the client,
	// like how far a cart add overshot the stock pool.
	Details interface{}
}

func (e *ServiceError) Error() string {
	return e.Message
}

// OrderLineRequest is one cart line as submitted. Title and variant name are
// display hints only; price never comes from the client.
type OrderLineRequest struct {
	VariantID   uuid.UUID `json:"variant_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
	Title       string    `json:"title"`
	VariantName string    `json:"variant_name"`
}

// PlaceOrderRequest is the cart-submitted intent. Prices are deliberately
// absent: the server recomputes every price from live data.
type PlaceOrderRequest struct {
	Items []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
	CustomerName    string     `json:"customer_name"`
	UserPhone       string     `json:"user_phone" binding:"required"`
	UserEmail       string     `json:"user_email"`
	DeliveryZoneID  *uuid.UUID `json:"delivery_zone_id"`
	DeliveryAddress string     `json:"delivery_address"`
	PaymentMethod   string     `json:"payment_method" binding:"required,oneof=paystack manual_momo pay_later"`
	Notes           string     `json:"notes"`
}

type PlaceOrderResult struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber int64     `json:"order_number"`
	GrandTotal  float64   `json:"grand_total"`
}

type orderPlacedEvent struct {
	EventType     string    `json:"event_type"`
	OrderID       string    `json:"order_id"`
	OrderNumber   int64     `json:"order_number"`
	TotalAmount   float64   `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	Timestamp     time.Time `json:"timestamp"`
}

// CheckoutService turns a cart intent into a durable order. The backing
// store offers no multi-statement transaction across these steps, so the
// ordering is chosen to bound partial-failure damage: validate all pools,
// conditionally decrement, persist order+items, then notify — with an
// explicit compensating restock whenever a decrement outlives a failure.
type CheckoutService struct {
	catalogRepo  repository.CatalogRepository
	orderRepo    repository.OrderRepository
	settingsRepo repository.SettingsRepository
	dispatcher   *NotificationDispatcher
	snsClient    awspkg.SNSPublisher
	snsTopicArn  string
	// notifyGatewayOrders sends the new-order pair immediately even for
	// gateway payments; normally those wait for the payment webhook.
	notifyGatewayOrders bool
	logger              *zap.Logger
}

func NewCheckoutService(
	catalogRepo repository.CatalogRepository,
	orderRepo repository.OrderRepository,
	settingsRepo repository.SettingsRepository,
	dispatcher *NotificationDispatcher,
	snsClient awspkg.SNSPublisher,
	snsTopicArn string,
	notifyGatewayOrders bool,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		catalogRepo:         catalogRepo,
		orderRepo:           orderRepo,
		settingsRepo:        settingsRepo,
		dispatcher:          dispatcher,
		snsClient:           snsClient,
		snsTopicArn:         snsTopicArn,
		notifyGatewayOrders: notifyGatewayOrders,
		logger:              logger,
	}
}

func promotionOf(p *models.Product) pricing.Promotion {
	if p == nil {
		return pricing.Promotion{}
	}
	return pricing.Promotion{
		IsFeatured:      p.IsFeatured,
		DiscountPercent: p.DiscountPercent,
		DiscountStartAt: p.DiscountStartAt,
		DiscountEndAt:   p.DiscountEndAt,
	}
}

// PlaceOrder runs the full placement pipeline. userID is nil for guests.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID *uuid.UUID, req *PlaceOrderRequest) (*PlaceOrderResult, *ServiceError) {
	now := time.Now()

	// Authoritative variant data in one batch read.
	variantIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		variantIDs = append(variantIDs, item.VariantID)
	}
	variants, err := s.catalogRepo.FindVariantsByIDs(ctx, variantIDs)
	if err != nil {
		s.logger.Error("failed to load variants", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not verify products"}
	}
	byID := make(map[uuid.UUID]*models.ProductVariant, len(variants))
	for i := range variants {
		byID[variants[i].ID] = &variants[i]
	}

	// Recompute prices server-side and accumulate per-pool demand. A single
	// variant checked in isolation against the raw level would double-sell
	// bottles packaged two ways, so demand is summed per pool first.
	demand := map[uuid.UUID]int{}
	poolLevels := map[uuid.UUID]int{}
	var subtotal float64
	totalItems := 0
	orderItems := make([]models.OrderItem, 0, len(req.Items))

	for _, item := range req.Items {
		variant, ok := byID[item.VariantID]
		if !ok {
			return nil, &ServiceError{StatusCode: 400, Message: "Product not found: " + item.Title}
		}
		if variant.Inventory == nil {
			s.logger.Error("inventory record missing", zap.String("variant_id", variant.ID.String()))
			return nil, &ServiceError{StatusCode: 500, Message: "Inventory record missing"}
		}

		factor := variant.ConsumptionFactor
		if factor < 1 {
			factor = 1
		}
		demand[variant.MasterStockID] += item.Quantity * factor
		poolLevels[variant.MasterStockID] = variant.Inventory.CurrentStockLevel

		quote := pricing.ResolvePrice(variant.Price, promotionOf(variant.Product), now)
		lineTotal := quote.FinalPrice * float64(item.Quantity)
		subtotal += lineTotal
		totalItems += item.Quantity

		title := item.Title
		if variant.Product != nil {
			title = variant.Product.Title
		}
		variantName := variant.Name
		if variantName == "" {
			variantName = item.VariantName
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductTitle:    title,
			VariantName:     variantName,
			PriceAtPurchase: quote.FinalPrice,
			Quantity:        item.Quantity,
			Subtotal:        lineTotal,
		})
	}

	// Validate every pool before touching any of them.
	for poolID, required := range demand {
		if poolLevels[poolID] < required {
			return nil, &ServiceError{StatusCode: 409, Message: "Items are out of stock. Please refresh your cart."}
		}
	}

	// Conditional decrements; the level guard closes the race two
	// concurrent checkouts would otherwise win together.
	decremented := make(map[uuid.UUID]int, len(demand))
	for poolID, required := range demand {
		ok, err := s.catalogRepo.DecrementStock(ctx, poolID, required)
		if err != nil || !ok {
			s.restock(ctx, decremented)
			if err != nil {
				s.logger.Error("stock decrement failed", zap.String("pool_id", poolID.String()), zap.Error(err))
				return nil, &ServiceError{StatusCode: 500, Message: "Failed to reserve stock"}
			}
			return nil, &ServiceError{StatusCode: 409, Message: "Items are out of stock. Please refresh your cart."}
		}
		decremented[poolID] = required
	}

	// Delivery fee and taxes. Settings are loaded once here and reused for
	// the notification dispatch below.
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		s.restock(ctx, decremented)
		s.logger.Error("failed to load store settings", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load store settings"}
	}

	var deliveryFee float64
	if req.DeliveryZoneID != nil {
		zone, err := s.settingsRepo.FindZoneByID(ctx, *req.DeliveryZoneID)
		if err != nil {
			s.restock(ctx, decremented)
			return nil, &ServiceError{StatusCode: 400, Message: "Invalid delivery zone"}
		}
		if (zone.RegionCategory == models.RegionRegional && !settings.EnableOutsideAccra) ||
			(zone.RegionCategory == models.RegionInternational && !settings.EnableInternational) {
			s.restock(ctx, decremented)
			return nil, &ServiceError{StatusCode: 400, Message: "Delivery to this region is currently unavailable"}
		}
		deliveryFee = zone.BasePrice
		if totalItems > settings.BulkThreshold {
			deliveryFee += float64(totalItems-settings.BulkThreshold) * settings.BulkSurcharge
		}
	}

	taxes, err := s.settingsRepo.ActiveTaxes(ctx)
	if err != nil {
		s.restock(ctx, decremented)
		s.logger.Error("failed to load tax rules", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load tax rules"}
	}
	var taxAmount float64
	for _, t := range taxes {
		taxAmount += subtotal * (t.RatePercent / 100)
	}

	grandTotal := subtotal + taxAmount + deliveryFee

	customerName := req.CustomerName
	if customerName == "" {
		customerName = DeriveCustomerName(req.Notes)
	}

	var email *string
	if req.UserEmail != "" {
		email = &req.UserEmail
	}
	order := &models.Order{
		UserID:          userID,
		CustomerName:    customerName,
		UserPhone:       FormatPhoneGH(req.UserPhone),
		UserEmail:       email,
		TotalAmount:     grandTotal,
		TaxAmount:       taxAmount,
		DeliveryFee:     deliveryFee,
		DeliveryZoneID:  req.DeliveryZoneID,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		DeliveryStatus:  models.DeliveryStatusProcessing,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Items:           orderItems,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// Highest-severity path: stock is already gone but no order exists.
		s.restock(ctx, decremented)
		s.logger.Error("order insert failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	s.logger.Info("order placed",
		zap.Int64("order_number", order.OrderNumber),
		zap.Float64("total", grandTotal),
		zap.String("payment_method", req.PaymentMethod),
	)

	s.publishOrderEvent(ctx, order)

	// Gateway-paid orders wait for the payment webhook before announcing
	// themselves; notifying now would fire for orders never actually paid.
	if req.PaymentMethod != models.PaymentMethodPaystack || s.notifyGatewayOrders {
		data := OrderNotification{
			OrderNumber:  order.OrderNumber,
			CustomerName: customerName,
			TotalAmount:  grandTotal,
			Subtotal:     subtotal,
			Tax:          taxAmount,
			Delivery:     deliveryFee,
			UserPhone:    order.UserPhone,
			UserEmail:    req.UserEmail,
			Items:        orderItems,
		}
		s.dispatcher.Dispatch(ctx, TriggerNewOrderAdmin, settings, data)
		s.dispatcher.Dispatch(ctx, TriggerNewOrderCustomer, settings, data)
	} else {
		s.logger.Info("deferring new-order notifications to payment webhook",
			zap.Int64("order_number", order.OrderNumber))
	}

	return &PlaceOrderResult{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		GrandTotal:  grandTotal,
	}, nil
}

// restock is the compensating action for pools decremented before a failure.
func (s *CheckoutService) restock(ctx context.Context, decremented map[uuid.UUID]int) {
	for poolID, amount := range decremented {
		if err := s.catalogRepo.IncrementStock(ctx, poolID, amount); err != nil {
			s.logger.Error("compensating restock failed",
				zap.String("pool_id", poolID.String()),
				zap.Int("amount", amount),
				zap.Error(err),
			)
		}
	}
}

// publishOrderEvent emits a best-effort order_placed event; failures never
// affect the checkout result.
func (s *CheckoutService) publishOrderEvent(ctx context.Context, order *models.Order) {
	if s.snsClient == nil || s.snsTopicArn == "" {
		return
	}
	event := orderPlacedEvent{
		EventType:     "order_placed",
		OrderID:       order.ID.String(),
		OrderNumber:   order.OrderNumber,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		Timestamp:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to marshal order event", zap.Error(err))
		return
	}
	if err := s.snsClient.Publish(ctx, s.snsTopicArn, payload); err != nil {
		s.logger.Warn("order event publish failed", zap.Error(err))
	}
}

// AmountInPesewas converts a cedi amount to the gateway's minor currency
// unit.
func AmountInPesewas(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
