package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/odark007/liq-store/cart"
	"github.com/odark007/liq-store/models"
	"github.com/odark007/liq-store/pricing"
	"github.com/odark007/liq-store/repository"
	"go.uber.org/zap"
)

// CartService joins the session cart store with the live catalog: adds look
// up the authoritative variant, resolve its current price and pool level,
// and only then touch the cart.
type CartService struct {
	store       *cart.Store
	catalogRepo repository.CatalogRepository
	logger      *zap.Logger
}

func NewCartService(store *cart.Store, catalogRepo repository.CatalogRepository, logger *zap.Logger) *CartService {
	return &CartService{store: store, catalogRepo: catalogRepo, logger: logger}
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (*models.Cart, *ServiceError) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("cart load failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	return c, nil
}

// AddVariant reserves quantity units of a variant in the session cart. Price
// and pool level come from the catalog, never from the client.
func (s *CartService) AddVariant(ctx context.Context, sessionID string, variantID uuid.UUID, quantity int) (*models.Cart, *ServiceError) {
	variants, err := s.catalogRepo.FindVariantsByIDs(ctx, []uuid.UUID{variantID})
	if err != nil || len(variants) == 0 {
		return nil, &ServiceError{StatusCode: 404, Message: "Product variant not found"}
	}
	variant := variants[0]

	title := ""
	promo := pricing.Promotion{}
	if variant.Product != nil {
		title = variant.Product.Title
		promo = pricing.Promotion{
			IsFeatured:      variant.Product.IsFeatured,
			DiscountPercent: variant.Product.DiscountPercent,
			DiscountStartAt: variant.Product.DiscountStartAt,
			DiscountEndAt:   variant.Product.DiscountEndAt,
		}
	}
	quote := pricing.ResolvePrice(variant.Price, promo, time.Now())

	poolLevel := 0
	if variant.Inventory != nil {
		poolLevel = variant.Inventory.CurrentStockLevel
	}

	line := models.CartItem{
		VariantID:         variant.ID.String(),
		ProductID:         variant.ProductID.String(),
		Title:             title,
		VariantName:       variant.Name,
		UnitPrice:         quote.FinalPrice,
		Quantity:          quantity,
		ConsumptionFactor: variant.ConsumptionFactor,
	}

	c, err := s.store.AddLine(ctx, sessionID, line, poolLevel)
	if err != nil {
		return nil, cartError(err)
	}
	return c, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, variantID string, quantity int) (*models.Cart, *ServiceError) {
	c, err := s.store.UpdateQuantity(ctx, sessionID, variantID, quantity)
	if err != nil {
		return nil, cartError(err)
	}
	return c, nil
}

func (s *CartService) RemoveLine(ctx context.Context, sessionID, variantID string) (*models.Cart, *ServiceError) {
	c, err := s.store.RemoveLine(ctx, sessionID, variantID)
	if err != nil {
		return nil, cartError(err)
	}
	return c, nil
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string) *ServiceError {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to clear cart"}
	}
	return nil
}

func cartError(err error) *ServiceError {
	var stockErr *cart.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return &ServiceError{StatusCode: 409, Message: stockErr.Error(), Details: stockErr}
	case errors.Is(err, cart.ErrInvalidQuantity):
		return &ServiceError{StatusCode: 400, Message: err.Error()}
	case errors.Is(err, cart.ErrLineNotFound):
		return &ServiceError{StatusCode: 404, Message: err.Error()}
	default:
		return &ServiceError{StatusCode: 500, Message: "Cart operation failed"}
	}
}
