package cart

import (
	"context"

	"github.com/odark007/liq-store/models"
	"go.uber.org/zap"
)

// Store is the durable cart API: load, validate, commit, save. Validation is
// all-or-nothing — a rejected mutation never persists a partial change.
type Store struct {
	repo   Repository
	logger *zap.Logger
}

func NewStore(repo Repository, logger *zap.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

func (s *Store) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	c, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = newCart(sessionID)
	}
	return c, nil
}

// AddLine merges or appends a line after the pool check passes.
// masterStockTotal is the caller's last-known pool level; pass 0 when unknown
// and the cached snapshot is used instead.
func (s *Store) AddLine(ctx context.Context, sessionID string, line models.CartItem, masterStockTotal int) (*models.Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := addLine(c, line, masterStockTotal); err != nil {
		s.logger.Info("cart add rejected",
			zap.String("session_id", sessionID),
			zap.String("variant_id", line.VariantID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) UpdateQuantity(ctx context.Context, sessionID, variantID string, quantity int) (*models.Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := updateQuantity(c, variantID, quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) RemoveLine(ctx context.Context, sessionID, variantID string) (*models.Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	removeLine(c, variantID)

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the session's cart; called after a successful order.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}
