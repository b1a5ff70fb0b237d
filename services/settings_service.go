package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/odark007/liq-store/models"
	"github.com/odark007/liq-store/repository"
	"go.uber.org/zap"
)

var knownTriggers = map[string]bool{
	TriggerNewOrderAdmin.ID:    true,
	TriggerNewOrderCustomer.ID: true,
	TriggerStatusDispatched.ID: true,
	TriggerStatusDelivered.ID:  true,
	TriggerPaymentReceived.ID:  true,
}

var validRegionCategories = map[string]bool{
	models.RegionAccraSubzone:  true,
	models.RegionRegional:      true,
	models.RegionInternational: true,
}

// SettingsService exposes the operator-facing configuration surface: the
// store settings row, delivery zones, tax rules and notification templates.
type SettingsService struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

func (s *SettingsService) GetSettings(ctx context.Context) (*models.StoreSettings, *ServiceError) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		s.logger.Error("failed to load settings", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load settings"}
	}
	return settings, nil
}

func (s *SettingsService) UpdateSettings(ctx context.Context, fields map[string]interface{}) (*models.StoreSettings, *ServiceError) {
	if len(fields) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "No fields provided"}
	}
	delete(fields, "id")
	if err := s.repo.UpdateSettings(ctx, fields); err != nil {
		s.logger.Error("failed to update settings", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update settings"}
	}
	return s.GetSettings(ctx)
}

func (s *SettingsService) ListZones(ctx context.Context) ([]models.DeliveryZone, *ServiceError) {
	zones, err := s.repo.ListZones(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load delivery zones"}
	}
	return zones, nil
}

func (s *SettingsService) SaveZone(ctx context.Context, zone *models.DeliveryZone) (*models.DeliveryZone, *ServiceError) {
	if zone.Name == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Zone name is required"}
	}
	if zone.BasePrice < 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Base price cannot be negative"}
	}
	if zone.RegionCategory == "" {
		zone.RegionCategory = models.RegionAccraSubzone
	}
	if !validRegionCategories[zone.RegionCategory] {
		return nil, &ServiceError{StatusCode: 400, Message: "Unknown region category: " + zone.RegionCategory}
	}
	if zone.ID == uuid.Nil {
		zone.ID = uuid.New()
	}
	if err := s.repo.UpsertZone(ctx, zone); err != nil {
		s.logger.Error("failed to save zone", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save zone"}
	}
	return zone, nil
}

func (s *SettingsService) DeleteZone(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.DeleteZone(ctx, id); err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to delete zone"}
	}
	return nil
}

func (s *SettingsService) ListTaxes(ctx context.Context) ([]models.Tax, *ServiceError) {
	taxes, err := s.repo.ActiveTaxes(ctx)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load taxes"}
	}
	return taxes, nil
}

func (s *SettingsService) SaveTax(ctx context.Context, tax *models.Tax) (*models.Tax, *ServiceError) {
	if tax.Name == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Tax name is required"}
	}
	if tax.RatePercent < 0 || tax.RatePercent > 100 {
		return nil, &ServiceError{StatusCode: 400, Message: "Rate must be between 0 and 100"}
	}
	if tax.ID == uuid.Nil {
		tax.ID = uuid.New()
	}
	if err := s.repo.UpsertTax(ctx, tax); err != nil {
		s.logger.Error("failed to save tax", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save tax"}
	}
	return tax, nil
}

func (s *SettingsService) DeleteTax(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.DeleteTax(ctx, id); err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to delete tax"}
	}
	return nil
}

func (s *SettingsService) GetTemplate(ctx context.Context, triggerID string) (*models.NotificationTemplate, *ServiceError) {
	if !knownTriggers[triggerID] {
		return nil, &ServiceError{StatusCode: 404, Message: "Unknown trigger: " + triggerID}
	}
	tmpl, err := s.repo.FindTemplate(ctx, triggerID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Template not found"}
	}
	return tmpl, nil
}

func (s *SettingsService) UpdateTemplate(ctx context.Context, triggerID string, fields map[string]interface{}) (*models.NotificationTemplate, *ServiceError) {
	if !knownTriggers[triggerID] {
		return nil, &ServiceError{StatusCode: 404, Message: "Unknown trigger: " + triggerID}
	}
	delete(fields, "trigger_id")
	if len(fields) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "No fields provided"}
	}
	if err := s.repo.UpdateTemplate(ctx, triggerID, fields); err != nil {
		s.logger.Error("failed to update template", zap.String("trigger", triggerID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update template"}
	}
	return s.GetTemplate(ctx, triggerID)
}
