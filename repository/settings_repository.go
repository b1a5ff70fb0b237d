package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/odark007/liq-store/models"
	"gorm.io/gorm"
)

// SettingsRepository defines data access for store-wide configuration:
// the settings row, delivery zones, tax rules and notification templates.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*models.StoreSettings, error)
	UpdateSettings(ctx context.Context, fields map[string]interface{}) error
	FindZoneByID(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error)
	ListZones(ctx context.Context) ([]models.DeliveryZone, error)
	UpsertZone(ctx context.Context, zone *models.DeliveryZone) error
	DeleteZone(ctx context.Context, id uuid.UUID) error
	ActiveTaxes(ctx context.Context) ([]models.Tax, error)
	UpsertTax(ctx context.Context, tax *models.Tax) error
	DeleteTax(ctx context.Context, id uuid.UUID) error
	FindTemplate(ctx context.Context, triggerID string) (*models.NotificationTemplate, error)
	UpdateTemplate(ctx context.Context, triggerID string, fields map[string]interface{}) error
}

// GormSettingsRepository implements SettingsRepository using GORM.
type GormSettingsRepository struct {
	db *gorm.DB
}

func NewGormSettingsRepository(db *gorm.DB) SettingsRepository {
	return &GormSettingsRepository{db: db}
}

func (r *GormSettingsRepository) GetSettings(ctx context.Context) (*models.StoreSettings, error) {
	var s models.StoreSettings
	if err := r.db.WithContext(ctx).First(&s, "id = ?", 1).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSettingsRepository) UpdateSettings(ctx context.Context, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.StoreSettings{}).
		Where("id = ?", 1).
		Updates(fields).Error
}

func (r *GormSettingsRepository) FindZoneByID(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.db.WithContext(ctx).First(&zone, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *GormSettingsRepository) ListZones(ctx context.Context) ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	if err := r.db.WithContext(ctx).Order("name").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *GormSettingsRepository) UpsertZone(ctx context.Context, zone *models.DeliveryZone) error {
	return r.db.WithContext(ctx).Save(zone).Error
}

func (r *GormSettingsRepository) DeleteZone(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.DeliveryZone{}, "id = ?", id).Error
}

func (r *GormSettingsRepository) ActiveTaxes(ctx context.Context) ([]models.Tax, error) {
	var taxes []models.Tax
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority").
		Find(&taxes).Error; err != nil {
		return nil, err
	}
	return taxes, nil
}

func (r *GormSettingsRepository) UpsertTax(ctx context.Context, tax *models.Tax) error {
	return r.db.WithContext(ctx).Save(tax).Error
}

func (r *GormSettingsRepository) DeleteTax(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Tax{}, "id = ?", id).Error
}

func (r *GormSettingsRepository) FindTemplate(ctx context.Context, triggerID string) (*models.NotificationTemplate, error) {
	var tmpl models.NotificationTemplate
	if err := r.db.WithContext(ctx).First(&tmpl, "trigger_id = ?", triggerID).Error; err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (r *GormSettingsRepository) UpdateTemplate(ctx context.Context, triggerID string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.NotificationTemplate{}).
		Where("trigger_id = ?", triggerID).
		Updates(fields).Error
}
