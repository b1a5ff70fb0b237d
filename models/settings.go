package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RegionAccraSubzone  = "accra_subzone"
	RegionRegional      = "regional"
	RegionInternational = "international"
)

// StoreSettings is a single operator-edited row (id = 1). Callers load it
// once per request and pass it through; nothing re-fetches mid-operation.
type StoreSettings struct {
	ID                   int     `gorm:"primaryKey" json:"id"`
	WhatsappPhone        string  `json:"whatsapp_phone"`
	PrimaryPhone         string  `json:"primary_phone"`
	SupportEmail         string  `json:"support_email"`
	EnableOutsideAccra   bool    `gorm:"default:true" json:"enable_outside_accra"`
	EnableInternational  bool    `gorm:"default:false" json:"enable_international"`
	BulkThreshold        int     `gorm:"default:10" json:"bulk_threshold"`
	BulkSurcharge        float64 `gorm:"default:5" json:"bulk_surcharge"`
	MasterSMSEnabled     bool    `gorm:"default:true" json:"master_sms_enabled"`
	MasterEmailEnabled   bool    `gorm:"default:true" json:"master_email_enabled"`
	EnableAdminAlerts    bool    `gorm:"default:true" json:"enable_admin_alerts"`
	EnableCustomerAlerts bool    `gorm:"default:true" json:"enable_customer_alerts"`
	EnableBackupPhone    bool    `gorm:"default:false" json:"enable_backup_phone"`
	BackupAdminPhone     string  `json:"backup_admin_phone"`
	AdminAlertEmail      string  `json:"admin_alert_email"`
}

type DeliveryZone struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	RegionCategory string    `gorm:"type:varchar(20);not null;default:'accra_subzone'" json:"region_category"`
	BasePrice      float64   `gorm:"not null" json:"base_price"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
}

// Tax rules are additive flat percentages of the order subtotal. Priority
// orders display only; rules never compound on each other or on delivery.
type Tax struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	RatePercent float64   `gorm:"not null" json:"rate_percent"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	Priority    int       `gorm:"default:0" json:"priority"`
}

// NotificationTemplate is operator-authored message content keyed by a stable
// trigger id. Placeholder tokens ({{order_number}}, {{customer_name}},
// {{total}}, {{invoice_table}}) are substituted at dispatch time.
type NotificationTemplate struct {
	TriggerID    string    `gorm:"primaryKey" json:"trigger_id"`
	Name         string    `json:"name"`
	SMSTemplate  string    `json:"sms_template"`
	EmailSubject string    `json:"email_subject"`
	EmailBody    string    `json:"email_body"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
