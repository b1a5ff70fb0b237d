package services

import (
	"context"
	"strings"

	"github.com/odark007/liq-store/models"
	"github.com/odark007/liq-store/repository"
	"github.com/odark007/liq-store/sender"
	"go.uber.org/zap"
)

// Audience decides which switch gates a trigger and whose contacts receive
// it. Explicit, not inferred from the trigger id string.
type Audience int

const (
	AudienceAdmin Audience = iota
	AudienceCustomer
)

// Trigger identifies one logical notification event. The ID doubles as the
// template key operators edit in the back office.
type Trigger struct {
	ID       string
	Audience Audience
}

var (
	TriggerNewOrderAdmin    = Trigger{ID: "new_order_admin", Audience: AudienceAdmin}
	TriggerNewOrderCustomer = Trigger{ID: "new_order_customer", Audience: AudienceCustomer}
	TriggerStatusDispatched = Trigger{ID: "status_dispatched", Audience: AudienceCustomer}
	TriggerStatusDelivered  = Trigger{ID: "status_delivered", Audience: AudienceCustomer}
	TriggerPaymentReceived  = Trigger{ID: "payment_received", Audience: AudienceCustomer}
)

// OrderNotification carries the order facts a template can reference.
type OrderNotification struct {
	OrderNumber  int64
	CustomerName string
	TotalAmount  float64
	Subtotal     float64
	Tax          float64
	Delivery     float64
	UserPhone    string
	UserEmail    string
	Items        []models.OrderItem
}

// NotificationDispatcher routes one trigger to zero or more channels,
// substituting order data into the stored template. Three gates must all be
// open for a message to leave: master channel switch, audience switch, and
// the template's own is_active flag. Sends are best-effort; a failed channel
// never fails the calling operation and never blocks the other channel.
type NotificationDispatcher struct {
	settingsRepo repository.SettingsRepository
	sms          sender.SMSSender
	email        sender.EmailSender
	logger       *zap.Logger
}

func NewNotificationDispatcher(
	settingsRepo repository.SettingsRepository,
	sms sender.SMSSender,
	email sender.EmailSender,
	logger *zap.Logger,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		settingsRepo: settingsRepo,
		sms:          sms,
		email:        email,
		logger:       logger,
	}
}

// Dispatch fires one trigger. Settings are supplied by the caller, which
// loaded them once for the whole request; the dispatcher never re-fetches
// them mid-operation. A missing or inactive template is a logged no-op.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, trigger Trigger, settings *models.StoreSettings, data OrderNotification) {
	tmpl, err := d.settingsRepo.FindTemplate(ctx, trigger.ID)
	if err != nil {
		d.logger.Warn("notification template not found",
			zap.String("trigger", trigger.ID), zap.Error(err))
		return
	}
	if !tmpl.IsActive {
		d.logger.Info("notification template inactive", zap.String("trigger", trigger.ID))
		return
	}

	customerName := data.CustomerName
	if strings.TrimSpace(customerName) == "" {
		customerName = "Customer"
	}

	invoiceHTML := BuildInvoiceHTML(data.Items, data.Subtotal, data.Tax, data.Delivery, data.TotalAmount)

	substitute := strings.NewReplacer(
		"{{order_number}}", formatOrderNumber(data.OrderNumber),
		"{{customer_name}}", customerName,
		"{{total}}", FormatCurrency(data.TotalAmount),
	).Replace

	smsBody := substitute(tmpl.SMSTemplate)
	emailSubject := substitute(tmpl.EmailSubject)
	// Invoice table is email-only; SMS bodies never carry HTML.
	emailBody := strings.ReplaceAll(substitute(tmpl.EmailBody), "{{invoice_table}}", invoiceHTML)

	switch trigger.Audience {
	case AudienceAdmin:
		if !settings.EnableAdminAlerts {
			d.logger.Info("admin alerts disabled", zap.String("trigger", trigger.ID))
			return
		}
		if settings.MasterSMSEnabled && settings.WhatsappPhone != "" {
			d.sendSMS(ctx, trigger, settings.WhatsappPhone, smsBody)
		}
		if settings.MasterSMSEnabled && settings.EnableBackupPhone && settings.BackupAdminPhone != "" {
			d.sendSMS(ctx, trigger, settings.BackupAdminPhone, smsBody)
		}
		if settings.MasterEmailEnabled && settings.AdminAlertEmail != "" {
			d.sendEmail(ctx, trigger, settings.AdminAlertEmail, emailSubject, emailBody)
		}

	case AudienceCustomer:
		if !settings.EnableCustomerAlerts {
			d.logger.Info("customer alerts disabled", zap.String("trigger", trigger.ID))
			return
		}
		if settings.MasterSMSEnabled && data.UserPhone != "" {
			d.sendSMS(ctx, trigger, data.UserPhone, smsBody)
		}
		if settings.MasterEmailEnabled && strings.Contains(data.UserEmail, "@") {
			d.sendEmail(ctx, trigger, data.UserEmail, emailSubject, emailBody)
		}
	}
}

func (d *NotificationDispatcher) sendSMS(ctx context.Context, trigger Trigger, to, body string) {
	if _, err := d.sms.SendSMS(ctx, to, body); err != nil {
		d.logger.Error("sms send failed",
			zap.String("trigger", trigger.ID),
			zap.String("to", to),
			zap.Error(err),
		)
		return
	}
	d.logger.Info("sms sent", zap.String("trigger", trigger.ID), zap.String("to", to))
}

func (d *NotificationDispatcher) sendEmail(ctx context.Context, trigger Trigger, to, subject, body string) {
	if _, err := d.email.SendEmail(ctx, to, subject, body); err != nil {
		d.logger.Error("email send failed",
			zap.String("trigger", trigger.ID),
			zap.String("to", to),
			zap.Error(err),
		)
		return
	}
	d.logger.Info("email sent", zap.String("trigger", trigger.ID), zap.String("to", to))
}
