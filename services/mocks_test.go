package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/odark007/liq-store/models"
	"github.com/odark007/liq-store/sender"
)

type mockCatalogRepo struct {
	mu       sync.Mutex
	variants map[uuid.UUID]models.ProductVariant
	pools    map[uuid.UUID]*models.InventoryMaster

	failDecrementFor map[uuid.UUID]bool
	decrementErr     error
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		variants:         map[uuid.UUID]models.ProductVariant{},
		pools:            map[uuid.UUID]*models.InventoryMaster{},
		failDecrementFor: map[uuid.UUID]bool{},
	}
}

func (m *mockCatalogRepo) addVariant(v models.ProductVariant, poolLevel int) {
	if _, ok := m.pools[v.MasterStockID]; !ok {
		m.pools[v.MasterStockID] = &models.InventoryMaster{ID: v.MasterStockID, CurrentStockLevel: poolLevel}
	}
	m.variants[v.ID] = v
}

func (m *mockCatalogRepo) FindVariantsByIDs(_ context.Context, ids []uuid.UUID) ([]models.ProductVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ProductVariant
	for _, id := range ids {
		v, ok := m.variants[id]
		if !ok {
			continue
		}
		if pool, ok := m.pools[v.MasterStockID]; ok {
			snapshot := *pool
			v.Inventory = &snapshot
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockCatalogRepo) FindVariantByNames(_ context.Context, productTitle, variantName string) (*models.ProductVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.variants {
		if v.Name == variantName && v.Product != nil && v.Product.Title == productTitle {
			found := v
			return &found, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockCatalogRepo) FindInventoryByID(_ context.Context, id uuid.UUID) (*models.InventoryMaster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pool, ok := m.pools[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	snapshot := *pool
	return &snapshot, nil
}

func (m *mockCatalogRepo) DecrementStock(_ context.Context, masterStockID uuid.UUID, amount int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.decrementErr != nil {
		return false, m.decrementErr
	}
	if m.failDecrementFor[masterStockID] {
		return false, nil
	}
	pool, ok := m.pools[masterStockID]
	if !ok || pool.CurrentStockLevel < amount {
		return false, nil
	}
	pool.CurrentStockLevel -= amount
	return true, nil
}

func (m *mockCatalogRepo) IncrementStock(_ context.Context, masterStockID uuid.UUID, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pool, ok := m.pools[masterStockID]
	if !ok {
		return errors.New("record not found")
	}
	pool.CurrentStockLevel += amount
	return nil
}

func (m *mockCatalogRepo) level(poolID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pools[poolID].CurrentStockLevel
}

type mockOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*models.Order
	createErr error
	nextNum   int64
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: map[uuid.UUID]*models.Order{}, nextNum: 1000}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = uuid.New()
	m.nextNum++
	order.OrderNumber = m.nextNum
	stored := *order
	m.orders[order.ID] = &stored
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return errors.New("record not found")
	}
	if v, ok := fields["payment_status"]; ok {
		order.PaymentStatus = v.(string)
	}
	if v, ok := fields["delivery_status"]; ok {
		order.DeliveryStatus = v.(string)
	}
	if v, ok := fields["notes"]; ok {
		order.Notes = v.(string)
	}
	return nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, page, limit int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

type mockSettingsRepo struct {
	settings  models.StoreSettings
	zones     map[uuid.UUID]models.DeliveryZone
	taxes     []models.Tax
	templates map[string]models.NotificationTemplate
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{
		settings: models.StoreSettings{
			ID:                   1,
			WhatsappPhone:        "233200000001",
			BulkThreshold:        10,
			BulkSurcharge:        5,
			MasterSMSEnabled:     true,
			MasterEmailEnabled:   true,
			EnableAdminAlerts:    true,
			EnableCustomerAlerts: true,
			EnableOutsideAccra:   true,
			AdminAlertEmail:      "admin@store.test",
		},
		zones:     map[uuid.UUID]models.DeliveryZone{},
		templates: map[string]models.NotificationTemplate{},
	}
}

func (m *mockSettingsRepo) addDefaultTemplates() {
	for _, id := range []string{"new_order_admin", "new_order_customer", "status_dispatched", "status_delivered", "payment_received"} {
		m.templates[id] = models.NotificationTemplate{
			TriggerID:    id,
			SMSTemplate:  fmt.Sprintf("[%s] order {{order_number}} total {{total}}", id),
			EmailSubject: fmt.Sprintf("[%s] order {{order_number}}", id),
			EmailBody:    "Hi {{customer_name}} {{invoice_table}}",
			IsActive:     true,
		}
	}
}

func (m *mockSettingsRepo) GetSettings(_ context.Context) (*models.StoreSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsRepo) UpdateSettings(_ context.Context, fields map[string]interface{}) error {
	return nil
}

func (m *mockSettingsRepo) FindZoneByID(_ context.Context, id uuid.UUID) (*models.DeliveryZone, error) {
	zone, ok := m.zones[id]
	if !ok || !zone.IsActive {
		return nil, errors.New("record not found")
	}
	return &zone, nil
}

func (m *mockSettingsRepo) ListZones(_ context.Context) ([]models.DeliveryZone, error) {
	var out []models.DeliveryZone
	for _, z := range m.zones {
		out = append(out, z)
	}
	return out, nil
}

func (m *mockSettingsRepo) UpsertZone(_ context.Context, zone *models.DeliveryZone) error {
	m.zones[zone.ID] = *zone
	return nil
}

func (m *mockSettingsRepo) DeleteZone(_ context.Context, id uuid.UUID) error {
	delete(m.zones, id)
	return nil
}

func (m *mockSettingsRepo) ActiveTaxes(_ context.Context) ([]models.Tax, error) {
	var out []models.Tax
	for _, t := range m.taxes {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockSettingsRepo) UpsertTax(_ context.Context, tax *models.Tax) error {
	m.taxes = append(m.taxes, *tax)
	return nil
}

func (m *mockSettingsRepo) DeleteTax(_ context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockSettingsRepo) FindTemplate(_ context.Context, triggerID string) (*models.NotificationTemplate, error) {
	tmpl, ok := m.templates[triggerID]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &tmpl, nil
}

func (m *mockSettingsRepo) UpdateTemplate(_ context.Context, triggerID string, fields map[string]interface{}) error {
	return nil
}

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

type mockSMSSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *mockSMSSender) SendSMS(_ context.Context, to, body string) (sender.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return sender.SendResult{}, m.err
	}
	m.sent = append(m.sent, sentMessage{To: to, Body: body})
	return sender.SendResult{MessageID: "sms-1"}, nil
}

type mockEmailSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *mockEmailSender) SendEmail(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return sender.SendResult{}, m.err
	}
	m.sent = append(m.sent, sentMessage{To: to, Subject: subject, Body: body})
	return sender.SendResult{MessageID: "email-1"}, nil
}
