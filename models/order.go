package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status (ORDER dimension).
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
	OrderStatusRefunded   = "REFUNDED"
)

// Payment status (PAYMENT dimension).
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// Shipping status (SHIPPING dimension).
const (
	ShippingStatusNotShipped = "NOT_SHIPPED"
	ShippingStatusPreparing  = "PREPARING"
	ShippingStatusInTransit  = "IN_TRANSIT"
	ShippingStatusDelivered  = "DELIVERED"
)

// Installation status (INSTALLATION dimension).
const (
	InstallationStatusNotScheduled = "NOT_SCHEDULED"
	InstallationStatusScheduled    = "SCHEDULED"
	InstallationStatusInProgress   = "IN_PROGRESS"
	InstallationStatusCompleted    = "COMPLETED"
)

// Status type recorded on each OrderStatusHistory row.
const (
	StatusTypeOrder        = "ORDER"
	StatusTypePayment      = "PAYMENT"
	StatusTypeShipping     = "SHIPPING"
	StatusTypeInstallation = "INSTALLATION"
)

// Order is the GORM model persisted in Postgres. All monetary amounts are in
// halalas (1 SAR = 100 halalas) so pricing math stays exact.
type Order struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber        string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	CustomerID         uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Status             string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	PaymentStatus      string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	ShippingStatus     string    `gorm:"type:varchar(20);not null;default:'NOT_SHIPPED'" json:"shipping_status"`
	InstallationStatus string    `gorm:"type:varchar(20);not null;default:'NOT_SCHEDULED'" json:"installation_status"`
	Subtotal           int64     `gorm:"not null" json:"subtotal"`
	TaxAmount          int64     `gorm:"not null" json:"tax_amount"`
	ShippingCost       int64     `gorm:"not null" json:"shipping_cost"`
	DiscountAmount     int64     `gorm:"not null;default:0" json:"discount_amount"`
	TotalAmount        int64     `gorm:"not null" json:"total_amount"`
	ShippingName       string    `gorm:"type:varchar(128)" json:"shipping_name"`
	ShippingPhone      string    `gorm:"type:varchar(32)" json:"shipping_phone"`
	ShippingCity       string    `gorm:"type:varchar(64)" json:"shipping_city"`
	ShippingDistrict   string    `gorm:"type:varchar(64)" json:"shipping_district"`
	ShippingStreet     string    `gorm:"type:varchar(256)" json:"shipping_street"`
	ShippingPostalCode string    `gorm:"type:varchar(16)" json:"shipping_postal_code"`
	Notes              string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	OrderItems         []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
}

// StatusFor returns the order's current status in the given dimension.
func (o *Order) StatusFor(statusType string) (string, bool) {
	switch statusType {
	case StatusTypeOrder:
		return o.Status, true
	case StatusTypePayment:
		return o.PaymentStatus, true
	case StatusTypeShipping:
		return o.ShippingStatus, true
	case StatusTypeInstallation:
		return o.InstallationStatus, true
	}
	return "", false
}

// OrderItem is a line-item snapshot captured at order-creation time. It is
// deliberately decoupled from the live Product row so historical orders stay
// immutable even if the product changes later.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ContractorID uuid.UUID       `gorm:"type:uuid;not null;index" json:"contractor_id"`
	ProductName  string          `gorm:"type:varchar(256);not null" json:"product_name"`
	Brand        string          `gorm:"type:varchar(128)" json:"brand"`
	Category     ProductCategory `gorm:"type:varchar(20)" json:"category"`
	UnitPrice    int64           `gorm:"not null" json:"unit_price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	LineTotal    int64           `gorm:"not null" json:"line_total"`
	Specs        ProductSpecs    `gorm:"type:jsonb" json:"specs"`
	Notes        string          `gorm:"type:varchar(512)" json:"notes,omitempty"`
}

// OrderStatusHistory is an append-only ledger row; one row per transition,
// including the initial creation. Never updated or deleted.
type OrderStatusHistory struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	PreviousStatus *string   `gorm:"type:varchar(20)" json:"previous_status"`
	NewStatus      string    `gorm:"type:varchar(20);not null" json:"new_status"`
	StatusType     string    `gorm:"type:varchar(20);not null" json:"status_type"`
	ChangedBy      uuid.UUID `gorm:"type:uuid;not null" json:"changed_by"`
	ChangedByRole  string    `gorm:"type:varchar(20)" json:"changed_by_role"`
	Reason         string    `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
