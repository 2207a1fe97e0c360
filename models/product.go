package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product lifecycle status.
const (
	ProductStatusDraft           = "DRAFT"
	ProductStatusPendingApproval = "PENDING_APPROVAL"
	ProductStatusActive          = "ACTIVE"
	ProductStatusInactive        = "INACTIVE"
	ProductStatusDiscontinued    = "DISCONTINUED"
)

// Product approval status, the admin-review dimension. Independent of the
// publish/stock status above.
const (
	ApprovalStatusPending         = "PENDING"
	ApprovalStatusApproved        = "APPROVED"
	ApprovalStatusRejected        = "REJECTED"
	ApprovalStatusChangesRequired = "CHANGES_REQUIRED"
)

// Approval action types recorded on ProductApprovalHistory rows.
const (
	ApprovalActionSubmit         = "SUBMIT"
	ApprovalActionApprove        = "APPROVE"
	ApprovalActionReject         = "REJECT"
	ApprovalActionRequestChanges = "REQUEST_CHANGES"
)

// Derived stock status.
const (
	StockStatusInStock    = "IN_STOCK"
	StockStatusLowStock   = "LOW_STOCK"
	StockStatusOutOfStock = "OUT_OF_STOCK"

	LowStockThreshold = 10
)

// StockStatusFor derives the stock status for a quantity.
func StockStatusFor(quantity int) string {
	switch {
	case quantity <= 0:
		return StockStatusOutOfStock
	case quantity <= LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// Product is the GORM model persisted in Postgres. Price is in halalas.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU            string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	ContractorID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"contractor_id"`
	Name           string          `gorm:"type:varchar(256);not null" json:"name"`
	Brand          string          `gorm:"type:varchar(128)" json:"brand"`
	Category       ProductCategory `gorm:"type:varchar(20);not null" json:"category"`
	Description    string          `gorm:"type:text" json:"description,omitempty"`
	Price          int64           `gorm:"not null" json:"price"`
	StockQuantity  int             `gorm:"not null;default:0" json:"stock_quantity"`
	StockStatus    string          `gorm:"type:varchar(20);not null;default:'OUT_OF_STOCK'" json:"stock_status"`
	Status         string          `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	ApprovalStatus string          `gorm:"type:varchar(20);not null;default:'PENDING'" json:"approval_status"`
	Specs          ProductSpecs    `gorm:"type:jsonb" json:"specs"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Orderable reports whether the product may appear on a new order.
func (p *Product) Orderable() bool {
	return p.Status == ProductStatusActive && p.ApprovalStatus == ApprovalStatusApproved
}

// ProductApprovalHistory is the append-only approval ledger, mirroring
// OrderStatusHistory. Never updated in place.
type ProductApprovalHistory struct {
	ID                     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID              uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	PreviousApprovalStatus *string   `gorm:"type:varchar(20)" json:"previous_approval_status"`
	NewApprovalStatus      string    `gorm:"type:varchar(20);not null" json:"new_approval_status"`
	ActionType             string    `gorm:"type:varchar(20);not null" json:"action_type"`
	AdminID                uuid.UUID `gorm:"type:uuid;not null" json:"admin_id"`
	Notes                  string    `gorm:"type:text" json:"notes,omitempty"`
	RejectionReason        string    `gorm:"type:text" json:"rejection_reason,omitempty"`
	ChangesRequired        string    `gorm:"type:text" json:"changes_required,omitempty"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"created_at"`
}
