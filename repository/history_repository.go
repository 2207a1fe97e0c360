package repository

import (
	"context"

	"marketplace-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository appends immutable audit rows. It never reads back or
// rejects based on content; the calling engine enforces all business rules
// before a row gets here. Rows are never updated or deleted.
type HistoryRepository interface {
	AppendOrderHistory(ctx context.Context, row *models.OrderStatusHistory) error
	AppendProductHistory(ctx context.Context, row *models.ProductApprovalHistory) error
	ListOrderHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error)
	ListProductHistory(ctx context.Context, productID uuid.UUID) ([]models.ProductApprovalHistory, error)
}

// GormHistoryRepository implements HistoryRepository using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new instance of GormHistoryRepository.
func NewGormHistoryRepository(db *gorm.DB) HistoryRepository {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) AppendOrderHistory(ctx context.Context, row *models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *GormHistoryRepository) AppendProductHistory(ctx context.Context, row *models.ProductApprovalHistory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *GormHistoryRepository) ListOrderHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error) {
	var rows []models.OrderStatusHistory
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormHistoryRepository) ListProductHistory(ctx context.Context, productID uuid.UUID) ([]models.ProductApprovalHistory, error) {
	var rows []models.ProductApprovalHistory
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
