package repository

import (
	"context"

	"marketplace-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	// LockForOrder reads the current snapshot of the given products under a
	// row lock. Must be called inside a transaction.
	LockForOrder(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error)
	// DecrementStock subtracts qty and recomputes stock_status, guarded by
	// stock_quantity >= qty so stock can never go negative.
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error)
	// UpdateApprovalGuarded applies an admin decision only while the approval
	// status still matches; the coupled lifecycle status changes with it.
	UpdateApprovalGuarded(ctx context.Context, productID uuid.UUID, fromApproval, toApproval, toStatus string) (bool, error)
	// SubmitGuarded moves a product into the review queue only while its
	// lifecycle status still matches.
	SubmitGuarded(ctx context.Context, productID uuid.UUID, fromStatus string) (bool, error)
	FindPendingApproval(ctx context.Context, page, limit int) ([]models.Product, int64, error)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new instance of GormProductRepository.
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *GormProductRepository) FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// LockForOrder acquires SELECT ... FOR UPDATE on all requested rows, ordered
// by id so concurrent orders touching the same products cannot deadlock.
func (r *GormProductRepository) LockForOrder(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", productIDs).
		Order("id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", qty),
			"stock_status": gorm.Expr(
				"CASE WHEN stock_quantity - ? <= 0 THEN ? WHEN stock_quantity - ? <= ? THEN ? ELSE ? END",
				qty, models.StockStatusOutOfStock,
				qty, models.LowStockThreshold, models.StockStatusLowStock,
				models.StockStatusInStock,
			),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormProductRepository) UpdateApprovalGuarded(ctx context.Context, productID uuid.UUID, fromApproval, toApproval, toStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND approval_status = ? AND status = ?", productID, fromApproval, models.ProductStatusPendingApproval).
		Updates(map[string]interface{}{
			"approval_status": toApproval,
			"status":          toStatus,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormProductRepository) SubmitGuarded(ctx context.Context, productID uuid.UUID, fromStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND status = ?", productID, fromStatus).
		Updates(map[string]interface{}{
			"status":          models.ProductStatusPendingApproval,
			"approval_status": models.ApprovalStatusPending,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormProductRepository) FindPendingApproval(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("status = ?", models.ProductStatusPendingApproval)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("updated_at ASC").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
