package repository

import (
	"context"
	"fmt"

	"marketplace-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindByIDAndCustomerID(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error)
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
	UpdateStatusGuarded(ctx context.Context, orderID uuid.UUID, statusType, from, to string) (bool, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order together with all its items in one insert graph.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID retrieves an order with its items.
func (r *GormOrderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("id = ?", orderID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDAndCustomerID retrieves a specific order for a customer.
func (r *GormOrderRepository) FindByIDAndCustomerID(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByCustomerID retrieves orders for a customer with pagination.
func (r *GormOrderRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ?", customerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("OrderItems").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// FindAll retrieves all orders with pagination.
func (r *GormOrderRepository) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("OrderItems").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// OrderNumberExists is the generator's pre-check; the unique index on
// order_number remains the source of truth.
func (r *GormOrderRepository) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatusGuarded writes the new status only if the row still holds the
// expected current status. Returns false when the precondition is stale,
// which is how the loser of a concurrent transition finds out.
func (r *GormOrderRepository) UpdateStatusGuarded(ctx context.Context, orderID uuid.UUID, statusType, from, to string) (bool, error) {
	column, ok := models.StatusColumn(statusType)
	if !ok {
		return false, fmt.Errorf("unknown status type %q", statusType)
	}

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND "+column+" = ?", orderID, from).
		Update(column, to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
