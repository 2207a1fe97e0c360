package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-service/events"
	"marketplace-service/models"
	"marketplace-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateOrderRequest is the order creation payload.
type CreateOrderRequest struct {
	Items           []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddress   `json:"shipping_address" binding:"required"`
	Notes           string            `json:"notes"`
}

// CreateOrderItem is one requested line.
type CreateOrderItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Notes     string    `json:"notes"`
}

// ShippingAddress is the delivery destination captured on the order.
type ShippingAddress struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	City       string `json:"city" binding:"required"`
	District   string `json:"district"`
	Street     string `json:"street" binding:"required"`
	PostalCode string `json:"postal_code"`
}

// UpdateOrderStatusRequest is the admin status-transition payload.
type UpdateOrderStatusRequest struct {
	StatusType string `json:"status_type" binding:"required,oneof=ORDER PAYMENT SHIPPING INSTALLATION"`
	NewStatus  string `json:"new_status" binding:"required"`
	Reason     string `json:"reason"`
}

// OrderListResponse is a paginated order page.
type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

// MetaData carries pagination info.
type MetaData struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// OrderService orchestrates order creation and status transitions. All
// writes for one operation happen inside a single transaction; partial
// orders are never visible.
type OrderService interface {
	CreateOrder(ctx context.Context, customerID uuid.UUID, req *CreateOrderRequest) (*models.Order, *ServiceError)
	UpdateStatus(ctx context.Context, orderID, actorID uuid.UUID, actorRole string, req *UpdateOrderStatusRequest) (*models.Order, *ServiceError)
	GetOrderForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, *ServiceError)
	GetCustomerOrders(ctx context.Context, customerID uuid.UUID, page, limit int) (*OrderListResponse, *ServiceError)
	GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, *ServiceError)
	GetOrderHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, *ServiceError)
}

type orderServiceImpl struct {
	store     repository.Store
	numbers   *OrderNumberGenerator
	publisher events.Publisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store repository.Store, numbers *OrderNumberGenerator, publisher events.Publisher, logger *zap.Logger) OrderService {
	return &orderServiceImpl{
		store:     store,
		numbers:   numbers,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateOrder validates inventory, prices the lines, generates the order
// number and persists the order, its items, the stock decrements and the
// initial history row in one transaction.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, customerID uuid.UUID, req *CreateOrderRequest) (*models.Order, *ServiceError) {
	if len(req.Items) == 0 {
		return nil, validationFailed("at least one item is required")
	}

	lines := make([]OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, Notes: item.Notes})
	}

	// Uniqueness probe runs before the transaction so the retry loop never
	// holds row locks; the unique index still has the final say.
	orderNumber, svcErr := s.numbers.Generate(ctx, s.store.Orders())
	if svcErr != nil {
		return nil, svcErr
	}

	var order *models.Order
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		snapshots, vErr := ValidateInventory(ctx, tx.Products(), lines)
		if vErr != nil {
			return vErr
		}

		priced := make([]PricedLine, 0, len(snapshots))
		for i, snap := range snapshots {
			priced = append(priced, PricedLine{UnitPrice: snap.UnitPrice, Quantity: lines[i].Quantity})
		}
		breakdown := CalculatePricing(priced)

		order = &models.Order{
			OrderNumber:        orderNumber,
			CustomerID:         customerID,
			Status:             models.OrderStatusPending,
			PaymentStatus:      models.PaymentStatusPending,
			ShippingStatus:     models.ShippingStatusNotShipped,
			InstallationStatus: models.InstallationStatusNotScheduled,
			Subtotal:           breakdown.Subtotal,
			TaxAmount:          breakdown.TaxAmount,
			ShippingCost:       breakdown.ShippingCost,
			DiscountAmount:     breakdown.DiscountAmount,
			TotalAmount:        breakdown.TotalAmount,
			ShippingName:       req.ShippingAddress.Name,
			ShippingPhone:      req.ShippingAddress.Phone,
			ShippingCity:       req.ShippingAddress.City,
			ShippingDistrict:   req.ShippingAddress.District,
			ShippingStreet:     req.ShippingAddress.Street,
			ShippingPostalCode: req.ShippingAddress.PostalCode,
			Notes:              req.Notes,
		}
		for i, snap := range snapshots {
			order.OrderItems = append(order.OrderItems, models.OrderItem{
				ProductID:    snap.ID,
				ContractorID: snap.ContractorID,
				ProductName:  snap.Name,
				Brand:        snap.Brand,
				Category:     snap.Category,
				UnitPrice:    snap.UnitPrice,
				Quantity:     lines[i].Quantity,
				LineTotal:    LineTotal(snap.UnitPrice, lines[i].Quantity),
				Specs:        snap.Specs,
				Notes:        lines[i].Notes,
			})
		}

		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		for i, snap := range snapshots {
			ok, err := tx.Products().DecrementStock(ctx, snap.ID, lines[i].Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// The locked read should make this unreachable; the guard is
				// what keeps stock from going negative if it is not.
				return validationFailed(fmt.Sprintf("insufficient stock for product %s", snap.ID))
			}
		}

		return tx.History().AppendOrderHistory(ctx, &models.OrderStatusHistory{
			OrderID:       order.ID,
			NewStatus:     models.OrderStatusPending,
			StatusType:    models.StatusTypeOrder,
			ChangedBy:     customerID,
			ChangedByRole: "CUSTOMER",
			Reason:        "order created",
		})
	})
	if err != nil {
		return nil, s.mapOrderError(err, orderNumber)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int64("total_amount", order.TotalAmount),
	)
	s.publish(ctx, order.ID.String(), models.OrderCreatedEvent{
		EventType:   "order.created",
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		CustomerID:  customerID.String(),
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.OrderItems),
		Timestamp:   time.Now().UTC(),
	})

	return order, nil
}

// UpdateStatus applies one status transition in the requested dimension.
// Role checks happen at the route boundary; state legality is re-validated
// here regardless.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID, actorID uuid.UUID, actorRole string, req *UpdateOrderStatusRequest) (*models.Order, *ServiceError) {
	if !models.ValidStatusType(req.StatusType) {
		return nil, validationFailed(fmt.Sprintf("unknown status type %q", req.StatusType))
	}

	var order *models.Order
	var previous string
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		order, err = tx.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		current, _ := order.StatusFor(req.StatusType)
		previous = current
		if !models.CanTransition(req.StatusType, current, req.NewStatus) {
			return invalidTransition(fmt.Sprintf("cannot move %s status from %s to %s", req.StatusType, current, req.NewStatus))
		}

		ok, err := tx.Orders().UpdateStatusGuarded(ctx, orderID, req.StatusType, current, req.NewStatus)
		if err != nil {
			return err
		}
		if !ok {
			// Lost a race: the row no longer holds the status we read.
			return invalidTransition("order status changed concurrently, refresh and retry")
		}

		prev := current
		if err := tx.History().AppendOrderHistory(ctx, &models.OrderStatusHistory{
			OrderID:        orderID,
			PreviousStatus: &prev,
			NewStatus:      req.NewStatus,
			StatusType:     req.StatusType,
			ChangedBy:      actorID,
			ChangedByRole:  actorRole,
			Reason:         req.Reason,
		}); err != nil {
			return err
		}

		setOrderStatus(order, req.StatusType, req.NewStatus)
		return nil
	})
	if err != nil {
		return nil, s.mapOrderError(err, "")
	}

	s.logger.Info("order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status_type", req.StatusType),
		zap.String("new_status", req.NewStatus),
		zap.String("actor", actorID.String()),
	)
	s.publish(ctx, orderID.String(), models.OrderStatusChangedEvent{
		EventType:      "order.status_changed",
		OrderID:        orderID.String(),
		OrderNumber:    order.OrderNumber,
		StatusType:     req.StatusType,
		PreviousStatus: previous,
		NewStatus:      req.NewStatus,
		ChangedBy:      actorID.String(),
		Timestamp:      time.Now().UTC(),
	})

	return order, nil
}

// GetOrderForCustomer retrieves a specific order owned by the customer.
func (s *orderServiceImpl) GetOrderForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.store.Orders().FindByIDAndCustomerID(ctx, orderID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order not found")
		}
		s.logger.Error("failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internalError("failed to fetch order")
	}
	return order, nil
}

// GetCustomerOrders retrieves paginated orders for one customer.
func (s *orderServiceImpl) GetCustomerOrders(ctx context.Context, customerID uuid.UUID, page, limit int) (*OrderListResponse, *ServiceError) {
	orders, total, err := s.store.Orders().FindByCustomerID(ctx, customerID, page, limit)
	if err != nil {
		s.logger.Error("failed to fetch customer orders", zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, internalError("failed to fetch orders")
	}
	return &OrderListResponse{Orders: orders, Meta: buildMeta(page, limit, total)}, nil
}

// GetAllOrders retrieves paginated orders across customers (admin surface).
func (s *orderServiceImpl) GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, *ServiceError) {
	orders, total, err := s.store.Orders().FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("failed to fetch orders", zap.Error(err))
		return nil, internalError("failed to fetch orders")
	}
	return &OrderListResponse{Orders: orders, Meta: buildMeta(page, limit, total)}, nil
}

// GetOrderHistory returns the append-only transition ledger for one order.
func (s *orderServiceImpl) GetOrderHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, *ServiceError) {
	if _, err := s.store.Orders().FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order not found")
		}
		return nil, internalError("failed to fetch order")
	}
	rows, err := s.store.History().ListOrderHistory(ctx, orderID)
	if err != nil {
		s.logger.Error("failed to fetch order history", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internalError("failed to fetch order history")
	}
	return rows, nil
}

func (s *orderServiceImpl) mapOrderError(err error, orderNumber string) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("order not found")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the order-number race at commit; the pre-check was only ever
		// an optimization.
		s.logger.Warn("order number collided at commit", zap.String("order_number", orderNumber))
		return generationExhausted("order number collided, please retry")
	}
	s.logger.Error("order transaction failed", zap.Error(err))
	return internalError("failed to process order")
}

func (s *orderServiceImpl) publish(ctx context.Context, key string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, payload); err != nil {
		s.logger.Warn("event publish failed", zap.String("key", key), zap.Error(err))
	}
}

func setOrderStatus(order *models.Order, statusType, status string) {
	switch statusType {
	case models.StatusTypeOrder:
		order.Status = status
	case models.StatusTypePayment:
		order.PaymentStatus = status
	case models.StatusTypeShipping:
		order.ShippingStatus = status
	case models.StatusTypeInstallation:
		order.InstallationStatus = status
	}
}

func buildMeta(page, limit int, total int64) MetaData {
	return MetaData{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: calculateTotalPages(total, limit),
		HasMore:    total > int64(page*limit),
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
