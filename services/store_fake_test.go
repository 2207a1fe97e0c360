package services_test

import (
	"context"
	"sync"

	"marketplace-service/models"
	"marketplace-service/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeStore is an in-memory Store with real transaction semantics: each
// Transaction runs against live state and restores a snapshot on error, and
// transactions are serialized so racing callers see guarded-write losses the
// same way they would against Postgres row locks.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	orders         map[uuid.UUID]models.Order
	products       map[uuid.UUID]models.Product
	orderHistory   []models.OrderStatusHistory
	productHistory []models.ProductApprovalHistory

	failOrderCreate error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:   make(map[uuid.UUID]models.Order),
		products: make(map[uuid.UUID]models.Product),
	}
}

func (s *fakeStore) Orders() repository.OrderRepository     { return &fakeOrderRepo{s} }
func (s *fakeStore) Products() repository.ProductRepository { return &fakeProductRepo{s} }
func (s *fakeStore) History() repository.HistoryRepository  { return &fakeHistoryRepo{s} }

func (s *fakeStore) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.clone()
	if err := fn(s); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *fakeStore) seedProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *fakeStore) productByID(id uuid.UUID) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

func (s *fakeStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type storeSnapshot struct {
	orders         map[uuid.UUID]models.Order
	products       map[uuid.UUID]models.Product
	orderHistory   []models.OrderStatusHistory
	productHistory []models.ProductApprovalHistory
}

func (s *fakeStore) clone() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := storeSnapshot{
		orders:         make(map[uuid.UUID]models.Order, len(s.orders)),
		products:       make(map[uuid.UUID]models.Product, len(s.products)),
		orderHistory:   append([]models.OrderStatusHistory(nil), s.orderHistory...),
		productHistory: append([]models.ProductApprovalHistory(nil), s.productHistory...),
	}
	for id, o := range s.orders {
		snap.orders[id] = o
	}
	for id, p := range s.products {
		snap.products[id] = p
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = snap.orders
	s.products = snap.products
	s.orderHistory = snap.orderHistory
	s.productHistory = snap.productHistory
}

// ---- OrderRepository ----

type fakeOrderRepo struct{ s *fakeStore }

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if r.s.failOrderCreate != nil {
		return r.s.failOrderCreate
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.OrderItems {
		if order.OrderItems[i].ID == uuid.Nil {
			order.OrderItems[i].ID = uuid.New()
		}
		order.OrderItems[i].OrderID = order.ID
	}
	r.s.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByIDAndCustomerID(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok || o.CustomerID != customerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Order
	for _, o := range r.s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Order
	for _, o := range r.s.orders {
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.OrderNumber == orderNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) UpdateStatusGuarded(ctx context.Context, orderID uuid.UUID, statusType, from, to string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return false, nil
	}
	current, ok := o.StatusFor(statusType)
	if !ok || current != from {
		return false, nil
	}
	switch statusType {
	case models.StatusTypeOrder:
		o.Status = to
	case models.StatusTypePayment:
		o.PaymentStatus = to
	case models.StatusTypeShipping:
		o.ShippingStatus = to
	case models.StatusTypeInstallation:
		o.InstallationStatus = to
	}
	r.s.orders[orderID] = o
	return true, nil
}

// ---- ProductRepository ----

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) Save(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := p
	return &cp, nil
}

func (r *fakeProductRepo) LockForOrder(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Product
	for _, id := range productIDs {
		if p, ok := r.s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok || p.StockQuantity < qty {
		return false, nil
	}
	p.StockQuantity -= qty
	p.StockStatus = models.StockStatusFor(p.StockQuantity)
	r.s.products[productID] = p
	return true, nil
}

func (r *fakeProductRepo) UpdateApprovalGuarded(ctx context.Context, productID uuid.UUID, fromApproval, toApproval, toStatus string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok || p.ApprovalStatus != fromApproval || p.Status != models.ProductStatusPendingApproval {
		return false, nil
	}
	p.ApprovalStatus = toApproval
	p.Status = toStatus
	r.s.products[productID] = p
	return true, nil
}

func (r *fakeProductRepo) SubmitGuarded(ctx context.Context, productID uuid.UUID, fromStatus string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok || p.Status != fromStatus {
		return false, nil
	}
	p.Status = models.ProductStatusPendingApproval
	p.ApprovalStatus = models.ApprovalStatusPending
	r.s.products[productID] = p
	return true, nil
}

func (r *fakeProductRepo) FindPendingApproval(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Product
	for _, p := range r.s.products {
		if p.Status == models.ProductStatusPendingApproval {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

// ---- HistoryRepository ----

type fakeHistoryRepo struct{ s *fakeStore }

func (r *fakeHistoryRepo) AppendOrderHistory(ctx context.Context, row *models.OrderStatusHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.s.orderHistory = append(r.s.orderHistory, *row)
	return nil
}

func (r *fakeHistoryRepo) AppendProductHistory(ctx context.Context, row *models.ProductApprovalHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.s.productHistory = append(r.s.productHistory, *row)
	return nil
}

func (r *fakeHistoryRepo) ListOrderHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.OrderStatusHistory
	for _, row := range r.s.orderHistory {
		if row.OrderID == orderID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) ListProductHistory(ctx context.Context, productID uuid.UUID) ([]models.ProductApprovalHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ProductApprovalHistory
	for _, row := range r.s.productHistory {
		if row.ProductID == productID {
			out = append(out, row)
		}
	}
	return out, nil
}
