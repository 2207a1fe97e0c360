package services

import (
	"context"
	"fmt"

	"marketplace-service/models"
	"marketplace-service/repository"

	"github.com/google/uuid"
)

// OrderLine is one requested (product, quantity) pair.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
	Notes     string
}

// ProductSnapshot is the immutable view of a product captured for pricing and
// item creation. Downstream code never touches the live Product row again.
type ProductSnapshot struct {
	ID            uuid.UUID
	ContractorID  uuid.UUID
	Name          string
	Brand         string
	Category      models.ProductCategory
	UnitPrice     int64
	StockQuantity int
	Specs         models.ProductSpecs
}

// ValidateInventory reads all requested products in one locked read and
// checks each is orderable with sufficient stock. Must run inside the same
// transaction that decrements stock, so concurrent orders for the same
// product serialize on the row lock.
func ValidateInventory(ctx context.Context, products repository.ProductRepository, lines []OrderLine) ([]ProductSnapshot, *ServiceError) {
	if len(lines) == 0 {
		return nil, validationFailed("at least one item is required")
	}

	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, validationFailed(fmt.Sprintf("invalid quantity %d for product %s", line.Quantity, line.ProductID))
		}
		if seen[line.ProductID] {
			return nil, validationFailed(fmt.Sprintf("duplicate product %s in order", line.ProductID))
		}
		seen[line.ProductID] = true
		ids = append(ids, line.ProductID)
	}

	rows, err := products.LockForOrder(ctx, ids)
	if err != nil {
		return nil, internalError("failed to read products")
	}

	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}

	snapshots := make([]ProductSnapshot, 0, len(lines))
	for _, line := range lines {
		p, ok := byID[line.ProductID]
		if !ok {
			return nil, validationFailed(fmt.Sprintf("product %s not found", line.ProductID))
		}
		if !p.Orderable() {
			return nil, validationFailed(fmt.Sprintf("product %s is not available for ordering", p.ID))
		}
		if line.Quantity > p.StockQuantity {
			return nil, validationFailed(fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", p.ID, line.Quantity, p.StockQuantity))
		}

		snapshots = append(snapshots, ProductSnapshot{
			ID:            p.ID,
			ContractorID:  p.ContractorID,
			Name:          p.Name,
			Brand:         p.Brand,
			Category:      p.Category,
			UnitPrice:     p.Price,
			StockQuantity: p.StockQuantity,
			Specs:         p.Specs,
		})
	}

	return snapshots, nil
}
