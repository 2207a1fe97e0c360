package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace-service/events"
	"marketplace-service/models"
	"marketplace-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ApprovalDecisionRequest carries the admin's decision annotations.
type ApprovalDecisionRequest struct {
	RejectionReason string `json:"rejection_reason"`
	ChangesRequired string `json:"changes_required"`
	Notes           string `json:"notes"`
}

// ProductListResponse is a paginated product page.
type ProductListResponse struct {
	Products []models.Product `json:"products"`
	Meta     MetaData         `json:"meta"`
}

// ApprovalService governs the product approval lifecycle. Submit is the only
// contractor-initiated transition; approve, reject and request-changes are
// admin decisions, each legal only while the product is still PENDING.
type ApprovalService interface {
	SubmitForApproval(ctx context.Context, productID, contractorID uuid.UUID) (*models.Product, *ServiceError)
	Approve(ctx context.Context, productID, adminID uuid.UUID, req *ApprovalDecisionRequest) (*models.Product, *ServiceError)
	Reject(ctx context.Context, productID, adminID uuid.UUID, req *ApprovalDecisionRequest) (*models.Product, *ServiceError)
	RequestChanges(ctx context.Context, productID, adminID uuid.UUID, req *ApprovalDecisionRequest) (*models.Product, *ServiceError)
	PendingProducts(ctx context.Context, page, limit int) (*ProductListResponse, *ServiceError)
	ProductHistory(ctx context.Context, productID uuid.UUID) ([]models.ProductApprovalHistory, *ServiceError)
}

type approvalServiceImpl struct {
	store     repository.Store
	publisher events.Publisher
	logger    *zap.Logger
}

// NewApprovalService creates a new ApprovalService. publisher may be nil.
func NewApprovalService(store repository.Store, publisher events.Publisher, logger *zap.Logger) ApprovalService {
	return &approvalServiceImpl{store: store, publisher: publisher, logger: logger}
}

// SubmitForApproval moves a contractor's DRAFT (or changes-required) product
// into the review queue.
func (s *approvalServiceImpl) SubmitForApproval(ctx context.Context, productID, contractorID uuid.UUID) (*models.Product, *ServiceError) {
	var product *models.Product
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		product, err = tx.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if product.ContractorID != contractorID {
			return forbidden("product belongs to another contractor")
		}
		if !models.CanSubmitForApproval(product.Status, product.ApprovalStatus) {
			return invalidTransition(fmt.Sprintf("product in status %s cannot be submitted for approval", product.Status))
		}

		ok, err := tx.Products().SubmitGuarded(ctx, productID, product.Status)
		if err != nil {
			return err
		}
		if !ok {
			return invalidTransition("product changed concurrently, refresh and retry")
		}

		prev := product.ApprovalStatus
		if err := tx.History().AppendProductHistory(ctx, &models.ProductApprovalHistory{
			ProductID:              productID,
			PreviousApprovalStatus: &prev,
			NewApprovalStatus:      models.ApprovalStatusPending,
			ActionType:             models.ApprovalActionSubmit,
			AdminID:                contractorID,
		}); err != nil {
			return err
		}

		product.Status = models.ProductStatusPendingApproval
		product.ApprovalStatus = models.ApprovalStatusPending
		return nil
	})
	if err != nil {
		return nil, s.mapProductError(err)
	}

	s.logger.Info("product submitted for approval",
		zap.String("product_id", productID.String()),
		zap.String("contractor_id", contractorID.String()),
	)
	s.publishApproval(ctx, product, models.ApprovalActionSubmit)
	return product, nil
}

// Approve marks a PENDING product APPROVED and activates it.
func (s *approvalServiceImpl) Approve(ctx context.Context, productID, adminID uuid.UUID, req *ApprovalDecisionRequest) (*models.Product, *ServiceError) {
	return s.decide(ctx, productID, adminID, models.ApprovalActionApprove, req)
}

// Reject marks a PENDING product REJECTED and deactivates it. A non-empty
// rejection reason is required.
func (s *approvalServiceImpl) Reject(ctx context.Context, productID, adminID uuid.UUID, req *ApprovalDecisionRequest) (*models.Product, *ServiceError) {
	if strings.TrimSpace(req.RejectionReason) == "" {
		return nil, validationFailed("rejection reason is required")
	}
	return s.decide(ctx, productID, adminID, models.ApprovalActionReject, req)
}

// RequestChanges sends a PENDING product back to DRAFT. A non-empty
// description of the required changes is required.
func (s *approvalServiceImpl) RequestChanges(ctx context.Context, productID, adminID uuid.UUID, req *ApprovalDecisionRequest) (*models.Product, *ServiceError) {
	if strings.TrimSpace(req.ChangesRequired) == "" {
		return nil, validationFailed("changes required description is required")
	}
	return s.decide(ctx, productID, adminID, models.ApprovalActionRequestChanges, req)
}

func (s *approvalServiceImpl) decide(ctx context.Context, productID, adminID uuid.UUID, action string, req *ApprovalDecisionRequest) (*models.Product, *ServiceError) {
	toApproval, toStatus, ok := models.ApprovalOutcome(action)
	if !ok {
		return nil, validationFailed(fmt.Sprintf("unknown approval action %q", action))
	}
	if req == nil {
		req = &ApprovalDecisionRequest{}
	}

	var product *models.Product
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		product, err = tx.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if product.ApprovalStatus != models.ApprovalStatusPending || product.Status != models.ProductStatusPendingApproval {
			return alreadyDecided(fmt.Sprintf("product is %s, not awaiting review", product.ApprovalStatus))
		}

		updated, err := tx.Products().UpdateApprovalGuarded(ctx, productID, models.ApprovalStatusPending, toApproval, toStatus)
		if err != nil {
			return err
		}
		if !updated {
			// A concurrent decision won; history keeps exactly one terminal row.
			return alreadyDecided("product was decided concurrently")
		}

		prev := models.ApprovalStatusPending
		if err := tx.History().AppendProductHistory(ctx, &models.ProductApprovalHistory{
			ProductID:              productID,
			PreviousApprovalStatus: &prev,
			NewApprovalStatus:      toApproval,
			ActionType:             action,
			AdminID:                adminID,
			Notes:                  req.Notes,
			RejectionReason:        req.RejectionReason,
			ChangesRequired:        req.ChangesRequired,
		}); err != nil {
			return err
		}

		product.ApprovalStatus = toApproval
		product.Status = toStatus
		return nil
	})
	if err != nil {
		return nil, s.mapProductError(err)
	}

	s.logger.Info("product approval decided",
		zap.String("product_id", productID.String()),
		zap.String("action", action),
		zap.String("admin_id", adminID.String()),
	)
	s.publishApproval(ctx, product, action)
	return product, nil
}

// PendingProducts lists products awaiting review, oldest submission first.
func (s *approvalServiceImpl) PendingProducts(ctx context.Context, page, limit int) (*ProductListResponse, *ServiceError) {
	products, total, err := s.store.Products().FindPendingApproval(ctx, page, limit)
	if err != nil {
		s.logger.Error("failed to fetch pending products", zap.Error(err))
		return nil, internalError("failed to fetch pending products")
	}
	return &ProductListResponse{Products: products, Meta: buildMeta(page, limit, total)}, nil
}

// ProductHistory returns the append-only approval ledger for one product.
func (s *approvalServiceImpl) ProductHistory(ctx context.Context, productID uuid.UUID) ([]models.ProductApprovalHistory, *ServiceError) {
	if _, err := s.store.Products().FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product not found")
		}
		return nil, internalError("failed to fetch product")
	}
	rows, err := s.store.History().ListProductHistory(ctx, productID)
	if err != nil {
		s.logger.Error("failed to fetch product history", zap.String("product_id", productID.String()), zap.Error(err))
		return nil, internalError("failed to fetch product history")
	}
	return rows, nil
}

func (s *approvalServiceImpl) mapProductError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("product not found")
	}
	s.logger.Error("approval transaction failed", zap.Error(err))
	return internalError("failed to process approval action")
}

func (s *approvalServiceImpl) publishApproval(ctx context.Context, product *models.Product, action string) {
	if s.publisher == nil || product == nil {
		return
	}
	evt := models.ProductApprovalEvent{
		EventType:      "product.approval",
		ProductID:      product.ID.String(),
		ContractorID:   product.ContractorID.String(),
		ActionType:     action,
		ApprovalStatus: product.ApprovalStatus,
		ProductStatus:  product.Status,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, product.ID.String(), evt); err != nil {
		s.logger.Warn("event publish failed", zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}
