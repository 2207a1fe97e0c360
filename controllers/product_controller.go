package controllers

import (
	"net/http"

	"marketplace-service/middleware"
	"marketplace-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductController handles HTTP requests for the product approval workflow.
type ProductController struct {
	approvalService services.ApprovalService
}

// NewProductController creates a new ProductController.
func NewProductController(approvalService services.ApprovalService) *ProductController {
	return &ProductController{approvalService: approvalService}
}

// SubmitForApproval handles POST /products/:id/submit
func (pc *ProductController) SubmitForApproval(ctx *gin.Context) {
	contractorID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	product, svcErr := pc.approvalService.SubmitForApproval(ctx.Request.Context(), productID, contractorID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Kind})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// Approve handles POST /admin/products/:id/approve
func (pc *ProductController) Approve(ctx *gin.Context) {
	pc.decide(ctx, "approve")
}

// Reject handles POST /admin/products/:id/reject
func (pc *ProductController) Reject(ctx *gin.Context) {
	pc.decide(ctx, "reject")
}

// RequestChanges handles POST /admin/products/:id/request-changes
func (pc *ProductController) RequestChanges(ctx *gin.Context) {
	pc.decide(ctx, "request-changes")
}

func (pc *ProductController) decide(ctx *gin.Context, action string) {
	adminID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req services.ApprovalDecisionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
	}

	var product interface{}
	var svcErr *services.ServiceError
	switch action {
	case "approve":
		product, svcErr = pc.approvalService.Approve(ctx.Request.Context(), productID, adminID, &req)
	case "reject":
		product, svcErr = pc.approvalService.Reject(ctx.Request.Context(), productID, adminID, &req)
	case "request-changes":
		product, svcErr = pc.approvalService.RequestChanges(ctx.Request.Context(), productID, adminID, &req)
	}
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Kind})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// PendingProducts handles GET /admin/products/pending
func (pc *ProductController) PendingProducts(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	result, svcErr := pc.approvalService.PendingProducts(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Kind})
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// ProductHistory handles GET /admin/products/:id/history
func (pc *ProductController) ProductHistory(ctx *gin.Context) {
	productID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	rows, svcErr := pc.approvalService.ProductHistory(ctx.Request.Context(), productID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Kind})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"history": rows})
}
