package handler

import (
	"errors"
	"net/http"
	"strconv"

	"fieldpay/internal/domain"
	"fieldpay/internal/middleware"
	"fieldpay/internal/repository"
	"fieldpay/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	orchestrator   *service.Orchestrator
	reconciler     *service.Reconciler
	paymentService *service.PaymentService
	invoiceRepo    *repository.InvoiceRepository
	allocationRepo *repository.AllocationRepository
}

func NewPaymentHandler(
	orchestrator *service.Orchestrator,
	reconciler *service.Reconciler,
	paymentService *service.PaymentService,
	invoiceRepo *repository.InvoiceRepository,
	allocationRepo *repository.AllocationRepository,
) *PaymentHandler {
	return &PaymentHandler{
		orchestrator:   orchestrator,
		reconciler:     reconciler,
		paymentService: paymentService,
		invoiceRepo:    invoiceRepo,
		allocationRepo: allocationRepo,
	}
}

type payRequest struct {
	Amount          *float64 `json:"amount"` // major units; omit to pay the full balance
	PaymentMethodID string   `json:"payment_method_id"`
	PaymentMethod   string   `json:"payment_method"`
	Channel         string   `json:"channel"`
	IdempotencyKey  string   `json:"idempotency_key"`
}

// Pay charges an invoice through the orchestrator.
func (h *PaymentHandler) Pay(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}
	channel := req.Channel
	if channel == "" {
		channel = domain.ChannelOnline
	}

	preq := service.PaymentRequest{
		InvoiceID:       uint(id),
		CompanyID:       middleware.GetCompanyID(c),
		ActorID:         middleware.GetUserID(c),
		PaymentMethodID: req.PaymentMethodID,
		PaymentMethod:   req.PaymentMethod,
		Channel:         channel,
		IdempotencyKey:  req.IdempotencyKey,
	}
	if req.Amount != nil {
		amt := decimal.NewFromFloat(*req.Amount)
		preq.Amount = &amt
	}

	result, err := h.orchestrator.ProcessInvoicePayment(c.Request.Context(), preq)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.RequiresApproval {
		c.JSON(http.StatusAccepted, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Remove unlinks a payment allocation from its invoice and recomputes the
// ledger. The tenant check happens on the allocation's invoice before the
// reconciler runs.
func (h *PaymentHandler) Remove(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid allocation id"})
		return
	}
	alloc, err := h.allocationRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment allocation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load allocation"})
		return
	}
	if alloc.CompanyID != middleware.GetCompanyID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment allocation not found"})
		return
	}
	if err := h.reconciler.RemovePaymentFromInvoice(alloc.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment removed from invoice"})
}

type refundRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"` // major units
	Reason string  `json:"reason"`
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	minor := decimal.NewFromFloat(req.Amount).Mul(decimal.NewFromInt(100)).IntPart()
	p, err := h.paymentService.Refund(middleware.GetCompanyID(c), uint(id), minor, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

func (h *PaymentHandler) Reconcile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	p, err := h.paymentService.MarkReconciled(middleware.GetCompanyID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}
