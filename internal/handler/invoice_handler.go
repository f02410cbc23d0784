package handler

import (
	"errors"
	"net/http"
	"strconv"

	"fieldpay/internal/middleware"
	"fieldpay/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InvoiceHandler struct {
	invoiceRepo    *repository.InvoiceRepository
	allocationRepo *repository.AllocationRepository
}

func NewInvoiceHandler(invoiceRepo *repository.InvoiceRepository, allocationRepo *repository.AllocationRepository) *InvoiceHandler {
	return &InvoiceHandler{invoiceRepo: invoiceRepo, allocationRepo: allocationRepo}
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}
	inv, err := h.invoiceRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoice"})
		return
	}
	if inv.CompanyID != middleware.GetCompanyID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": inv})
}

// ListPayments returns the invoice's payment allocations, newest first.
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}
	inv, err := h.invoiceRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoice"})
		return
	}
	if inv.CompanyID != middleware.GetCompanyID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	allocations, err := h.allocationRepo.ListByInvoice(inv.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": allocations})
}
