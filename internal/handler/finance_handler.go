package handler

import (
	"net/http"
	"strconv"

	"fieldpay/internal/middleware"
	"fieldpay/internal/models"
	"fieldpay/internal/repository"

	"github.com/gin-gonic/gin"
)

// FinanceHandler covers the finance setup surface: settlement bank accounts,
// processor routing rules and the processor transaction log.
type FinanceHandler struct {
	bankAccountRepo     *repository.BankAccountRepository
	processorConfigRepo *repository.ProcessorConfigRepository
	processorTxRepo     *repository.ProcessorTxRepository
}

func NewFinanceHandler(
	bankAccountRepo *repository.BankAccountRepository,
	processorConfigRepo *repository.ProcessorConfigRepository,
	processorTxRepo *repository.ProcessorTxRepository,
) *FinanceHandler {
	return &FinanceHandler{
		bankAccountRepo:     bankAccountRepo,
		processorConfigRepo: processorConfigRepo,
		processorTxRepo:     processorTxRepo,
	}
}

type bankAccountRequest struct {
	Name         string `json:"name" binding:"required"`
	BankName     string `json:"bank_name"`
	AccountLast4 string `json:"account_last4" binding:"omitempty,len=4"`
	IsDefault    bool   `json:"is_default"`
}

func (h *FinanceHandler) CreateBankAccount(c *gin.Context) {
	var req bankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account := &models.BankAccount{
		CompanyID:    middleware.GetCompanyID(c),
		Name:         req.Name,
		BankName:     req.BankName,
		AccountLast4: req.AccountLast4,
		IsActive:     true,
		IsDefault:    req.IsDefault,
	}
	if err := h.bankAccountRepo.Create(account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create bank account"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bank_account": account})
}

func (h *FinanceHandler) ListBankAccounts(c *gin.Context) {
	accounts, err := h.bankAccountRepo.ListByCompany(middleware.GetCompanyID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bank accounts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bank_accounts": accounts})
}

type processorConfigRequest struct {
	ProcessorType string `json:"processor_type" binding:"required"`
	Channel       string `json:"channel"`
	MaxAmount     int64  `json:"max_amount" binding:"omitempty,gte=0"`
	Priority      int    `json:"priority"`
}

func (h *FinanceHandler) CreateProcessorConfig(c *gin.Context) {
	var req processorConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg := &models.ProcessorConfig{
		CompanyID:     middleware.GetCompanyID(c),
		ProcessorType: req.ProcessorType,
		Channel:       req.Channel,
		MaxAmount:     req.MaxAmount,
		Priority:      req.Priority,
		IsActive:      true,
	}
	if err := h.processorConfigRepo.Create(cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create processor config"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"processor_config": cfg})
}

func (h *FinanceHandler) ListProcessorConfigs(c *gin.Context) {
	configs, err := h.processorConfigRepo.ActiveByCompany(middleware.GetCompanyID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load processor configs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processor_configs": configs})
}

func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	txs, err := h.processorTxRepo.ListByCompany(middleware.GetCompanyID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
