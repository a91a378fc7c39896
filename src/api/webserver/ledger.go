package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stake-plus/daoverse/src/gov"
	"github.com/stake-plus/daoverse/src/ledger"
)

// LedgerHandler is the custody on-ramp. Deposits are registry-admin only
// once the platform is initialized; before that anyone may fund accounts,
// which is what lets the first admin fund themselves.
type LedgerHandler struct {
	engine *gov.Engine
	db     *gorm.DB
}

func NewLedgerHandler(engine *gov.Engine, db *gorm.DB) LedgerHandler {
	return LedgerHandler{engine: engine, db: db}
}

func (h LedgerHandler) Deposit(c *gin.Context) {
	var req struct {
		Owner  string `json:"owner" binding:"required"`
		Asset  string `json:"asset" binding:"required"`
		Amount uint64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	reg, err := h.engine.Registry(c)
	if err == nil && caller(c) != reg.Admin {
		c.JSON(http.StatusForbidden, gin.H{"err": gov.ErrUnauthorized.Error()})
		return
	}
	if err != nil && !errors.Is(err, gov.ErrNotInitialized) {
		abortEngineErr(c, err)
		return
	}

	if err := ledger.New(h.db).Deposit(req.Owner, req.Asset, req.Amount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.Status(http.StatusCreated)
}

func (h LedgerHandler) Balance(c *gin.Context) {
	bal, err := ledger.New(h.db).BalanceOf(c.Param("owner"), c.Param("asset"))
	if err != nil {
		if errors.Is(err, ledger.ErrNoAccount) {
			c.JSON(http.StatusNotFound, gin.H{"err": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": bal})
}
