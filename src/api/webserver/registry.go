package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/daoverse/src/api/data"
	"github.com/stake-plus/daoverse/src/gov"
)

type RegistryHandler struct {
	engine    *gov.Engine
	rdb       *redis.Client
	sanitizer *bluemonday.Policy
}

func NewRegistryHandler(engine *gov.Engine, rdb *redis.Client) RegistryHandler {
	return RegistryHandler{engine: engine, rdb: rdb, sanitizer: bluemonday.StrictPolicy()}
}

func (h RegistryHandler) Init(c *gin.Context) {
	var req struct {
		Asset       string `json:"asset" binding:"required"`
		CreationFee uint64 `json:"creationFee"`
		AdminName   string `json:"adminName"`
		Description string `json:"description"`
		Deposit     uint64 `json:"deposit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	reg, err := h.engine.InitRegistry(c, gov.InitRegistryParams{
		Admin:       caller(c),
		Asset:       req.Asset,
		CreationFee: req.CreationFee,
		AdminName:   h.sanitizer.Sanitize(req.AdminName),
		Description: h.sanitizer.Sanitize(req.Description),
		Deposit:     req.Deposit,
	})
	if err != nil {
		abortEngineErr(c, err)
		return
	}

	_ = data.PublishEvent(c, h.rdb, map[string]interface{}{
		"op":    "registry.init",
		"actor": caller(c),
		"asset": reg.Asset,
		"fee":   reg.CreationFee,
	})
	c.JSON(http.StatusCreated, reg)
}

func (h RegistryHandler) Update(c *gin.Context) {
	var req struct {
		CreationFee *uint64 `json:"creationFee"`
		AdminName   *string `json:"adminName"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	upd := gov.RegistryUpdate{CreationFee: req.CreationFee}
	if req.AdminName != nil {
		clean := h.sanitizer.Sanitize(*req.AdminName)
		upd.AdminName = &clean
	}
	if req.Description != nil {
		clean := h.sanitizer.Sanitize(*req.Description)
		upd.Description = &clean
	}

	reg, err := h.engine.UpdateRegistry(c, caller(c), upd)
	if err != nil {
		abortEngineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h RegistryHandler) Get(c *gin.Context) {
	reg, err := h.engine.Registry(c)
	if err != nil {
		abortEngineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}
