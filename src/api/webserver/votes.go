package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/daoverse/src/api/data"
	"github.com/stake-plus/daoverse/src/gov"
)

type Votes struct {
	engine *gov.Engine
	rdb    *redis.Client
}

func NewVotes(engine *gov.Engine, rdb *redis.Client) Votes {
	return Votes{engine: engine, rdb: rdb}
}

func (h Votes) Cast(c *gin.Context) {
	seed, ok := seedParam(c, "seed")
	if !ok {
		return
	}

	var req struct {
		Direction string `json:"direction" binding:"required,oneof=yes no"`
		Stake     uint64 `json:"stake" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	record, err := h.engine.CastVote(c, caller(c), c.Param("owner"), seed, req.Direction, req.Stake)
	if err != nil {
		abortEngineErr(c, err)
		return
	}

	_ = data.PublishEvent(c, h.rdb, map[string]interface{}{
		"op":        "vote.cast",
		"actor":     caller(c),
		"owner":     c.Param("owner"),
		"seed":      seed,
		"direction": record.Direction,
		"stake":     record.Staked,
	})
	c.JSON(http.StatusCreated, record)
}

func (h Votes) Summary(c *gin.Context) {
	seed, ok := seedParam(c, "seed")
	if !ok {
		return
	}
	summary, err := h.engine.Votes(c, c.Param("owner"), seed)
	if err != nil {
		abortEngineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
