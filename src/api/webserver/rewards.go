package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/daoverse/src/api/data"
	"github.com/stake-plus/daoverse/src/gov"
)

type Rewards struct {
	engine *gov.Engine
	rdb    *redis.Client
}

func NewRewards(engine *gov.Engine, rdb *redis.Client) Rewards {
	return Rewards{engine: engine, rdb: rdb}
}

func (h Rewards) Finalize(c *gin.Context) {
	seed, ok := seedParam(c, "seed")
	if !ok {
		return
	}

	proposal, err := h.engine.FinalizeProposal(c, caller(c), c.Param("owner"), seed)
	if err != nil {
		abortEngineErr(c, err)
		return
	}

	_ = data.PublishEvent(c, h.rdb, map[string]interface{}{
		"op":       "proposal.finalize",
		"actor":    caller(c),
		"owner":    proposal.Owner,
		"seed":     proposal.Seed,
		"approved": proposal.Approved,
		"pool":     proposal.PoolBalance,
	})
	c.JSON(http.StatusOK, proposal)
}

func (h Rewards) Claim(c *gin.Context) {
	seed, ok := seedParam(c, "seed")
	if !ok {
		return
	}

	res, err := h.engine.ClaimReward(c, caller(c), c.Param("owner"), seed)
	if err != nil {
		abortEngineErr(c, err)
		return
	}

	_ = data.PublishEvent(c, h.rdb, map[string]interface{}{
		"op":        "reward.claim",
		"actor":     caller(c),
		"owner":     c.Param("owner"),
		"seed":      seed,
		"principal": res.Principal,
		"interest":  res.Interest,
	})
	c.JSON(http.StatusOK, res)
}
