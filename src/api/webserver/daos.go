package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/daoverse/src/api/data"
	"github.com/stake-plus/daoverse/src/gov"
)

type Daos struct {
	engine    *gov.Engine
	rdb       *redis.Client
	sanitizer *bluemonday.Policy
}

func NewDaos(engine *gov.Engine, rdb *redis.Client) Daos {
	return Daos{engine: engine, rdb: rdb, sanitizer: bluemonday.StrictPolicy()}
}

type thresholdReq struct {
	QuorumPct   uint8  `json:"quorumPct"`
	ApprovalPct uint8  `json:"approvalPct"`
	MinPeriod   uint64 `json:"minPeriod"`
	MaxPeriod   uint64 `json:"maxPeriod"`
}

func (t thresholdReq) toGov() gov.Threshold {
	return gov.Threshold{
		QuorumPct:   t.QuorumPct,
		ApprovalPct: t.ApprovalPct,
		MinPeriod:   t.MinPeriod,
		MaxPeriod:   t.MaxPeriod,
	}
}

func (h Daos) Create(c *gin.Context) {
	var req struct {
		Seed            uint64       `json:"seed"`
		Asset           string       `json:"asset" binding:"required"`
		Name            string       `json:"name" binding:"required"`
		Description     string       `json:"description"`
		GovernanceModel string       `json:"governanceModel" binding:"required,oneof=token reputation hybrid"`
		VotingModel     string       `json:"votingModel" binding:"required,oneof=one-token-one-vote quadratic weighted-token holder-based"`
		RewardModel     string       `json:"rewardModel" binding:"required,oneof=proportional contribution milestone-vesting none"`
		Threshold       thresholdReq `json:"threshold"`
		Deposit         uint64       `json:"deposit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	dao, err := h.engine.CreateDao(c, gov.CreateDaoParams{
		Creator:         caller(c),
		Seed:            req.Seed,
		Asset:           req.Asset,
		Name:            h.sanitizer.Sanitize(req.Name),
		Description:     h.sanitizer.Sanitize(req.Description),
		GovernanceModel: req.GovernanceModel,
		VotingModel:     req.VotingModel,
		RewardModel:     req.RewardModel,
		Threshold:       req.Threshold.toGov(),
		Deposit:         req.Deposit,
	})
	if err != nil {
		abortEngineErr(c, err)
		return
	}

	_ = data.PublishEvent(c, h.rdb, map[string]interface{}{
		"op":      "dao.create",
		"actor":   caller(c),
		"creator": dao.Creator,
		"seed":    dao.Seed,
		"name":    dao.Name,
	})
	c.JSON(http.StatusCreated, dao)
}

func (h Daos) Update(c *gin.Context) {
	seed, ok := seedParam(c, "seed")
	if !ok {
		return
	}

	var req struct {
		Name            *string       `json:"name"`
		Description     *string       `json:"description"`
		GovernanceModel *string       `json:"governanceModel"`
		VotingModel     *string       `json:"votingModel"`
		RewardModel     *string       `json:"rewardModel"`
		Threshold       *thresholdReq `json:"threshold"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	upd := gov.DaoUpdate{
		GovernanceModel: req.GovernanceModel,
		VotingModel:     req.VotingModel,
		RewardModel:     req.RewardModel,
	}
	if req.Name != nil {
		clean := h.sanitizer.Sanitize(*req.Name)
		upd.Name = &clean
	}
	if req.Description != nil {
		clean := h.sanitizer.Sanitize(*req.Description)
		upd.Description = &clean
	}
	if req.Threshold != nil {
		t := req.Threshold.toGov()
		upd.Threshold = &t
	}

	dao, err := h.engine.UpdateDao(c, caller(c), c.Param("creator"), seed, upd)
	if err != nil {
		abortEngineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dao)
}

func (h Daos) Get(c *gin.Context) {
	seed, ok := seedParam(c, "seed")
	if !ok {
		return
	}
	dao, err := h.engine.Dao(c, c.Param("creator"), seed)
	if err != nil {
		abortEngineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dao)
}
