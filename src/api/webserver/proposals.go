package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/daoverse/src/api/data"
	"github.com/stake-plus/daoverse/src/gov"
)

type Proposals struct {
	engine    *gov.Engine
	rdb       *redis.Client
	sanitizer *bluemonday.Policy
}

func NewProposals(engine *gov.Engine, rdb *redis.Client) Proposals {
	return Proposals{engine: engine, rdb: rdb, sanitizer: bluemonday.StrictPolicy()}
}

func (h Proposals) Create(c *gin.Context) {
	var req struct {
		DaoCreator    string `json:"daoCreator" binding:"required"`
		DaoSeed       uint64 `json:"daoSeed"`
		Seed          uint64 `json:"seed"`
		Title         string `json:"title" binding:"required"`
		Details       string `json:"details"`
		Cost          uint64 `json:"cost"`
		MinStake      uint64 `json:"minStake"`
		VotingEndTime int64  `json:"votingEndTime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	proposal, err := h.engine.CreateProposal(c, gov.CreateProposalParams{
		Proposer:      caller(c),
		DaoCreator:    req.DaoCreator,
		DaoSeed:       req.DaoSeed,
		Seed:          req.Seed,
		Title:         h.sanitizer.Sanitize(req.Title),
		Details:       h.sanitizer.Sanitize(req.Details),
		Cost:          req.Cost,
		MinStake:      req.MinStake,
		VotingEndTime: req.VotingEndTime,
	})
	if err != nil {
		abortEngineErr(c, err)
		return
	}

	_ = data.PublishEvent(c, h.rdb, map[string]interface{}{
		"op":    "proposal.create",
		"actor": caller(c),
		"owner": proposal.Owner,
		"seed":  proposal.Seed,
		"title": proposal.Title,
	})
	c.JSON(http.StatusCreated, proposal)
}

func (h Proposals) Get(c *gin.Context) {
	seed, ok := seedParam(c, "seed")
	if !ok {
		return
	}
	proposal, err := h.engine.Proposal(c, c.Param("owner"), seed)
	if err != nil {
		abortEngineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}
