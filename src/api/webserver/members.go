package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/daoverse/src/api/data"
	"github.com/stake-plus/daoverse/src/gov"
)

type Members struct {
	engine *gov.Engine
	rdb    *redis.Client
}

func NewMembers(engine *gov.Engine, rdb *redis.Client) Members {
	return Members{engine: engine, rdb: rdb}
}

func (h Members) Join(c *gin.Context) {
	seed, ok := seedParam(c, "seed")
	if !ok {
		return
	}

	var req struct {
		MemberSeed uint64 `json:"memberSeed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	member, err := h.engine.JoinDao(c, caller(c), c.Param("creator"), seed, req.MemberSeed)
	if err != nil {
		abortEngineErr(c, err)
		return
	}

	_ = data.PublishEvent(c, h.rdb, map[string]interface{}{
		"op":      "member.join",
		"actor":   caller(c),
		"creator": c.Param("creator"),
		"seed":    seed,
	})
	c.JSON(http.StatusCreated, member)
}

func (h Members) Refresh(c *gin.Context) {
	seed, ok := seedParam(c, "seed")
	if !ok {
		return
	}

	var req struct {
		MemberSeed uint64 `json:"memberSeed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	member, err := h.engine.RefreshMemberBalance(c, caller(c), c.Param("creator"), seed, req.MemberSeed)
	if err != nil {
		abortEngineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h Members) Update(c *gin.Context) {
	seed, ok := seedParam(c, "seed")
	if !ok {
		return
	}

	var req struct {
		MemberSeed        uint64  `json:"memberSeed"`
		CreatedProposals  *uint64 `json:"createdProposals"`
		ApprovedProposals *uint64 `json:"approvedProposals"`
		TotalRewards      *uint64 `json:"totalRewards"`
		TotalVotes        *uint64 `json:"totalVotes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	member, err := h.engine.UpdateMember(c, caller(c), c.Param("creator"), seed, req.MemberSeed, gov.MemberUpdate{
		CreatedProposals:  req.CreatedProposals,
		ApprovedProposals: req.ApprovedProposals,
		TotalRewards:      req.TotalRewards,
		TotalVotes:        req.TotalVotes,
	})
	if err != nil {
		abortEngineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}
