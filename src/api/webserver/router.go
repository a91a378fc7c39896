package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stake-plus/daoverse/src/api/config"
	"github.com/stake-plus/daoverse/src/gov"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	r := gin.Default()
	attachRoutes(r, cfg, db, rdb)
	return r
}

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	engine := gov.NewEngine(db)

	authH := NewAuth(rdb, []byte(cfg.JWTSecret))
	regH := NewRegistryHandler(engine, rdb)
	daoH := NewDaos(engine, rdb)
	memberH := NewMembers(engine, rdb)
	propH := NewProposals(engine, rdb)
	voteH := NewVotes(engine, rdb)
	rewardH := NewRewards(engine, rdb)
	ledgerH := NewLedgerHandler(engine, db)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/challenge", authH.Challenge)
		v1.POST("/auth/verify", authH.Verify)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		secured.GET("/registry", regH.Get)
		secured.POST("/registry", regH.Init)
		secured.PATCH("/registry", regH.Update)

		secured.POST("/daos", daoH.Create)
		secured.GET("/daos/:creator/:seed", daoH.Get)
		secured.PATCH("/daos/:creator/:seed", daoH.Update)

		secured.POST("/daos/:creator/:seed/members", memberH.Join)
		secured.POST("/daos/:creator/:seed/members/refresh", memberH.Refresh)
		secured.PATCH("/daos/:creator/:seed/members", memberH.Update)

		secured.POST("/proposals", propH.Create)
		secured.GET("/proposals/:owner/:seed", propH.Get)
		secured.POST("/proposals/:owner/:seed/votes", voteH.Cast)
		secured.GET("/proposals/:owner/:seed/votes", voteH.Summary)
		secured.POST("/proposals/:owner/:seed/finalize", rewardH.Finalize)
		secured.POST("/proposals/:owner/:seed/claim", rewardH.Claim)

		secured.POST("/ledger/deposit", ledgerH.Deposit)
		secured.GET("/ledger/balance/:owner/:asset", ledgerH.Balance)
	}
}
