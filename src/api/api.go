package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/stake-plus/daoverse/src/api/config"
	"github.com/stake-plus/daoverse/src/api/data"
	"github.com/stake-plus/daoverse/src/api/webserver"
	"github.com/stake-plus/daoverse/src/gov"
	"github.com/stake-plus/daoverse/src/ledger"
)

func migrate(db *gorm.DB) {
	models := append([]interface{}{&ledger.SubAccount{}}, gov.Models...)
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	migrate(db)

	rdb := data.MustRedis(cfg.RedisURL)

	router := webserver.New(cfg, db, rdb)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		var err error
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			reloader, rerr := webserver.NewTLSReloader(cfg.TLSCertFile, cfg.TLSKeyFile)
			if rerr != nil {
				log.Fatalf("tls: %v", rerr)
			}
			httpSrv.TLSConfig = &tls.Config{GetCertificate: reloader.GetCertificate}
			err = httpSrv.ListenAndServeTLS("", "")
		} else {
			err = httpSrv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("Daoverse API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutCtx)
}
