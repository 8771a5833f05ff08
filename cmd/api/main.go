package main

import (
	"log"

	"github.com/LJTian/NewsGauge/internal/api"
	"github.com/LJTian/NewsGauge/internal/collector"
	"github.com/LJTian/NewsGauge/internal/config"
	"github.com/LJTian/NewsGauge/internal/scheduler"
	"github.com/LJTian/NewsGauge/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.DBPath, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	fetcher := collector.NewHeadlineFetcher(cfg.NewsAPIKey)

	// 后台定时抓取：启动即跑一轮，之后按 CronSpec 周期执行
	s, err := scheduler.New(cfg.CronSpec, fetcher, store, cfg.Country)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	// API
	r := gin.Default()

	// 前端跨域访问：放开所有来源
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	r.Use(cors.New(corsCfg))

	apiServer := api.NewServer(store, fetcher, cfg.Country)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
