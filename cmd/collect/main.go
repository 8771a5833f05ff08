package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/LJTian/NewsGauge/internal/collector"
	"github.com/LJTian/NewsGauge/internal/config"
	"github.com/LJTian/NewsGauge/internal/scheduler"
	"github.com/LJTian/NewsGauge/internal/storage"
	"github.com/LJTian/NewsGauge/internal/verifier"
)

// 一个仅执行一次采集的命令行入口：默认跑完整的一轮并落库；
// 指定 -category 时只抓该分类，打分后打印 JSON，不写库
func main() {
	category := flag.String("category", "", "fetch a single category and print JSON instead of storing")
	country := flag.String("country", "", "country code, defaults to NEWS_COUNTRY")
	apiKey := flag.String("key", "", "NewsAPI key, defaults to NEWSAPI_KEY")
	flag.Parse()

	cfg := config.Load()
	if *country == "" {
		*country = cfg.Country
	}

	fetcher := collector.NewHeadlineFetcher(cfg.NewsAPIKey)

	if *category != "" {
		articles, err := fetcher.Fetch(context.Background(), *apiKey, *category, *country)
		if err != nil {
			log.Fatalf("fetch %s failed: %v", *category, err)
		}

		out, err := json.MarshalIndent(verifier.VerifyBatch(articles), "", "  ")
		if err != nil {
			log.Fatalf("marshal result failed: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	store, err := storage.NewStore(cfg.DBPath, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	s, err := scheduler.New(cfg.CronSpec, fetcher, store, *country)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}

	// 只执行一轮采集任务后退出
	s.RunOnce()
}
