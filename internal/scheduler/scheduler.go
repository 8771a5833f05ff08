package scheduler

import (
	"context"
	"log"
	"sync"

	"github.com/LJTian/NewsGauge/internal/collector"
	"github.com/LJTian/NewsGauge/internal/verifier"
	"github.com/robfig/cron/v3"
)

// Categories 每轮按此固定顺序逐个抓取
var Categories = []string{"business", "health", "technology", "sports", "entertainment"}

// HeadlineSource 抽象新闻抓取端，定时任务始终用进程级凭证（apiKey 传空）
type HeadlineSource interface {
	Fetch(ctx context.Context, apiKey, category, country string) ([]collector.Article, error)
}

// ArticleStore 抽象落库端
type ArticleStore interface {
	SaveBatch(items []verifier.VerifiedArticle, category string) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	source  HeadlineSource
	store   ArticleStore
	country string

	wg sync.WaitGroup
}

func New(spec string, source HeadlineSource, store ArticleStore, country string) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:    c,
		source:  source,
		store:   store,
		country: country,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}

	return s, nil
}

// Start 启动定时器，并立即在后台执行第一轮抓取
func (s *Scheduler) Start() {
	s.cron.Start()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runOnce()
	}()
}

// Stop 停止定时器并等待在途的一轮跑完，已发出的写库动作不会被打断
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.wg.Wait()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发抓取
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start news fetch cycle...")
	for _, category := range Categories {
		s.fetchCategory(category)
	}
	log.Println("news fetch cycle done")
}

// fetchCategory 是单个分类的处理边界：任何失败只记录日志，不中断整轮
func (s *Scheduler) fetchCategory(category string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("fetch %s panic: %v", category, r)
		}
	}()

	articles, err := s.source.Fetch(context.Background(), "", category, s.country)
	if err != nil {
		log.Printf("fetch %s error: %v", category, err)
		return
	}

	verified := verifier.VerifyBatch(articles)
	saved, err := s.store.SaveBatch(verified, category)
	if err != nil {
		log.Printf("save %s batch error: %v", category, err)
		return
	}

	log.Printf("%s done, fetched=%d saved=%d", category, len(articles), saved)
}
