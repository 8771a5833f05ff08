package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/LJTian/NewsGauge/internal/collector"
	"github.com/LJTian/NewsGauge/internal/storage"
	"github.com/LJTian/NewsGauge/internal/verifier"
	"github.com/gin-gonic/gin"
)

type Server struct {
	store   *storage.Store
	fetcher *collector.HeadlineFetcher
	country string
}

func NewServer(store *storage.Store, fetcher *collector.HeadlineFetcher, country string) *Server {
	return &Server{store: store, fetcher: fetcher, country: country}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/", s.root)
	r.GET("/healthz", s.health)
	r.GET("/fetch_news", s.fetchNews)
	r.GET("/articles", s.listByCategory)
	r.GET("/articles/all", s.listAll)
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "NewsGauge API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"fetch_news":               "GET /fetch_news?category=business&country=us",
			"get_articles_by_category": "GET /articles?category=business&limit=20",
			"get_all_articles":         "GET /articles/all?limit=100",
		},
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "NewsGauge API is running"})
}

// fetchNews 同步执行一次 抓取 → 打分 → 落库，立即返回结果。
// 与后台定时任务互不干扰，URL 去重交给存储层兜底。
func (s *Server) fetchNews(c *gin.Context) {
	apiKey := c.Query("api_key")
	category := c.DefaultQuery("category", "business")
	country := c.DefaultQuery("country", s.country)

	articles, err := s.fetcher.Fetch(c.Request.Context(), apiKey, category, country)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	verified := verifier.VerifyBatch(articles)

	saved, err := s.store.SaveBatch(verified, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to save articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"count":       len(verified),
		"saved_to_db": saved,
		"articles":    verified,
		"category":    category,
		"country":     country,
	})
}

func (s *Server) listByCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "category is required"})
		return
	}
	limit := parseLimit(c.DefaultQuery("limit", "20"), 20)

	articles, err := s.store.ListByCategory(category, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
		return
	}
	if len(articles) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("No articles found for category: %s", category)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"category": category,
		"count":    len(articles),
		"articles": articles,
	})
}

func (s *Server) listAll(c *gin.Context) {
	limit := parseLimit(c.DefaultQuery("limit", "100"), 100)

	articles, err := s.store.ListAll(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
		return
	}
	if len(articles) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "No articles found in database"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"count":    len(articles),
		"articles": articles,
	})
}

func parseLimit(raw string, def int) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}
