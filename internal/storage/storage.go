package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/LJTian/NewsGauge/internal/verifier"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Article 是入库后的文章。PublishedAt 保留 NewsAPI 的原始字符串，
// 排序按字符串倒序进行，只有上游始终给出定宽 ISO-8601 时才等价于时间倒序。
type Article struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:512;not null" json:"title"`
	Content          string    `gorm:"type:text" json:"content"`
	Source           string    `gorm:"size:128" json:"source"`
	URL              string    `gorm:"size:1024;uniqueIndex" json:"url"`
	Category         string    `gorm:"size:64;index" json:"category"`
	PublishedAt      string    `gorm:"size:64;index" json:"published_at"`
	Verified         bool      `gorm:"default:false" json:"verified"`
	CredibilityScore float64   `gorm:"default:0" json:"credibility_score"`
	FetchedAt        time.Time `json:"fetched_at"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStore 打开本地 sqlite 库并确保表结构存在，可在每次启动时安全调用。
// redisAddr 为空则不启用缓存。
func NewStore(dbPath, redisAddr string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Article{}); err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: redisAddr,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed: %v", err)
		}
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// SaveBatch 逐条写入一批已打分的文章，URL 冲突的条目静默跳过，
// 返回实际新增的条数。空列表直接返回 0，不触碰数据库。
func (s *Store) SaveBatch(items []verifier.VerifiedArticle, category string) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	count := 0
	for _, it := range items {
		a := Article{
			Title:            it.Title,
			Content:          it.Description,
			Source:           it.Source,
			URL:              it.URL,
			Category:         category,
			PublishedAt:      it.PublishedAt,
			Verified:         it.Verified,
			CredibilityScore: it.CredibilityScore,
			FetchedAt:        time.Now(),
		}

		// URL 作为幂等键：已存在时 DO NOTHING，RowsAffected 为 0
		res := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).Create(&a)
		if res.Error != nil {
			// 单条失败不影响批内其余条目
			log.Printf("save article %s error: %v", it.URL, res.Error)
			continue
		}
		count += int(res.RowsAffected)
	}

	return count, nil
}

// ListByCategory 按分类返回文章，published_at 字符串倒序，最多 limit 条
func (s *Store) ListByCategory(category string, limit int) ([]Article, error) {
	if limit <= 0 || limit > 1000 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("articles:cat:%s:%d", category, limit)
	if cached, ok := s.fromCache(cacheKey); ok {
		return cached, nil
	}

	var list []Article
	err := s.DB.Where("category = ?", category).
		Order("published_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	s.toCache(cacheKey, list)
	return list, nil
}

// ListAll 返回全部分类的文章，排序与 limit 语义同 ListByCategory
func (s *Store) ListAll(limit int) ([]Article, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	cacheKey := fmt.Sprintf("articles:all:%d", limit)
	if cached, ok := s.fromCache(cacheKey); ok {
		return cached, nil
	}

	var list []Article
	err := s.DB.Order("published_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	s.toCache(cacheKey, list)
	return list, nil
}

// UpdateVerification 按 id 更新判定结果，id 不存在时静默无事发生。
// 只改 verified 与 credibility_score，不触碰分类/URL/正文。
func (s *Store) UpdateVerification(id uint, verified bool, score float64) error {
	return s.DB.Model(&Article{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"verified":          verified,
			"credibility_score": score,
		}).Error
}

// 列表缓存 5 分钟；不做按 key 的主动失效，完全依赖短 TTL 自然过期
const listCacheTTL = 5 * time.Minute

func (s *Store) fromCache(key string) ([]Article, bool) {
	if s.Redis == nil {
		return nil, false
	}
	bs, err := s.Redis.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	var cached []Article
	if err := json.Unmarshal(bs, &cached); err != nil {
		return nil, false
	}
	return cached, true
}

func (s *Store) toCache(key string, list []Article) {
	if s.Redis == nil || len(list) == 0 {
		return
	}
	if bs, err := json.Marshal(list); err == nil {
		_ = s.Redis.Set(context.Background(), key, bs, listCacheTTL).Err()
	}
}
