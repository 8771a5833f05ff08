package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://newsapi.org/v2/top-headlines"
	clientTimeout    = 10 * time.Second
	maxResponseBytes = 4 << 20 // 4MB
)

// Article 是规整后的单条新闻，PublishedAt 保留 NewsAPI 的原始字符串不做解析
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

// HeadlineFetcher 调用 NewsAPI 的 top-headlines 接口，按分类/国家抓取头条
type HeadlineFetcher struct {
	// APIKey 为进程级默认凭证，Fetch 的显式参数优先于它
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewHeadlineFetcher(apiKey string) *HeadlineFetcher {
	return &HeadlineFetcher{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		Client:  &http.Client{Timeout: clientTimeout},
	}
}

// sourceField 兼容 NewsAPI source 字段的多种形态：{name: ...} 对象、纯字符串，
// 其余形态直接保留字段原文兜底
type sourceField struct {
	Name string
}

func (s *sourceField) UnmarshalJSON(data []byte) error {
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		s.Name = obj.Name
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Name = str
		return nil
	}

	s.Name = string(data)
	return nil
}

type apiArticle struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	PublishedAt string      `json:"publishedAt"`
	Source      sourceField `json:"source"`
}

type apiResponse struct {
	Articles []apiArticle `json:"articles"`
}

// Fetch 抓取一个分类/国家的头条并规整为 Article 列表。
// apiKey 为空时回落到构造时的 APIKey；两者都为空则不发请求直接报配置错误。
// 上游返回空列表不算错误。
func (f *HeadlineFetcher) Fetch(ctx context.Context, apiKey, category, country string) ([]Article, error) {
	key := apiKey
	if key == "" {
		key = f.APIKey
	}
	if key == "" {
		return nil, &FetchError{
			Kind:    KindConfiguration,
			Message: "API key not found, set NEWSAPI_KEY or pass api_key",
		}
	}

	log.Printf("fetch NewsAPI top headlines: category=%s country=%s", category, country)

	q := url.Values{}
	q.Set("apiKey", key)
	if category != "" {
		q.Set("category", category)
	}
	if country != "" {
		q.Set("country", country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Message: "build request", Err: err}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Message: "request NewsAPI", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Message: "read NewsAPI response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		// 尽量把 NewsAPI 的结构化错误信息带给调用方，解析不了就用原始文本
		detail := strings.TrimSpace(string(body))
		var parsed any
		if json.Unmarshal(body, &parsed) == nil {
			if compact, merr := json.Marshal(parsed); merr == nil {
				detail = string(compact)
			}
		}
		return nil, &FetchError{
			Kind:    KindUpstream,
			Message: fmt.Sprintf("failed to fetch news, status %d: %s", resp.StatusCode, detail),
		}
	}

	var decoded apiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &FetchError{Kind: KindDecode, Message: "invalid JSON from NewsAPI", Err: err}
	}

	articles := make([]Article, 0, len(decoded.Articles))
	for _, it := range decoded.Articles {
		articles = append(articles, Article{
			Title:       it.Title,
			Description: it.Description,
			URL:         it.URL,
			Source:      it.Source.Name,
			PublishedAt: it.PublishedAt,
		})
	}

	return articles, nil
}
