package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestFetcher(srv *httptest.Server, apiKey string) *HeadlineFetcher {
	f := NewHeadlineFetcher(apiKey)
	f.BaseURL = srv.URL
	return f
}

func TestFetchMissingKeyNoRequest(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"articles": []}`))
	}))
	defer srv.Close()

	f := newTestFetcher(srv, "")
	_, err := f.Fetch(context.Background(), "", "business", "us")
	if err == nil {
		t.Fatal("expected configuration error when no API key is available")
	}
	kind, ok := ErrKind(err)
	if !ok || kind != KindConfiguration {
		t.Fatalf("error kind = %v (tagged=%v), want configuration", kind, ok)
	}
	// 缺少凭证时不应发起任何网络请求
	if requests != 0 {
		t.Fatalf("expected 0 upstream requests, got %d", requests)
	}
}

func TestFetchExplicitKeyOverridesDefault(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("apiKey")
		w.Write([]byte(`{"articles": []}`))
	}))
	defer srv.Close()

	f := newTestFetcher(srv, "default-key")
	if _, err := f.Fetch(context.Background(), "explicit-key", "health", "us"); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if gotKey != "explicit-key" {
		t.Fatalf("apiKey param = %q, want explicit key to win", gotKey)
	}

	// 不传显式 key 时回落到默认凭证
	if _, err := f.Fetch(context.Background(), "", "health", "us"); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if gotKey != "default-key" {
		t.Fatalf("apiKey param = %q, want default key fallback", gotKey)
	}
}

func TestFetchNormalizesArticles(t *testing.T) {
	body := `{"articles": [
		{"title": "T1", "description": "d1", "url": "https://example.com/1",
		 "publishedAt": "2024-01-01T00:00:00Z", "source": {"id": "bbc", "name": "BBC"}},
		{"title": "T2", "url": "https://example.com/2", "source": "Plain Source"},
		{"title": "T3", "description": null, "url": "https://example.com/3", "source": null},
		{"title": "T4", "url": "https://example.com/4", "source": 42}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("category") != "business" || r.URL.Query().Get("country") != "us" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := newTestFetcher(srv, "k")
	articles, err := f.Fetch(context.Background(), "", "business", "us")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 4 {
		t.Fatalf("got %d articles, want 4", len(articles))
	}

	// source 是对象时取 name 子字段
	if articles[0].Source != "BBC" {
		t.Fatalf("articles[0].Source = %q, want %q", articles[0].Source, "BBC")
	}
	if articles[0].PublishedAt != "2024-01-01T00:00:00Z" {
		t.Fatalf("PublishedAt not kept verbatim: %q", articles[0].PublishedAt)
	}
	// source 是纯字符串时原样使用
	if articles[1].Source != "Plain Source" {
		t.Fatalf("articles[1].Source = %q, want %q", articles[1].Source, "Plain Source")
	}
	// description 缺失或为 null 时补空字符串
	if articles[1].Description != "" || articles[2].Description != "" {
		t.Fatalf("missing description should be empty, got %q / %q", articles[1].Description, articles[2].Description)
	}
	if articles[2].Source != "" {
		t.Fatalf("null source should normalize to empty, got %q", articles[2].Source)
	}
	// 其它形态兜底为字段原文
	if articles[3].Source != "42" {
		t.Fatalf("articles[3].Source = %q, want raw fallback %q", articles[3].Source, "42")
	}
}

func TestFetchEmptyListIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "totalResults": 0, "articles": []}`))
	}))
	defer srv.Close()

	f := newTestFetcher(srv, "k")
	articles, err := f.Fetch(context.Background(), "", "sports", "us")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("got %d articles, want 0", len(articles))
	}
}

func TestFetchUpstreamErrorIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
	}))
	defer srv.Close()

	f := newTestFetcher(srv, "k")
	_, err := f.Fetch(context.Background(), "", "business", "us")
	if err == nil {
		t.Fatal("expected upstream error")
	}
	kind, _ := ErrKind(err)
	if kind != KindUpstream {
		t.Fatalf("error kind = %v, want upstream", kind)
	}
	if !strings.Contains(err.Error(), "apiKeyInvalid") {
		t.Fatalf("error should carry provider body, got: %v", err)
	}
}

func TestFetchMalformedBodyIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	f := newTestFetcher(srv, "k")
	_, err := f.Fetch(context.Background(), "", "business", "us")
	if err == nil {
		t.Fatal("expected decode error")
	}
	kind, _ := ErrKind(err)
	if kind != KindDecode {
		t.Fatalf("error kind = %v, want decode", kind)
	}
}

func TestFetchConnectionFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // 先关掉，制造连接失败

	f := newTestFetcher(srv, "k")
	_, err := f.Fetch(context.Background(), "", "business", "us")
	if err == nil {
		t.Fatal("expected transport error")
	}
	kind, _ := ErrKind(err)
	if kind != KindTransport {
		t.Fatalf("error kind = %v, want transport", kind)
	}

	var fe *FetchError
	if !errors.As(err, &fe) || fe.Unwrap() == nil {
		t.Fatalf("transport error should wrap the underlying cause: %v", err)
	}
}
